package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/coolbeans/ryakugo/pkg/abbrev"
	"github.com/coolbeans/ryakugo/pkg/source"
)

func writeFiles(t *testing.T, files map[string][]byte) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRunner_Run(t *testing.T) {
	dir := writeFiles(t, map[string][]byte{
		"a.txt": []byte("行政手続法（以下「法」という。）"),
		"b.txt": []byte("「本機構」とは、独立行政法人をいう。"),
		"c.txt": {0xff, 0xfe, 0xfd},
	})
	paths := []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.txt"),
		filepath.Join(dir, "c.txt"),
		filepath.Join(dir, "missing.txt"),
	}

	runner := &Runner{Extractor: abbrev.NewExtractor(), Encoding: source.EncodingUTF8, Workers: 2}
	results, err := runner.Run(context.Background(), paths)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	for i, result := range results {
		if result.Path != paths[i] {
			t.Errorf("results[%d].Path = %q, want %q", i, result.Path, paths[i])
		}
	}

	if got := results[0].Document.Pairs; len(got) != 1 || got[0].Abbr != "法" {
		t.Errorf("a.txt pairs = %+v", got)
	}
	if got := results[1].Document.Pairs; len(got) != 1 || got[0].Abbr != "本機構" {
		t.Errorf("b.txt pairs = %+v", got)
	}
	if !errors.Is(results[2].Err, source.ErrInvalidEncoding) {
		t.Errorf("c.txt error = %v, want ErrInvalidEncoding", results[2].Err)
	}
	if results[3].Err == nil {
		t.Error("missing.txt should fail")
	}

	if docs := Documents(results); len(docs) != 2 {
		t.Errorf("Documents() returned %d, want 2", len(docs))
	}
	if n := Failed(results); n != 2 {
		t.Errorf("Failed() = %d, want 2", n)
	}
}

func TestRunner_ManyFiles(t *testing.T) {
	files := make(map[string][]byte)
	var paths []string
	dir := t.TempDir()
	for i := 0; i < 50; i++ {
		name := fmt.Sprintf("%02d.txt", i)
		files[name] = []byte(fmt.Sprintf("第%d号（以下「号%d」という。）", i, i))
		paths = append(paths, filepath.Join(dir, name))
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			t.Fatal(err)
		}
	}

	results, err := (&Runner{Workers: 3}).Run(context.Background(), paths)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for i, result := range results {
		want := fmt.Sprintf("号%d", i)
		if len(result.Document.Pairs) != 1 || result.Document.Pairs[0].Abbr != want {
			t.Errorf("results[%d] pairs = %+v, want abbr %s", i, result.Document.Pairs, want)
		}
	}
}

func TestRunner_Canceled(t *testing.T) {
	dir := writeFiles(t, map[string][]byte{"a.txt": []byte("甲")})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Runner{}).Run(ctx, []string{filepath.Join(dir, "a.txt")})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}
