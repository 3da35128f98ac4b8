package kb

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/coolbeans/ryakugo/pkg/abbrev"
	"github.com/coolbeans/ryakugo/pkg/document"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "kb.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSaveDocument_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	doc := document.Process("gyousei.txt", "特例（行政手続法（以下「法」という。）の特例をいう。）", abbrev.NewExtractor())
	if err := db.SaveDocument(ctx, doc); err != nil {
		t.Fatalf("SaveDocument() error = %v", err)
	}

	got, err := db.Pairs(ctx, "gyousei.txt")
	if err != nil {
		t.Fatalf("Pairs() error = %v", err)
	}
	if !reflect.DeepEqual(got, doc.Pairs) {
		t.Errorf("Pairs() = %+v, want %+v", got, doc.Pairs)
	}

	hash, err := db.ContentHash(ctx, "gyousei.txt")
	if err != nil || hash != doc.Hash {
		t.Errorf("ContentHash() = %q, %v; want %q", hash, err, doc.Hash)
	}
}

func TestSaveDocument_Replaces(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	first := document.Document{Source: "a.txt", Hash: "1", Pairs: []abbrev.Pair{
		{Formal: "甲", Abbr: "a"}, {Formal: "乙", Abbr: "b"},
	}}
	second := document.Document{Source: "a.txt", Hash: "2", Pairs: []abbrev.Pair{
		{Formal: "丙", Abbr: "c"},
	}}

	if err := db.SaveDocument(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveDocument(ctx, second); err != nil {
		t.Fatal(err)
	}

	got, err := db.Pairs(ctx, "a.txt")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, second.Pairs) {
		t.Errorf("Pairs() = %+v, want %+v", got, second.Pairs)
	}
	if hash, _ := db.ContentHash(ctx, "a.txt"); hash != "2" {
		t.Errorf("ContentHash() = %q, want 2", hash)
	}
}

func TestDocument(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	doc := document.Process("gyousei.txt", "特例（行政手続法（以下「法」という。）の特例をいう。）", abbrev.NewExtractor())
	if err := db.SaveDocument(ctx, doc); err != nil {
		t.Fatal(err)
	}

	got, err := db.Document(ctx, "gyousei.txt")
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Errorf("Document() = %+v, want %+v", got, doc)
	}

	if _, err := db.Document(ctx, "missing.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Document(missing) error = %v, want ErrNotFound", err)
	}
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	docs := []document.Document{
		{Source: "a.txt", Pairs: []abbrev.Pair{{Formal: "行政手続法", Abbr: "法"}}},
		{Source: "b.txt", Pairs: []abbrev.Pair{
			{Formal: "許可", Abbr: "許"},
			{Formal: "国家行政組織法", Abbr: "法", InParen: true},
		}},
	}
	for _, doc := range docs {
		if err := db.SaveDocument(ctx, doc); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := db.LookupAbbr(ctx, "法")
	if err != nil {
		t.Fatalf("LookupAbbr() error = %v", err)
	}
	want := []Entry{
		{Source: "a.txt", Formal: "行政手続法", Abbr: "法", Ordinal: 0},
		{Source: "b.txt", Formal: "国家行政組織法", Abbr: "法", InParen: true, Ordinal: 1},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("LookupAbbr() = %+v, want %+v", entries, want)
	}

	entries, err = db.LookupFormal(ctx, "許可")
	if err != nil || len(entries) != 1 || entries[0].Source != "b.txt" {
		t.Errorf("LookupFormal() = %+v, %v", entries, err)
	}

	entries, err = db.LookupAbbr(ctx, "存在しない")
	if err != nil || len(entries) != 0 {
		t.Errorf("LookupAbbr() of unknown = %+v, %v", entries, err)
	}
}

func TestDeleteDocument(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	doc := document.Document{Source: "a.txt", Hash: "h", Pairs: []abbrev.Pair{{Formal: "甲", Abbr: "a"}}}
	if err := db.SaveDocument(ctx, doc); err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteDocument(ctx, "a.txt"); err != nil {
		t.Fatalf("DeleteDocument() error = %v", err)
	}

	if _, err := db.ContentHash(ctx, "a.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ContentHash() error = %v, want ErrNotFound", err)
	}
	if entries, _ := db.LookupAbbr(ctx, "a"); len(entries) != 0 {
		t.Errorf("pairs survived document delete: %+v", entries)
	}
}
