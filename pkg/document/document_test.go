package document

import (
	"testing"

	"github.com/coolbeans/ryakugo/pkg/abbrev"
)

func TestProcess(t *testing.T) {
	text := "行政手続法（以下「法」という。）及び許可（この法律に規定する許可をいう。）"
	doc := Process("a.txt", text, abbrev.NewExtractor())

	if doc.Source != "a.txt" {
		t.Errorf("Source = %q, want a.txt", doc.Source)
	}
	if doc.Spans != 2 {
		t.Errorf("Spans = %d, want 2", doc.Spans)
	}
	if len(doc.Pairs) != 2 {
		t.Errorf("got %d pairs, want 2", len(doc.Pairs))
	}
	if doc.Hash != Hash(text) || len(doc.Hash) != 16 {
		t.Errorf("Hash = %q", doc.Hash)
	}
}

func TestProcess_NoPairsIsEmptySlice(t *testing.T) {
	doc := Process("empty.txt", "この法律は、公布の日から施行する。", abbrev.NewExtractor())
	if doc.Pairs == nil {
		t.Error("Pairs should be an empty slice, not nil")
	}
}

func TestHash_ChangesWithContent(t *testing.T) {
	if Hash("甲") == Hash("乙") {
		t.Error("different texts should hash differently")
	}
}

func TestOptions_Apply(t *testing.T) {
	doc := Document{Pairs: []abbrev.Pair{
		{Formal: "乙", Abbr: "b", InParen: true},
		{Formal: "甲", Abbr: "a", InParen: true},
		{Formal: "乙", Abbr: "b", InParen: true},
		{Formal: "丙", Abbr: "c"},
	}}

	got := Options{Dedupe: true, Sort: true, OnlyParen: true}.Apply(doc)
	if len(got.Pairs) != 2 {
		t.Fatalf("got %d pairs, want 2: %+v", len(got.Pairs), got.Pairs)
	}
	if got.Pairs[0].Formal != "乙" || got.Pairs[1].Formal != "甲" {
		t.Errorf("pairs not sorted: %+v", got.Pairs)
	}
	if len(doc.Pairs) != 4 {
		t.Error("Apply modified the input document")
	}

	unchanged := Options{}.Apply(doc)
	if len(unchanged.Pairs) != 4 {
		t.Errorf("zero Options changed pairs: %+v", unchanged.Pairs)
	}
}
