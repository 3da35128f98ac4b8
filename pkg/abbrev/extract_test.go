package abbrev

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Pair
	}{
		// InParen is the flag of the Analyze call holding the span, so a
		// parenthetical in the running text yields false; only nested ones
		// yield true.
		{
			name:  "quoted definition",
			input: "「本機構」とは、独立行政法人をいう。",
			want:  []Pair{{Formal: "独立行政法人", Abbr: "本機構"}},
		},
		{
			name:  "quoted definition around parenthetical",
			input: "この法律において「事業者」とは、商業を行う者（法人を含む。）をいう。",
			want:  []Pair{{Formal: "商業を行う者", Abbr: "事業者"}},
		},
		{
			name:  "naming clause",
			input: "行政手続法（以下「法」という。）",
			want:  []Pair{{Formal: "行政手続法", Abbr: "法"}},
		},
		{
			name:  "naming clause with において",
			input: "当該事業（第二条において「特定事業」という。）",
			want:  []Pair{{Formal: "当該事業", Abbr: "特定事業"}},
		},
		{
			name:  "prescribed term",
			input: "許可（この法律に規定する許可をいう。）",
			want:  []Pair{{Formal: "この法律に規定する許可", Abbr: "許可"}},
		},
		{
			name:  "collective term ending in 等",
			input: "この法律において金融機関等（銀行、信用金庫その他の金融機関をいう。）は、",
			want:  []Pair{{Formal: "銀行、信用金庫その他の金融機関", Abbr: "金融機関等"}},
		},
		{
			name:  "等 without a qualifying term falls back to comma scan",
			input: "銀行、信用金庫等（以下「金融機関等」をいう。）",
			want:  []Pair{{Formal: "以下「金融機関等」", Abbr: "銀行、信用金庫等"}},
		},
		{
			name:  "comma after kanji joins parallel terms",
			input: "国、地方公共団体（以下「国等」という。）",
			want:  []Pair{{Formal: "国、地方公共団体", Abbr: "国等"}},
		},
		{
			name:  "comma after kana ends the term",
			input: "次に掲げる者は、事業者（以下「甲」という。）",
			want:  []Pair{{Formal: "事業者", Abbr: "甲"}},
		},
		{
			name:  "leading comma ends the term",
			input: "、事業者（以下「甲」という。）",
			want:  []Pair{{Formal: "事業者", Abbr: "甲"}},
		},
		{
			name:  "naming and meaning clauses in one parenthetical",
			input: "特定事業（事業者が行う事業をいい、以下「事業」という。）",
			want: []Pair{
				{Formal: "特定事業", Abbr: "事業"},
				{Formal: "事業者が行う事業", Abbr: "特定事業"},
			},
		},
		{
			name:  "definition nested in a parenthetical",
			input: "特例（行政手続法（以下「法」という。）の特例をいう。）",
			want: []Pair{
				{Formal: "行政手続法", Abbr: "法", InParen: true},
				{Formal: "行政手続法の特例", Abbr: "特例"},
			},
		},
		{
			name:  "quoted definition inside a parenthetical",
			input: "甲（「乙」とは、丙をいう。）",
			want: []Pair{
				{Formal: "丙", Abbr: "乙", InParen: true},
				{Formal: "「乙」とは、丙", Abbr: "甲"},
			},
		},
		{
			name:  "two levels of nesting",
			input: "附則（特例（行政手続法（以下「法」という。）の特例をいう。）を含む。）",
			want: []Pair{
				{Formal: "行政手続法", Abbr: "法", InParen: true},
				{Formal: "行政手続法の特例", Abbr: "特例", InParen: true},
			},
		},
		{
			name:  "spans reported in order",
			input: "行政手続法（以下「法」という。）及び許可（この法律に規定する許可をいう。）",
			want: []Pair{
				{Formal: "行政手続法", Abbr: "法"},
				{Formal: "この法律に規定する許可", Abbr: "許可"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract(%q)\n got: %+v\nwant: %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtract_NoDefinitions(t *testing.T) {
	inputs := []string{
		"",
		"この法律は、公布の日から施行する。",
		"（以下「法」という。）",
		"第一条（目的）",
		"「未完」とは、",
		"あ（い",
	}
	for _, input := range inputs {
		if got := Extract(input); len(got) != 0 {
			t.Errorf("Extract(%q) = %+v, want no pairs", input, got)
		}
	}
}

func TestExtract_FirstQuotedDefinitionOnly(t *testing.T) {
	got := Extract("「甲」とは、乙をいう。「丙」とは、丁をいう。")
	want := []Pair{{Formal: "乙", Abbr: "甲"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestAnalyze_InParenFlag(t *testing.T) {
	stripped, spans := StripParens("行政手続法（以下「法」という。）")
	got := NewExtractor().Analyze(stripped, spans, true)
	want := []Pair{{Formal: "行政手続法", Abbr: "法", InParen: true}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestExtractor_MaxDepth(t *testing.T) {
	input := "甲（乙（「丁」とは、戊をいう。））"

	hasInner := func(pairs []Pair) bool {
		for _, p := range pairs {
			if p.Abbr == "丁" && p.Formal == "戊" && p.InParen {
				return true
			}
		}
		return false
	}

	tests := []struct {
		name     string
		depth    int
		wantDeep bool
	}{
		{"default", DefaultMaxDepth, true},
		{"unlimited", 0, true},
		{"exact", 2, true},
		{"too shallow", 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExtractor(WithMaxDepth(tt.depth))
			if e.MaxDepth() != tt.depth {
				t.Errorf("MaxDepth() = %d, want %d", e.MaxDepth(), tt.depth)
			}
			if got := hasInner(e.Extract(input)); got != tt.wantDeep {
				t.Errorf("found nested definition = %v, want %v", got, tt.wantDeep)
			}
		})
	}
}

func TestExtract_PairsAreNonEmpty(t *testing.T) {
	inputs := []string{
		"（以下「甲」という。）（乙をいう。）",
		"等（甲をいう。）",
		"、（以下「甲」という。）",
		"金融機関等（銀行、信用金庫（信用金庫連合会を含む。以下同じ。）その他の金融機関をいう。以下同じ。）",
	}
	for _, input := range inputs {
		for _, p := range Extract(input) {
			if p.Formal == "" || p.Abbr == "" {
				t.Errorf("Extract(%q) produced empty side: %+v", input, p)
			}
		}
	}
}
