package abbrev

import "testing"

func TestIsKana(t *testing.T) {
	tests := []struct {
		r    rune
		want bool
	}{
		{'ぁ', true},
		{'は', true},
		{'ゔ', true},
		{'ゕ', false},
		{'ァ', true},
		{'カ', true},
		{'ヺ', true},
		{'ー', false},
		{'漢', false},
		{'、', false},
		{'a', false},
	}
	for _, tt := range tests {
		if got := isKana(tt.r); got != tt.want {
			t.Errorf("isKana(%q) = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestCommaBoundedTerm(t *testing.T) {
	tests := []struct {
		before string
		want   string
	}{
		{"行政手続法", "行政手続法"},
		{"", ""},
		{"者は、事業者", "事業者"},
		{"国、地方公共団体", "国、地方公共団体"},
		{"届出をした者は、国、都道府県、市町村", "国、都道府県、市町村"},
		{"、事業者", "事業者"},
		{"事業者、", "事業者、"},
		{"カード、会員", "会員"},
	}
	for _, tt := range tests {
		if got := commaBoundedTerm([]rune(tt.before)); got != tt.want {
			t.Errorf("commaBoundedTerm(%q) = %q, want %q", tt.before, got, tt.want)
		}
	}
}

func TestCollectiveTerm(t *testing.T) {
	tests := []struct {
		before string
		formal string
		want   string
		wantOK bool
	}{
		{"この法律において金融機関等", "銀行その他の金融機関", "金融機関等", true},
		{"銀行、信用金庫等", "以下「金融機関等」", "", false},
		{"事業者", "事業者", "", false},
		{"等", "等", "", false},
		{"", "何か", "", false},
		{"全部一致等", "全部一致", "全部一致等", true},
	}
	for _, tt := range tests {
		got, ok := collectiveTerm([]rune(tt.before), tt.formal)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("collectiveTerm(%q, %q) = (%q, %v), want (%q, %v)",
				tt.before, tt.formal, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestPrecedingTerm(t *testing.T) {
	tests := []struct {
		name       string
		before     string
		formal     string
		hasMeaning bool
		want       string
	}{
		{"collective rule applies", "において保険会社等", "生命保険会社及び損害保険会社", true, "保険会社等"},
		{"collective rule needs meaning clause", "において保険会社等", "", false, "において保険会社等"},
		{"falls back to comma scan", "ものは、信託会社等", "以下「甲」", true, "信託会社等"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := precedingTerm([]rune(tt.before), tt.formal, tt.hasMeaning)
			if got != tt.want {
				t.Errorf("precedingTerm() = %q, want %q", got, tt.want)
			}
		})
	}
}
