package abbrev

import "strings"

const (
	ideographicComma = '、'
	collectiveSuffix = '等'
)

// isKana reports whether r is in the hiragana (U+3041–U+3094) or katakana
// (U+30A1–U+30FA) ranges.
func isKana(r rune) bool {
	return (r >= '\u3041' && r <= '\u3094') || (r >= '\u30A1' && r <= '\u30FA')
}

// precedingTerm reconstructs the term written immediately before a
// parenthetical. before is the outer text up to the parenthetical. When the
// parenthetical held a meaning clause, meaningFormal is its captured term
// and is used to bound a collective "○○等" term.
func precedingTerm(before []rune, meaningFormal string, hasMeaning bool) string {
	if hasMeaning {
		if term, ok := collectiveTerm(before, meaningFormal); ok {
			return term
		}
	}
	return commaBoundedTerm(before)
}

// collectiveTerm handles text ending in 等. It extends backward from the 等
// while the collected runes still occur in formal, and returns them with
// the 等 appended.
func collectiveTerm(before []rune, formal string) (string, bool) {
	end := len(before) - 1
	if end < 0 || before[end] != collectiveSuffix {
		return "", false
	}

	start := end
	for start > 0 && strings.Contains(formal, string(before[start-1:end])) {
		start--
	}
	if start == end {
		return "", false
	}

	return string(before[start:]), true
}

// commaBoundedTerm walks backward to the nearest 、 that ends a kana run.
// A 、 after a non-kana rune separates parallel terms (銀行、信用金庫) and is
// kept. A 、 at the very start of the text also stops the walk.
func commaBoundedTerm(before []rune) string {
	start := len(before)
	for i := len(before) - 1; i >= 0; i-- {
		if before[i] == ideographicComma && (i == 0 || isKana(before[i-1])) {
			break
		}
		start = i
	}
	return string(before[start:])
}
