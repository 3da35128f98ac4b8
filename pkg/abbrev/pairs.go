package abbrev

import (
	"cmp"
	"slices"
)

// Compare orders pairs by formal term, then abbreviation, then with
// top-level definitions before parenthetical ones.
func (p Pair) Compare(other Pair) int {
	if c := cmp.Compare(p.Formal, other.Formal); c != 0 {
		return c
	}
	if c := cmp.Compare(p.Abbr, other.Abbr); c != 0 {
		return c
	}
	switch {
	case p.InParen == other.InParen:
		return 0
	case !p.InParen:
		return -1
	default:
		return 1
	}
}

// SortPairs sorts pairs in place using Pair.Compare.
func SortPairs(pairs []Pair) {
	slices.SortStableFunc(pairs, Pair.Compare)
}

// DedupePairs returns pairs with repeated entries removed, keeping the
// first occurrence of each.
func DedupePairs(pairs []Pair) []Pair {
	seen := make(map[Pair]bool, len(pairs))
	result := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		if seen[p] {
			continue
		}
		seen[p] = true
		result = append(result, p)
	}
	return result
}

// FilterInParen keeps only the pairs whose InParen equals inParen.
func FilterInParen(pairs []Pair, inParen bool) []Pair {
	result := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		if p.InParen == inParen {
			result = append(result, p)
		}
	}
	return result
}
