package abbrev

import "strings"

const (
	openParen  = '（'
	closeParen = '）'
)

// ParenSpan records a top-level full-width parenthetical removed from a text.
type ParenSpan struct {
	// Index is the rune offset in the stripped text where the span occurred.
	Index int `json:"index" yaml:"index"`
	// SubText is the content between the outermost parens. Nested parens
	// are kept as-is.
	SubText string `json:"sub_text" yaml:"sub_text"`
}

// StripParens removes every full-width parenthetical from text and returns
// the remaining text along with one ParenSpan per top-level parenthetical.
//
// Malformed nesting never fails: a close paren at depth zero is dropped and
// a span left open at the end of the input produces no record.
func StripParens(text string) (string, []ParenSpan) {
	var stripped, inner strings.Builder
	var spans []ParenSpan
	depth := 0
	count := 0

	for _, r := range text {
		switch {
		case r == openParen:
			if depth > 0 {
				inner.WriteRune(r)
			}
			depth++
		case r == closeParen:
			if depth == 0 {
				continue
			}
			if depth == 1 {
				spans = append(spans, ParenSpan{Index: count, SubText: inner.String()})
				inner.Reset()
			} else {
				inner.WriteRune(r)
			}
			depth--
		case depth == 0:
			stripped.WriteRune(r)
			count++
		default:
			inner.WriteRune(r)
		}
	}

	return stripped.String(), spans
}
