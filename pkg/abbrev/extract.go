// Package abbrev extracts defined terms and their abbreviations from
// Japanese statutory text.
//
// Definitions in statutes follow a handful of drafting idioms:
//
//	「本機構」とは、独立行政法人をいう。
//	行政手続法（以下「法」という。）
//	許可（この法律に規定する許可をいう。）
//	金融機関等（銀行、信用金庫その他の金融機関をいう。）
//
// The extractor removes full-width parentheticals from the running text,
// matches the idioms against the remaining text and against each
// parenthetical, and recurses into nested parentheticals.
package abbrev

import (
	"regexp"
)

// DefaultMaxDepth bounds how deeply nested parentheticals are recursed into.
const DefaultMaxDepth = 64

// Pair is one recognized definition.
type Pair struct {
	Formal  string `json:"formal" yaml:"formal"`
	Abbr    string `json:"abbr" yaml:"abbr"`
	InParen bool   `json:"in_paren" yaml:"in_paren"`
}

var (
	// 「abbr」とは、formalをいう。
	quotedDefinitionPattern = regexp.MustCompile(`「(?P<abbr>[^「」]+)」とは、(?P<formal>[^。]+)をいう。`)

	// ...に規定するXをいう。
	prescribedTermPattern = regexp.MustCompile(`(?P<formal>[^。]+に規定する(?P<abbr>[^。、]+))をいう。`)

	// 以下「X」という。 and its variants; X is the abbreviation.
	namingClausePattern = regexp.MustCompile(`^.*(?:以下|において)(?:[^「」]+)?「(?P<s>[^「」]+)」(?:と総称する。|という。|といい、|とする。)$`)

	// Xをいう。 / Xをいい、; X is the formal term.
	meaningClausePattern = regexp.MustCompile(`(?:.+。)?(?P<s>[^。]+)(?:をいう。|をいい、).*`)
)

// Option configures an Extractor.
type Option func(*Extractor)

// WithMaxDepth limits recursion into nested parentheticals. Zero or a
// negative value removes the limit.
func WithMaxDepth(depth int) Option {
	return func(e *Extractor) {
		e.maxDepth = depth
	}
}

// Extractor finds definition pairs. It holds no per-call state and is safe
// for concurrent use.
type Extractor struct {
	maxDepth int
}

// NewExtractor creates an Extractor.
func NewExtractor(options ...Option) *Extractor {
	e := &Extractor{maxDepth: DefaultMaxDepth}
	for _, option := range options {
		option(e)
	}
	return e
}

// MaxDepth returns the configured recursion limit.
func (e *Extractor) MaxDepth() int {
	return e.maxDepth
}

var defaultExtractor = NewExtractor()

// Extract returns the definition pairs in text using the default Extractor.
func Extract(text string) []Pair {
	return defaultExtractor.Extract(text)
}

// Extract returns the definition pairs found in text, in discovery order.
func (e *Extractor) Extract(text string) []Pair {
	stripped, spans := StripParens(text)
	return e.Analyze(stripped, spans, false)
}

// Analyze runs the pattern pass over text already split by StripParens.
// inParen marks whether stripped is itself the content of a parenthetical.
func (e *Extractor) Analyze(stripped string, spans []ParenSpan, inParen bool) []Pair {
	return e.analyze(stripped, spans, inParen, 0)
}

func (e *Extractor) analyze(stripped string, spans []ParenSpan, inParen bool, depth int) []Pair {
	var pairs []Pair

	if m := quotedDefinitionPattern.FindStringSubmatch(stripped); m != nil {
		pairs = append(pairs, Pair{
			Formal:  m[quotedDefinitionPattern.SubexpIndex("formal")],
			Abbr:    m[quotedDefinitionPattern.SubexpIndex("abbr")],
			InParen: inParen,
		})
	}

	if len(spans) == 0 {
		return pairs
	}

	// Spans index into the outer text by rune, so convert once per call.
	var outer []rune

	for _, span := range spans {
		subStripped, subSpans := StripParens(span.SubText)

		if e.maxDepth <= 0 || depth < e.maxDepth {
			pairs = append(pairs, e.analyze(subStripped, subSpans, true, depth+1)...)
		}

		if m := prescribedTermPattern.FindStringSubmatch(subStripped); m != nil {
			pairs = append(pairs, Pair{
				Formal:  m[prescribedTermPattern.SubexpIndex("formal")],
				Abbr:    m[prescribedTermPattern.SubexpIndex("abbr")],
				InParen: inParen,
			})
			continue
		}

		naming := namingClausePattern.FindStringSubmatch(subStripped)
		meaning := meaningClausePattern.FindStringSubmatch(subStripped)
		if naming == nil && meaning == nil {
			continue
		}

		if outer == nil {
			outer = []rune(stripped)
		}
		before := outer[:min(span.Index, len(outer))]

		var meaningFormal string
		if meaning != nil {
			meaningFormal = meaning[meaningClausePattern.SubexpIndex("s")]
		}
		term := precedingTerm(before, meaningFormal, meaning != nil)
		if term == "" {
			continue
		}

		if naming != nil {
			pairs = append(pairs, Pair{
				Formal:  term,
				Abbr:    naming[namingClausePattern.SubexpIndex("s")],
				InParen: inParen,
			})
		}
		if meaning != nil {
			pairs = append(pairs, Pair{
				Formal:  meaningFormal,
				Abbr:    term,
				InParen: inParen,
			})
		}
	}

	return pairs
}
