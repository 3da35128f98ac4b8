// Package document ties a source text to the definitions extracted from it.
package document

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/coolbeans/ryakugo/pkg/abbrev"
)

// Document is the extraction result for one source text.
type Document struct {
	Source string        `json:"source" yaml:"source"`
	Hash   string        `json:"hash" yaml:"hash"`
	Spans  int           `json:"spans" yaml:"spans"`
	Pairs  []abbrev.Pair `json:"pairs" yaml:"pairs"`
}

// Hash returns the content hash recorded in Document.Hash.
func Hash(text string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(text))
}

// Process extracts definitions from text. Spans counts the top-level
// parentheticals of the text.
func Process(source, text string, extractor *abbrev.Extractor) Document {
	stripped, spans := abbrev.StripParens(text)
	pairs := extractor.Analyze(stripped, spans, false)
	if pairs == nil {
		pairs = []abbrev.Pair{}
	}
	return Document{
		Source: source,
		Hash:   Hash(text),
		Spans:  len(spans),
		Pairs:  pairs,
	}
}

// Options controls post-processing of extracted pairs.
type Options struct {
	Dedupe    bool
	Sort      bool
	OnlyParen bool
}

// Apply returns a copy of doc with the options applied to its pairs.
func (o Options) Apply(doc Document) Document {
	pairs := append([]abbrev.Pair{}, doc.Pairs...)
	if o.OnlyParen {
		pairs = abbrev.FilterInParen(pairs, true)
	}
	if o.Dedupe {
		pairs = abbrev.DedupePairs(pairs)
	}
	if o.Sort {
		abbrev.SortPairs(pairs)
	}
	doc.Pairs = pairs
	return doc
}
