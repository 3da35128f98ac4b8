package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/coolbeans/ryakugo/pkg/abbrev"
)

// GraphBuilder converts extracted definition pairs into triples.
type GraphBuilder struct {
	store   *TripleStore
	baseURI string
}

// BuildStats summarizes one AddDocument call.
type BuildStats struct {
	Triples     int `json:"triples"`
	Definitions int `json:"definitions"`
}

// NewGraphBuilder creates a GraphBuilder writing into store. An empty
// baseURI selects DefaultBaseURI.
func NewGraphBuilder(store *TripleStore, baseURI string) *GraphBuilder {
	if baseURI == "" {
		baseURI = DefaultBaseURI
	}
	if !strings.HasSuffix(baseURI, "#") && !strings.HasSuffix(baseURI, "/") {
		baseURI += "/"
	}
	return &GraphBuilder{
		store:   store,
		baseURI: baseURI,
	}
}

// DocumentURI returns the node URI for a source path. The URI is derived
// from a hash of the path so it stays a valid IRI for any file name.
func (b *GraphBuilder) DocumentURI(source string) string {
	return fmt.Sprintf("%s%016x", b.baseURI, xxhash.Sum64String(source))
}

func (b *GraphBuilder) definitionURI(docURI string, index int) string {
	return fmt.Sprintf("%s/definition/%d", docURI, index)
}

// AddDocument replaces any triples previously built for source with the
// given pairs. Pair order is kept in ryaku:order.
func (b *GraphBuilder) AddDocument(source string, pairs []abbrev.Pair) (*BuildStats, error) {
	if source == "" {
		return nil, fmt.Errorf("document source is empty")
	}

	b.RemoveDocument(source)

	before := b.store.Count()
	docURI := b.DocumentURI(source)

	triples := []Triple{
		NewTriple(docURI, RDFType, ClassDocument),
		NewTriple(docURI, PropPath, source),
	}
	for i, pair := range pairs {
		defURI := b.definitionURI(docURI, i)
		triples = append(triples,
			NewTriple(docURI, PropHasDefinition, defURI),
			NewTriple(defURI, RDFType, ClassDefinition),
			NewTriple(defURI, PropFormal, pair.Formal),
			NewTriple(defURI, PropAbbreviation, pair.Abbr),
			NewTriple(defURI, PropInParen, strconv.FormatBool(pair.InParen)),
			NewTriple(defURI, PropOrder, strconv.Itoa(i)),
			NewTriple(defURI, PropSource, docURI),
		)
	}
	b.store.BulkAdd(triples)

	return &BuildStats{
		Triples:     b.store.Count() - before,
		Definitions: len(pairs),
	}, nil
}

// RemoveDocument deletes the document node for source and all of its
// definitions. It returns the number of triples removed.
func (b *GraphBuilder) RemoveDocument(source string) int {
	docURI := b.DocumentURI(source)
	removed := 0
	for _, triple := range b.store.Find(docURI, PropHasDefinition, "") {
		removed += b.store.Delete(triple.Object, "", "")
	}
	removed += b.store.Delete(docURI, "", "")
	return removed
}
