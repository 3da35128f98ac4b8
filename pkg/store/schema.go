// Package store keeps extracted definitions as RDF triples and serializes
// them as Turtle.
package store

// Namespace URIs used in the definition graph.
const (
	// NamespaceRyaku is the namespace for definition predicates and classes.
	NamespaceRyaku = "https://ryakugo.dev/ontology#"

	NamespaceRDF = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NamespaceXSD = "http://www.w3.org/2001/XMLSchema#"
	NamespaceDC  = "http://purl.org/dc/terms/"
)

// DefaultBaseURI is the base for document and definition node URIs.
const DefaultBaseURI = "https://ryakugo.dev/documents/"

const (
	RDFType = "rdf:type"

	ClassDocument   = "ryaku:Document"
	ClassDefinition = "ryaku:Definition"

	PropFormal        = "ryaku:formal"
	PropAbbreviation  = "ryaku:abbreviation"
	PropInParen       = "ryaku:inParen"
	PropOrder         = "ryaku:order"
	PropPath          = "ryaku:path"
	PropHasDefinition = "ryaku:hasDefinition"
	PropSource        = "dc:source"
)
