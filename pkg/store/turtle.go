package store

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Prefix binds a Turtle prefix label to a namespace URI.
type Prefix struct {
	Label     string
	Namespace string
}

// DefaultPrefixes are declared by every TurtleWriter.
var DefaultPrefixes = []Prefix{
	{Label: "dc", Namespace: NamespaceDC},
	{Label: "rdf", Namespace: NamespaceRDF},
	{Label: "ryaku", Namespace: NamespaceRyaku},
	{Label: "xsd", Namespace: NamespaceXSD},
}

// predicateRank orders the predicates of a node. Unlisted predicates sort
// after these, alphabetically.
var predicateRank = map[string]int{
	RDFType:           0,
	PropPath:          1,
	PropHasDefinition: 2,
	PropFormal:        3,
	PropAbbreviation:  4,
	PropInParen:       5,
	PropOrder:         6,
	PropSource:        7,
}

// TurtleWriter renders a TripleStore as Turtle. Documents are written in
// path order, each followed by its definitions in extraction order; nodes
// not reachable from a document come last.
type TurtleWriter struct {
	prefixes   []Prefix
	namespaces map[string]string // label -> namespace
}

// NewTurtleWriter creates a writer declaring DefaultPrefixes plus extra.
func NewTurtleWriter(extra ...Prefix) *TurtleWriter {
	prefixes := append(append([]Prefix{}, DefaultPrefixes...), extra...)
	sort.SliceStable(prefixes, func(i, j int) bool {
		return prefixes[i].Label < prefixes[j].Label
	})

	namespaces := make(map[string]string, len(prefixes))
	for _, prefix := range prefixes {
		namespaces[prefix.Label] = prefix.Namespace
	}
	return &TurtleWriter{prefixes: prefixes, namespaces: namespaces}
}

// Write serializes every triple in ts to w.
func (tw *TurtleWriter) Write(w io.Writer, ts *TripleStore) error {
	out := bufio.NewWriter(w)

	for _, prefix := range tw.prefixes {
		fmt.Fprintf(out, "@prefix %s: <%s> .\n", prefix.Label, prefix.Namespace)
	}

	subjects := subjectOrder(ts)
	rank := make(map[string]int, len(subjects))
	for i, subject := range subjects {
		rank[subject] = i
	}

	for _, subject := range subjects {
		out.WriteString("\n")
		tw.writeNode(out, subject, ts.Find(subject, "", ""), rank)
	}

	return out.Flush()
}

// subjectOrder lists documents by path, each followed by its definitions
// by ryaku:order, then every remaining subject lexically.
func subjectOrder(ts *TripleStore) []string {
	documents := ts.Find("", RDFType, ClassDocument)
	sort.Slice(documents, func(i, j int) bool {
		pi, pj := ts.GetOne(documents[i].Subject, PropPath), ts.GetOne(documents[j].Subject, PropPath)
		if pi != pj {
			return pi < pj
		}
		return documents[i].Subject < documents[j].Subject
	})

	var order []string
	seen := make(map[string]bool)
	visit := func(subject string) {
		if !seen[subject] {
			seen[subject] = true
			order = append(order, subject)
		}
	}

	for _, document := range documents {
		visit(document.Subject)

		definitions := ts.Find(document.Subject, PropHasDefinition, "")
		sort.Slice(definitions, func(i, j int) bool {
			oi, oj := definitionOrder(ts, definitions[i].Object), definitionOrder(ts, definitions[j].Object)
			if oi != oj {
				return oi < oj
			}
			return definitions[i].Object < definitions[j].Object
		})
		for _, definition := range definitions {
			if len(ts.Find(definition.Object, "", "")) > 0 {
				visit(definition.Object)
			}
		}
	}

	for _, subject := range ts.Subjects() {
		visit(subject)
	}
	return order
}

func definitionOrder(ts *TripleStore, definition string) int {
	order, err := strconv.Atoi(ts.GetOne(definition, PropOrder))
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return order
}

func (tw *TurtleWriter) writeNode(out *bufio.Writer, subject string, triples []Triple, rank map[string]int) {
	objects := make(map[string][]string)
	for _, triple := range triples {
		objects[triple.Predicate] = append(objects[triple.Predicate], triple.Object)
	}

	predicates := make([]string, 0, len(objects))
	for predicate := range objects {
		predicates = append(predicates, predicate)
	}
	sort.Slice(predicates, func(i, j int) bool {
		ri, iKnown := predicateRank[predicates[i]]
		rj, jKnown := predicateRank[predicates[j]]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		default:
			return predicates[i] < predicates[j]
		}
	})

	out.WriteString(tw.resource(subject))
	for i, predicate := range predicates {
		if i == 0 {
			out.WriteString(" ")
		} else {
			out.WriteString(" ;\n    ")
		}

		if predicate == RDFType || predicate == NamespaceRDF+"type" {
			out.WriteString("a")
		} else {
			out.WriteString(tw.resource(predicate))
		}

		values := objects[predicate]
		sortObjects(values, rank)
		for j, value := range values {
			if j > 0 {
				out.WriteString(",")
			}
			out.WriteString(" ")
			out.WriteString(tw.object(predicate, value))
		}
	}
	out.WriteString(" .\n")
}

// sortObjects orders node references by their position in the output and
// everything else lexically.
func sortObjects(values []string, rank map[string]int) {
	sort.Slice(values, func(i, j int) bool {
		ri, iNode := rank[values[i]]
		rj, jNode := rank[values[j]]
		if iNode && jNode {
			return ri < rj
		}
		if iNode != jNode {
			return iNode
		}
		return values[i] < values[j]
	})
}

// resource renders a URI or declared prefixed name.
func (tw *TurtleWriter) resource(value string) string {
	if isURI(value) {
		if compact, ok := tw.compact(value); ok {
			return compact
		}
		return "<" + iriEscaper.Replace(value) + ">"
	}
	return value
}

// object renders an object value. Statute text is always a string literal.
// ryaku:inParen and ryaku:order values are written as boolean and integer
// literals.
func (tw *TurtleWriter) object(predicate, value string) string {
	switch predicate {
	case PropFormal, PropAbbreviation, PropPath:
		return quote(value)
	case PropInParen:
		if value == "true" || value == "false" {
			return value
		}
	case PropOrder:
		if _, err := strconv.ParseUint(value, 10, 64); err == nil {
			return value
		}
	}

	if isURI(value) || tw.isPrefixedName(value) {
		return tw.resource(value)
	}
	return quote(value)
}

func quote(value string) string {
	return `"` + literalEscaper.Replace(value) + `"`
}

// compact shortens uri with the longest matching declared namespace.
func (tw *TurtleWriter) compact(uri string) (string, bool) {
	best := Prefix{}
	for _, prefix := range tw.prefixes {
		local, ok := strings.CutPrefix(uri, prefix.Namespace)
		if ok && isLocalName(local) && len(prefix.Namespace) > len(best.Namespace) {
			best = prefix
		}
	}
	if best.Namespace == "" {
		return "", false
	}
	return best.Label + ":" + uri[len(best.Namespace):], true
}

// isPrefixedName reports whether value is label:local for a declared
// label. Statute text that happens to contain a colon is not.
func (tw *TurtleWriter) isPrefixedName(value string) bool {
	label, local, found := strings.Cut(value, ":")
	if !found {
		return false
	}
	if _, declared := tw.namespaces[label]; !declared {
		return false
	}
	return isLocalName(local)
}

func isURI(value string) bool {
	return strings.HasPrefix(value, "http://") ||
		strings.HasPrefix(value, "https://") ||
		strings.HasPrefix(value, "urn:")
}

func isLocalName(local string) bool {
	return local != "" && !strings.ContainsAny(local, " \t\n\r<>\"{}|^`\\/#")
}

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

var iriEscaper = strings.NewReplacer(
	"<", `\u003C`,
	">", `\u003E`,
	`"`, `\u0022`,
	" ", `\u0020`,
	"{", `\u007B`,
	"}", `\u007D`,
)
