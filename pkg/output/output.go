// Package output serializes extraction results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/coolbeans/ryakugo/pkg/document"
	"github.com/coolbeans/ryakugo/pkg/store"
)

// Format names accepted by Write.
const (
	FormatJSON   = "json"
	FormatJSONL  = "jsonl"
	FormatCSV    = "csv"
	FormatTSV    = "tsv"
	FormatYAML   = "yaml"
	FormatTurtle = "turtle"
)

// Formats lists every supported output format.
var Formats = []string{FormatJSON, FormatJSONL, FormatCSV, FormatTSV, FormatYAML, FormatTurtle}

// ValidateFormat returns an error for an unknown format name.
func ValidateFormat(format string) error {
	for _, f := range Formats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("unknown output format %q (supported: %v)", format, Formats)
}

// pairRecord is the flat, one-pair-per-record shape used by jsonl and the
// delimited formats.
type pairRecord struct {
	Source  string `json:"source"`
	Formal  string `json:"formal"`
	Abbr    string `json:"abbr"`
	InParen bool   `json:"in_paren"`
}

// Write serializes docs to w in the given format.
func Write(w io.Writer, format string, docs []document.Document) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		encoder.SetEscapeHTML(false)
		return encoder.Encode(docs)
	case FormatJSONL:
		return writeJSONL(w, docs)
	case FormatCSV:
		return writeDelimited(w, ',', docs)
	case FormatTSV:
		return writeDelimited(w, '\t', docs)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(docs); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return encoder.Close()
	case FormatTurtle:
		return writeTurtle(w, docs)
	default:
		return ValidateFormat(format)
	}
}

func writeJSONL(w io.Writer, docs []document.Document) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	for _, doc := range docs {
		for _, pair := range doc.Pairs {
			record := pairRecord{Source: doc.Source, Formal: pair.Formal, Abbr: pair.Abbr, InParen: pair.InParen}
			if err := encoder.Encode(record); err != nil {
				return fmt.Errorf("encoding jsonl: %w", err)
			}
		}
	}
	return nil
}

func writeDelimited(w io.Writer, comma rune, docs []document.Document) error {
	writer := csv.NewWriter(w)
	writer.Comma = comma

	if err := writer.Write([]string{"source", "formal", "abbr", "in_paren"}); err != nil {
		return err
	}
	for _, doc := range docs {
		for _, pair := range doc.Pairs {
			row := []string{doc.Source, pair.Formal, pair.Abbr, strconv.FormatBool(pair.InParen)}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

func writeTurtle(w io.Writer, docs []document.Document) error {
	ts := store.NewTripleStore()
	builder := store.NewGraphBuilder(ts, "")
	for _, doc := range docs {
		if _, err := builder.AddDocument(doc.Source, doc.Pairs); err != nil {
			return fmt.Errorf("building graph for %s: %w", doc.Source, err)
		}
	}
	return store.NewTurtleWriter().Write(w, ts)
}
