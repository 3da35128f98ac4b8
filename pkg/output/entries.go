package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/coolbeans/ryakugo/pkg/kb"
)

// WriteEntries serializes knowledge base lookup results. Turtle is not
// available for entries.
func WriteEntries(w io.Writer, format string, entries []kb.Entry) error {
	if entries == nil {
		entries = []kb.Entry{}
	}

	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		encoder.SetEscapeHTML(false)
		return encoder.Encode(entries)
	case FormatJSONL:
		encoder := json.NewEncoder(w)
		encoder.SetEscapeHTML(false)
		for _, entry := range entries {
			if err := encoder.Encode(entry); err != nil {
				return fmt.Errorf("encoding jsonl: %w", err)
			}
		}
		return nil
	case FormatCSV, FormatTSV:
		writer := csv.NewWriter(w)
		if format == FormatTSV {
			writer.Comma = '\t'
		}
		if err := writer.Write([]string{"source", "formal", "abbr", "in_paren"}); err != nil {
			return err
		}
		for _, entry := range entries {
			row := []string{entry.Source, entry.Formal, entry.Abbr, strconv.FormatBool(entry.InParen)}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
		writer.Flush()
		return writer.Error()
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(entries); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return encoder.Close()
	case FormatTurtle:
		return fmt.Errorf("format %q is not supported for lookup results", format)
	default:
		return ValidateFormat(format)
	}
}
