package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/coolbeans/ryakugo/pkg/abbrev"
	"github.com/coolbeans/ryakugo/pkg/document"
	"github.com/coolbeans/ryakugo/pkg/output"
	"github.com/coolbeans/ryakugo/pkg/source"
)

const stdinSource = "<stdin>"

func extractCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [file|-]",
		Short: "Extract definitions from one statute",
		Long: `Extract formal terms and their abbreviations from a statute file, or
from standard input when the file is omitted or "-".

Examples:
  ryakugo extract law.txt
  ryakugo extract --encoding shift_jis --format csv law.txt
  cat law.txt | ryakugo extract --dedupe --format yaml
  ryakugo extract --db ryakugo.db law.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, name, err := readInput(cmd, args, a.cfg.Input.Encoding)
			if err != nil {
				return err
			}

			doc := document.Process(name, text, a.extractor())
			a.logger.Debug("extracted", "source", name, "pairs", len(doc.Pairs), "spans", doc.Spans)

			db, err := a.openDB()
			if err != nil {
				return err
			}
			if db != nil {
				defer db.Close()
				if err := db.SaveDocument(cmd.Context(), doc); err != nil {
					return fmt.Errorf("failed to save %s: %w", name, err)
				}
			}

			w, closeOutput, err := openOutput(cmd)
			if err != nil {
				return err
			}
			if err := output.Write(w, a.cfg.Output.Format, []document.Document{a.pairOptions().Apply(doc)}); err != nil {
				closeOutput()
				return fmt.Errorf("failed to write results: %w", err)
			}
			return closeOutput()
		},
	}
	addPairFlags(cmd)
	return cmd
}

func stripCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strip [file|-]",
		Short: "Show a statute with its parentheticals removed",
		Long: `Print the text left after removing every full-width parenthetical,
followed by a table of the removed top-level parentheticals and the
character offset at which each was removed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _, err := readInput(cmd, args, a.cfg.Input.Encoding)
			if err != nil {
				return err
			}

			stripped, spans := abbrev.StripParens(text)
			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				encoder.SetEscapeHTML(false)
				return encoder.Encode(struct {
					Stripped string             `json:"stripped"`
					Spans    []abbrev.ParenSpan `json:"spans"`
				}{stripped, spans})
			}
			return printStripped(cmd.OutOrStdout(), stripped, spans)
		},
	}
	cmd.Flags().Bool("json", false, "Print the result as JSON")
	return cmd
}

func printStripped(w io.Writer, stripped string, spans []abbrev.ParenSpan) error {
	fmt.Fprintln(w, stripped)
	if len(spans) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tCONTENT")
	for _, span := range spans {
		fmt.Fprintf(tw, "%d\t%s\n", span.Index, span.SubText)
	}
	return tw.Flush()
}

// readInput decodes the file named by args, or standard input when args is
// empty or "-". It returns the text and the source name to report.
func readInput(cmd *cobra.Command, args []string, encoding string) (string, string, error) {
	if len(args) == 0 || args[0] == "-" {
		text, err := source.Read(cmd.InOrStdin(), encoding)
		return text, stdinSource, err
	}
	text, err := source.ReadFile(args[0], encoding)
	return text, args[0], err
}
