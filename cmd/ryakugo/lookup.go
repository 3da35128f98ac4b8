package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coolbeans/ryakugo/pkg/document"
	"github.com/coolbeans/ryakugo/pkg/kb"
	"github.com/coolbeans/ryakugo/pkg/output"
)

func lookupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <term>",
		Short: "Look up stored definitions by abbreviation",
		Long: `Search the knowledge base filled by extract, batch or watch for every
definition of an abbreviation, or of a formal term with --formal.

With --source the argument is a document path, and its stored extraction
is written in the same shape extract produces.

Examples:
  ryakugo lookup --db ryakugo.db 法
  ryakugo lookup --db ryakugo.db --formal --format tsv 行政手続法
  ryakugo lookup --db ryakugo.db --source --format turtle laws/gyousei.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Output.DB == "" {
				return fmt.Errorf("--db flag is required")
			}
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			bySource, _ := cmd.Flags().GetBool("source")
			if bySource {
				doc, err := db.Document(cmd.Context(), args[0])
				if errors.Is(err, kb.ErrNotFound) {
					return fmt.Errorf("%s is not in the knowledge base", args[0])
				}
				if err != nil {
					return fmt.Errorf("lookup failed: %w", err)
				}
				a.logger.Debug("lookup", "source", doc.Source, "pairs", len(doc.Pairs))
				return output.Write(cmd.OutOrStdout(), a.cfg.Output.Format, []document.Document{doc})
			}

			byFormal, _ := cmd.Flags().GetBool("formal")
			var entries []kb.Entry
			if byFormal {
				entries, err = db.LookupFormal(cmd.Context(), args[0])
			} else {
				entries, err = db.LookupAbbr(cmd.Context(), args[0])
			}
			if err != nil {
				return fmt.Errorf("lookup failed: %w", err)
			}
			a.logger.Debug("lookup", "term", args[0], "formal", byFormal, "results", len(entries))

			return output.WriteEntries(cmd.OutOrStdout(), a.cfg.Output.Format, entries)
		},
	}
	cmd.Flags().Bool("formal", false, "Match the formal term instead of the abbreviation")
	cmd.Flags().Bool("source", false, "Treat the argument as a document path and show its stored pairs")
	cmd.MarkFlagsMutuallyExclusive("formal", "source")
	return cmd
}
