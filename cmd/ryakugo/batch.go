package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coolbeans/ryakugo/pkg/batch"
	"github.com/coolbeans/ryakugo/pkg/document"
	"github.com/coolbeans/ryakugo/pkg/kb"
	"github.com/coolbeans/ryakugo/pkg/output"
	"github.com/coolbeans/ryakugo/pkg/watch"
)

func batchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Extract definitions from every statute under a directory",
		Long: `Extract definitions from every file under a directory selected by the
include and exclude globs (default "**/*.txt"). Files are processed
concurrently. Unreadable files are reported and skipped; the command
fails after writing the results if any file was skipped.

Examples:
  ryakugo batch statutes/
  ryakugo batch --workers 8 --format jsonl statutes/
  ryakugo batch --db ryakugo.db statutes/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]

			matcher, err := a.matcher()
			if err != nil {
				return err
			}
			paths, err := matcher.Discover(root)
			if err != nil {
				return err
			}
			a.logger.Info("discovered files", "root", root, "files", len(paths))

			runner := &batch.Runner{
				Extractor: a.extractor(),
				Encoding:  a.cfg.Input.Encoding,
				Workers:   a.cfg.Batch.Workers,
				Logger:    a.logger,
			}
			results, err := runner.Run(cmd.Context(), paths)
			if err != nil {
				return err
			}
			docs := batch.Documents(results)

			db, err := a.openDB()
			if err != nil {
				return err
			}
			if db != nil {
				defer db.Close()
				for _, doc := range docs {
					if err := saveIfChanged(cmd.Context(), a, db, doc); err != nil {
						return err
					}
				}
			}

			options := a.pairOptions()
			for i := range docs {
				docs[i] = options.Apply(docs[i])
			}

			w, closeOutput, err := openOutput(cmd)
			if err != nil {
				return err
			}
			if err := output.Write(w, a.cfg.Output.Format, docs); err != nil {
				closeOutput()
				return fmt.Errorf("failed to write results: %w", err)
			}
			if err := closeOutput(); err != nil {
				return err
			}

			if failed := batch.Failed(results); failed > 0 {
				return fmt.Errorf("%d of %d files could not be read", failed, len(results))
			}
			return nil
		},
	}
	addPairFlags(cmd)
	cmd.Flags().Int("workers", batch.DefaultWorkers, "Number of files processed concurrently")
	return cmd
}

// saveIfChanged stores doc unless the knowledge base already holds the
// same content for its source.
func saveIfChanged(ctx context.Context, a *app, db *kb.DB, doc document.Document) error {
	hash, err := db.ContentHash(ctx, doc.Source)
	if err == nil && hash == doc.Hash {
		a.logger.Debug("unchanged in knowledge base", "source", doc.Source)
		return nil
	}
	if err := db.SaveDocument(ctx, doc); err != nil {
		return fmt.Errorf("failed to save %s: %w", doc.Source, err)
	}
	return nil
}

func watchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Re-extract statutes under a directory as they change",
		Long: `Extract every selected file under a directory, then keep watching it.
Whenever a file is created or its content changes, its definitions are
written again. Removed files are dropped from the knowledge base when
--db is set. Stop with Ctrl-C.

Examples:
  ryakugo watch --format jsonl statutes/
  ryakugo watch --db ryakugo.db statutes/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			matcher, err := a.matcher()
			if err != nil {
				return err
			}
			db, err := a.openDB()
			if err != nil {
				return err
			}
			if db != nil {
				defer db.Close()
			}

			w, closeOutput, err := openOutput(cmd)
			if err != nil {
				return err
			}
			defer closeOutput()

			options := a.pairOptions()
			watcher, err := watch.New(args[0], watch.Options{
				Matcher:   matcher,
				Extractor: a.extractor(),
				Encoding:  a.cfg.Input.Encoding,
				Debounce:  a.cfg.Watch.Debounce,
				Logger:    a.logger,
				OnChange: func(doc document.Document) {
					if db != nil {
						if err := db.SaveDocument(ctx, doc); err != nil {
							a.logger.Error("saving document", "source", doc.Source, "error", err)
						}
					}
					if err := output.Write(w, a.cfg.Output.Format, []document.Document{options.Apply(doc)}); err != nil {
						a.logger.Error("writing results", "source", doc.Source, "error", err)
					}
				},
				OnRemove: func(path string) {
					if db == nil {
						return
					}
					if err := db.DeleteDocument(ctx, path); err != nil {
						a.logger.Error("removing document", "source", path, "error", err)
					}
				},
			})
			if err != nil {
				return err
			}

			if err := watcher.Start(ctx); err != nil {
				return err
			}
			defer watcher.Stop()

			select {
			case <-ctx.Done():
			case <-watcher.Done():
			}
			a.logger.Info("stopped watching", "root", args[0])
			return nil
		},
	}
	addPairFlags(cmd)
	cmd.Flags().Duration("debounce", watch.DefaultDebounce, "Quiet period before changed files are processed")
	return cmd
}
