// Package batch extracts definitions from many statute files concurrently.
package batch

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/coolbeans/ryakugo/pkg/abbrev"
	"github.com/coolbeans/ryakugo/pkg/document"
	"github.com/coolbeans/ryakugo/pkg/source"
)

// DefaultWorkers is used when Runner.Workers is not positive.
const DefaultWorkers = 4

// Result is the outcome for one file. Err is set when the file could not be
// read or decoded; Document is then zero.
type Result struct {
	Path     string
	Document document.Document
	Err      error
}

// Runner reads and extracts a list of files with bounded concurrency.
type Runner struct {
	Extractor *abbrev.Extractor
	Encoding  string
	Workers   int
	Logger    *slog.Logger
}

// Run processes paths and returns one Result per path in input order. A
// per-file failure is recorded in its Result and does not stop the run;
// only context cancellation aborts it.
func (r *Runner) Run(ctx context.Context, paths []string) ([]Result, error) {
	extractor := r.Extractor
	if extractor == nil {
		extractor = abbrev.NewExtractor()
	}
	workers := r.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	results := make([]Result, len(paths))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		i, path := i, path
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			results[i].Path = path
			text, err := source.ReadFile(path, r.Encoding)
			if err != nil {
				logger.Warn("skipping file", "path", path, "error", err)
				results[i].Err = err
				return nil
			}

			doc := document.Process(path, text, extractor)
			logger.Debug("extracted", "path", path, "pairs", len(doc.Pairs), "spans", doc.Spans)
			results[i].Document = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Documents returns the documents of the successful results.
func Documents(results []Result) []document.Document {
	docs := make([]document.Document, 0, len(results))
	for _, result := range results {
		if result.Err == nil {
			docs = append(docs, result.Document)
		}
	}
	return docs
}

// Failed counts results with an error.
func Failed(results []Result) int {
	n := 0
	for _, result := range results {
		if result.Err != nil {
			n++
		}
	}
	return n
}
