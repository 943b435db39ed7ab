package downloader

import (
	"context"

	"github.com/tapedeck-cli/tapedeck/source"
	"golang.org/x/sync/errgroup"
)

// ItemProcessor handles one item to completion.
type ItemProcessor interface {
	Process(ctx context.Context, item source.Item) Result
}

// RunAll processes items with at most workers in flight and aggregates their
// outcomes in completion order. progress is notified after every completion.
func RunAll(ctx context.Context, processor ItemProcessor, items []source.Item, workers int, progress Progress) *Summary {
	summary := &Summary{Total: len(items), Failures: []Failure{}}
	if len(items) == 0 {
		return summary
	}

	results := make(chan Result)

	var g errgroup.Group
	g.SetLimit(max(1, workers))

	go func() {
		for _, item := range items {
			g.Go(func() error {
				results <- processor.Process(ctx, item)
				// item failures stay inside their result
				return nil
			})
		}

		_ = g.Wait()
		close(results)
	}()

	for r := range results {
		summary.Add(r)
		progress.Done(r)
	}
	progress.Finish()

	return summary
}
