package core

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BatchItem is the outcome for one input of RunBatch, at the input's index.
type BatchItem struct {
	Path    string
	Outcome Outcome
	Err     error
}

// RunBatch processes paths with at most concurrency files in flight.
// Per-file errors are kept on their item; only cancellation of ctx is
// returned. Items keep input order.
func (p *Processor) RunBatch(ctx context.Context, paths []string, concurrency int) ([]BatchItem, error) {
	if concurrency <= 0 {
		concurrency = 1
	}
	items := make([]BatchItem, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, path := range paths {
		items[i].Path = path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				items[i].Err = err
				return err
			}
			out, err := p.ProcessFile(gctx, path)
			items[i].Outcome = out
			items[i].Err = err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return items, err
	}

	failed := 0
	for _, it := range items {
		if it.Err != nil || !it.Outcome.Result.Succeeded() {
			failed++
		}
	}
	p.logger.Info("processor.batch.done", zap.Int("files", len(paths)), zap.Int("failed", failed))
	return items, ctx.Err()
}
