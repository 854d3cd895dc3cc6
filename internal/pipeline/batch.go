package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"examcorpus-backend/internal/exams"
)

// ProcessBatch runs the pipeline over many documents, one document per
// worker. Documents share no state, so the only synchronization is
// collecting each one's output. A failed document never stops the
// batch; it just lands in the summary. Returned exams keep input order.
func (p *Pipeline) ProcessBatch(ctx context.Context, paths []string, concurrency int) ([]*exams.Exam, Summary) {
	if concurrency <= 0 {
		concurrency = 1
	}

	results := make([]*exams.Exam, len(paths))
	outcomes := make([]Outcome, len(paths))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				mu.Lock()
				outcomes[i] = Outcome{Filename: path, ErrorKind: "canceled", ErrorMsg: err.Error()}
				mu.Unlock()
				return nil
			}
			exam, outcome := p.Process(ctx, path)
			mu.Lock()
			results[i] = exam
			outcomes[i] = outcome
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	return results, BuildSummary(outcomes)
}
