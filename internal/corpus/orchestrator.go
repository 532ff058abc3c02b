package corpus

import (
	"context"
	"sync"
	"time"

	"github.com/kart-io/logger"

	"github.com/tablewise/boardcorpus/internal/model"
	"github.com/tablewise/boardcorpus/pkg/infra/pool"
)

// DocumentGroup is one game's processed documents.
type DocumentGroup struct {
	GameID    int64
	Documents []model.Document
}

// ProcessFailure records one review failing the preprocessing port.
type ProcessFailure struct {
	GameID   int64  `json:"game_id"`
	ReviewID string `json:"review_id"`
	Reason   string `json:"reason"`
}

// ProcessReport summarizes one orchestrator run.
type ProcessReport struct {
	Processed int              `json:"processed"`
	Failures  []ProcessFailure `json:"failures,omitempty"`
}

// ProcessOptions configures the orchestrator.
type ProcessOptions struct {
	Parallel bool
	// MaxWorkers bounds the worker pool. The pool never holds more
	// workers than there are pending reviews.
	MaxWorkers int
	// Strict aborts on the first preprocessing failure instead of
	// recording it and continuing.
	Strict bool
}

// ProcessAll runs the preprocessing port over every review of every group.
// Output groups preserve input group order. Within a group, document order
// is submission order in sequential mode and completion order in parallel
// mode; the asymmetry is deliberate. A single review's failure never aborts
// the batch outside strict mode.
func ProcessAll(ctx context.Context, groups []ReviewGroup, pre Preprocessor, opts ProcessOptions) ([]DocumentGroup, *ProcessReport, error) {
	report := &ProcessReport{}
	out := make([]DocumentGroup, 0, len(groups))

	if !opts.Parallel {
		for _, g := range groups {
			dg := DocumentGroup{GameID: g.GameID}
			for _, r := range g.Reviews {
				doc, err := pre.Process(ctx, r)
				if err != nil {
					if failed := recordFailure(report, g.GameID, r.ID, err, opts.Strict); failed != nil {
						return nil, report, failed
					}
					continue
				}
				dg.Documents = append(dg.Documents, doc)
				report.Processed++
			}
			out = append(out, dg)
		}
		return out, report, nil
	}

	pending := 0
	for _, g := range groups {
		pending += len(g.Reviews)
	}
	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = 1
	}
	if workers > pending {
		workers = pending
	}
	if pending == 0 {
		for _, g := range groups {
			out = append(out, DocumentGroup{GameID: g.GameID})
		}
		return out, report, nil
	}

	p, err := pool.New("preprocess", pool.PreprocessPool, pool.PreprocessConfig(workers))
	if err != nil {
		return nil, report, err
	}
	defer func() {
		if err := p.ReleaseTimeout(30 * time.Second); err != nil {
			logger.Warnw("Preprocess pool release timed out", "error", err)
		}
		st := p.Stats()
		logger.Infow("Preprocess pool drained",
			"submitted", st.Submitted,
			"completed", st.Completed,
			"panics", st.PanicRecovered,
			"wait_ms", st.TotalWaitTimeNs/int64(time.Millisecond),
		)
	}()

	for _, g := range groups {
		dg, err := processGroupParallel(ctx, p, g, pre, report, opts.Strict)
		if err != nil {
			return nil, report, err
		}
		out = append(out, dg)
	}

	return out, report, nil
}

// taskResult tags a preprocessing outcome with its originating review so
// it can be attributed correctly regardless of completion order.
type taskResult struct {
	reviewID string
	doc      model.Document
	err      error
}

// processGroupParallel fans one group's reviews out across the pool and
// collects results in completion order.
func processGroupParallel(ctx context.Context, p *pool.Pool, g ReviewGroup, pre Preprocessor, report *ProcessReport, strict bool) (DocumentGroup, error) {
	dg := DocumentGroup{GameID: g.GameID}
	results := make(chan taskResult, len(g.Reviews))

	var wg sync.WaitGroup
	for _, r := range g.Reviews {
		r := r
		wg.Add(1)
		submitErr := p.Submit(func() {
			defer wg.Done()
			doc, err := pre.Process(ctx, r)
			results <- taskResult{reviewID: r.ID, doc: doc, err: err}
		})
		if submitErr != nil {
			wg.Done()
			results <- taskResult{reviewID: r.ID, err: submitErr}
		}
	}
	wg.Wait()
	close(results)

	for res := range results {
		if res.err != nil {
			if failed := recordFailure(report, g.GameID, res.reviewID, res.err, strict); failed != nil {
				return dg, failed
			}
			continue
		}
		dg.Documents = append(dg.Documents, res.doc)
		report.Processed++
	}

	return dg, nil
}

// recordFailure logs and accounts one failure. In strict mode it returns
// the wrapped error, aborting the run.
func recordFailure(report *ProcessReport, gameID int64, reviewID string, err error, strict bool) error {
	perr := &PreprocessingError{GameID: gameID, ReviewID: reviewID, Err: err}
	report.Failures = append(report.Failures, ProcessFailure{
		GameID:   gameID,
		ReviewID: reviewID,
		Reason:   err.Error(),
	})
	logger.Warnw("Review preprocessing failed",
		"game_id", gameID,
		"review_id", reviewID,
		"error", err,
	)
	if strict {
		return perr
	}
	return nil
}
