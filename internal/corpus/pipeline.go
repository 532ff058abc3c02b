// Package corpus implements the corpus assembly and class-balancing
// pipeline: normalizing and merging reviews from the two collection paths,
// correcting label imbalance per game, fanning preprocessing out across a
// worker pool, and assembling the layered corpus.
package corpus

import (
	"context"
	"fmt"

	"github.com/kart-io/logger"

	"github.com/tablewise/boardcorpus/internal/model"
)

// SourceMode selects which collection paths feed the pipeline.
type SourceMode string

const (
	// SourceCrawler uses the crawler dumps only (timestamps present).
	SourceCrawler SourceMode = "crawler"
	// SourceAPI uses the API dumps only; unrated records are dropped.
	SourceAPI SourceMode = "api"
	// SourceCombined merges both paths through dedup.
	SourceCombined SourceMode = "combined"
)

// ParseSourceMode validates and returns the mode named by s.
func ParseSourceMode(s string) (SourceMode, error) {
	switch SourceMode(s) {
	case SourceCrawler, SourceAPI, SourceCombined:
		return SourceMode(s), nil
	}
	return "", fmt.Errorf("unknown source mode %q (want crawler|api|combined)", s)
}

// Pipeline wires the ports into the full build sequence.
type Pipeline struct {
	src  Source
	pre  Preprocessor
	meta MetadataProvider
	norm *Normalizer
}

// NewPipeline creates a pipeline over the given collaborators.
func NewPipeline(src Source, pre Preprocessor, meta MetadataProvider) *Pipeline {
	return &Pipeline{
		src:  src,
		pre:  pre,
		meta: meta,
		norm: NewNormalizer(),
	}
}

// BuildOptions configures one pipeline run.
type BuildOptions struct {
	GameIDs []int64
	Source  SourceMode
	Balance BalanceOptions
	Process ProcessOptions
	// Strict aborts the run on the first per-review or per-game error.
	Strict bool
}

// BuildResult is the outcome of one run. A completed run always carries a
// corpus, possibly with fewer documents than requested; the stats and the
// report enumerate every dropped, failed, and synthesized record.
type BuildResult struct {
	Corpus         *model.Corpus       `json:"-"`
	Stats          *model.BalanceStats `json:"balance"`
	Report         *ProcessReport      `json:"processing"`
	Malformed      int                 `json:"malformed_dropped"`
	TotalDocuments int                 `json:"total_documents"`
}

// Build runs the full pipeline: collect and normalize, merge, balance,
// preprocess, assemble.
func (p *Pipeline) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if len(opts.GameIDs) == 0 {
		return nil, fmt.Errorf("no game ids requested")
	}
	if opts.Source == "" {
		opts.Source = SourceCombined
	}

	groups := make([]ReviewGroup, 0, len(opts.GameIDs))
	malformed := 0
	for _, gameID := range opts.GameIDs {
		reviews, dropped, err := p.collect(ctx, gameID, opts.Source)
		if err != nil {
			return nil, fmt.Errorf("collecting reviews for game %d: %w", gameID, err)
		}
		if opts.Strict && dropped > 0 {
			return nil, fmt.Errorf("game %d: %d malformed reviews: %w", gameID, dropped, ErrMalformedReview)
		}
		malformed += dropped
		groups = append(groups, ReviewGroup{GameID: gameID, Reviews: reviews})
		logger.Infow("Collected reviews",
			"game_id", gameID,
			"reviews", len(reviews),
			"malformed_dropped", dropped,
			"source", string(opts.Source),
		)
	}

	balanced, stats, err := BalanceAll(groups, opts.Balance, opts.Strict)
	if err != nil {
		return nil, err
	}

	opts.Process.Strict = opts.Strict
	docGroups, report, err := ProcessAll(ctx, balanced, p.pre, opts.Process)
	if err != nil {
		return nil, err
	}

	c, total := Assemble(ctx, docGroups, p.meta)

	logger.Infow("Corpus built",
		"games", len(c.Games),
		"documents", total,
		"augmented", stats.Augmented,
		"removed", stats.Removed,
		"failures", len(report.Failures),
		"malformed_dropped", malformed,
	)

	return &BuildResult{
		Corpus:         c,
		Stats:          stats,
		Report:         report,
		Malformed:      malformed,
		TotalDocuments: total,
	}, nil
}

// collect loads one game's raw records from the selected paths and
// normalizes them. Malformed records are dropped and counted.
func (p *Pipeline) collect(ctx context.Context, gameID int64, mode SourceMode) ([]model.Review, int, error) {
	var crawler, api []model.Review
	dropped := 0

	if mode == SourceCrawler || mode == SourceCombined {
		raw, err := p.src.CrawlerReviews(ctx, gameID)
		if err != nil {
			return nil, 0, err
		}
		crawler, dropped = p.normalizeBatch(raw, gameID, dropped)
	}

	if mode == SourceAPI || mode == SourceCombined {
		raw, err := p.src.APIReviews(ctx, gameID)
		if err != nil {
			return nil, 0, err
		}
		api, dropped = p.normalizeBatch(raw, gameID, dropped)
		if mode == SourceAPI {
			// The API path carries many rating-only stubs; text-less
			// unrated records add nothing.
			rated := api[:0]
			for _, r := range api {
				if r.Rated() {
					rated = append(rated, r)
				}
			}
			api = rated
		}
	}

	switch mode {
	case SourceCrawler:
		return crawler, dropped, nil
	case SourceAPI:
		return api, dropped, nil
	default:
		// Crawler first: it is the timestamp-bearing source, so its
		// records win timestamps on collision.
		return Merge(crawler, api), dropped, nil
	}
}

func (p *Pipeline) normalizeBatch(raw []map[string]interface{}, gameID int64, dropped int) ([]model.Review, int) {
	out := make([]model.Review, 0, len(raw))
	for _, item := range raw {
		r, err := p.norm.Normalize(item, gameID)
		if err != nil {
			dropped++
			continue
		}
		out = append(out, r)
	}
	return out, dropped
}
