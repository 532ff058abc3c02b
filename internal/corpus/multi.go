package corpus

import (
	"fmt"

	mathstats "github.com/montanaflynn/stats"

	"github.com/tablewise/boardcorpus/internal/model"
)

// ReviewGroup is one game's reviews, kept in requested-game order.
type ReviewGroup struct {
	GameID  int64
	Reviews []model.Review
}

// BalanceAll applies BalanceGame to every group and aggregates global
// statistics. Games are processed independently: a failure balancing one
// game is recorded in its per-game stats and the rest continue, unless
// abortOnError is set, in which case the first error is returned.
func BalanceAll(groups []ReviewGroup, opts BalanceOptions, abortOnError bool) ([]ReviewGroup, *model.BalanceStats, error) {
	global := model.NewBalanceStats(opts.Strategy)
	out := make([]ReviewGroup, 0, len(groups))

	for _, g := range groups {
		balanced, stats, err := BalanceGame(g.GameID, g.Reviews, opts)
		global.Merge(stats)
		if err != nil {
			if abortOnError {
				return nil, global, fmt.Errorf("balancing game %d: %w", g.GameID, err)
			}
			// The game stays in the output with no reviews so the
			// corpus keeps its slot.
			out = append(out, ReviewGroup{GameID: g.GameID})
			continue
		}
		out = append(out, ReviewGroup{GameID: g.GameID, Reviews: balanced})
	}

	global.MaxMinRatio = maxMinRatio(global.After)
	return out, global, nil
}

// maxMinRatio computes the post-balance ratio between the largest and the
// smallest non-empty bucket over the merged set. 1 when fewer than two
// buckets are populated.
func maxMinRatio(after map[model.Label]int) float64 {
	var sizes []float64
	for _, l := range model.Labels() {
		if n := after[l]; n > 0 {
			sizes = append(sizes, float64(n))
		}
	}
	if len(sizes) < 2 {
		return 1
	}
	maxN, err := mathstats.Max(sizes)
	if err != nil {
		return 1
	}
	minN, err := mathstats.Min(sizes)
	if err != nil || minN == 0 {
		return 1
	}
	return maxN / minN
}
