package model

// GameBalanceStats reports the outcome of balancing one game's reviews.
type GameBalanceStats struct {
	GameID   int64         `json:"game_id"`
	Strategy Strategy      `json:"strategy"`
	Before   map[Label]int `json:"before"`
	After    map[Label]int `json:"after"`
	// Augmented counts synthetic records created by the augmentation port
	// or by resampling with replacement.
	Augmented int `json:"augmented"`
	// Removed counts records cut by undersampling.
	Removed int `json:"removed"`
	// BelowFloor lists buckets that ended below the min-samples floor.
	BelowFloor []Label `json:"below_floor,omitempty"`
	// EmptyBuckets lists buckets that started empty and could not be
	// filled.
	EmptyBuckets []Label `json:"empty_buckets,omitempty"`
	Error        string  `json:"error,omitempty"`
}

// BalanceStats aggregates balancing results across a whole run. It is
// produced alongside the Corpus, never embedded inside it.
type BalanceStats struct {
	Strategy    Strategy            `json:"strategy"`
	Games       []*GameBalanceStats `json:"games"`
	Before      map[Label]int       `json:"before"`
	After       map[Label]int       `json:"after"`
	TotalBefore int                 `json:"total_before"`
	TotalAfter  int                 `json:"total_after"`
	Augmented   int                 `json:"augmented"`
	Removed     int                 `json:"removed"`
	// MaxMinRatio is the post-balance ratio between the largest and the
	// smallest non-empty bucket over the entire merged set.
	MaxMinRatio float64 `json:"max_min_ratio"`
	Failed      int     `json:"failed"`
}

// NewBalanceStats creates an empty aggregate for the given strategy.
func NewBalanceStats(strategy Strategy) *BalanceStats {
	return &BalanceStats{
		Strategy: strategy,
		Before:   make(map[Label]int, 3),
		After:    make(map[Label]int, 3),
	}
}

// Merge folds one game's stats into the aggregate.
func (s *BalanceStats) Merge(g *GameBalanceStats) {
	s.Games = append(s.Games, g)
	if g.Error != "" {
		s.Failed++
	}
	for label, n := range g.Before {
		s.Before[label] += n
		s.TotalBefore += n
	}
	for label, n := range g.After {
		s.After[label] += n
		s.TotalAfter += n
	}
	s.Augmented += g.Augmented
	s.Removed += g.Removed
}
