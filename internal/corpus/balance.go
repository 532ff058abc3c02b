package corpus

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/tablewise/boardcorpus/internal/model"
	"github.com/tablewise/boardcorpus/pkg/id"
)

// BalanceOptions configures the balancing of one game's reviews.
type BalanceOptions struct {
	Strategy model.Strategy
	// TargetRatio bounds bucket sizes under the hybrid strategy, as a
	// fraction of the largest bucket. 0 selects a heuristic based on the
	// observed imbalance.
	TargetRatio float64
	// MinSamples is a floor: undersampling never cuts a bucket below it,
	// and buckets ending below it are flagged in stats.
	MinSamples int
	// MaxAugmentationsPerReview caps variants requested per source review.
	MaxAugmentationsPerReview int
	// Augmenter, when set, supplies synthetic text for oversampling.
	Augmenter Augmenter
	// LanguageOf reports the language of a review's text, passed through to
	// the augmentation port. Nil leaves the language unspecified.
	LanguageOf func(model.Review) string
	// Rand drives undersample selection and resampling. Nil means
	// time-seeded, non-reproducible.
	Rand *rand.Rand
}

// augmentationAttemptFactor bounds oversampling attempts relative to the
// shortfall, so an augmenter that yields nothing new cannot spin forever.
const augmentationAttemptFactor = 5

// BalanceGame rebalances one game's reviews across the three sentiment
// classes. Unrated reviews pass through untouched. Returns the balanced
// reviews and per-game stats; on InsufficientDataError the reviews are nil
// and the stats carry the error.
func BalanceGame(gameID int64, reviews []model.Review, opts BalanceOptions) ([]model.Review, *model.GameBalanceStats, error) {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	stats := &model.GameBalanceStats{
		GameID:   gameID,
		Strategy: opts.Strategy,
		Before:   make(map[model.Label]int, 3),
		After:    make(map[model.Label]int, 3),
	}

	buckets := make(map[model.Label][]model.Review, 3)
	var passthrough []model.Review
	for _, r := range reviews {
		if l := r.Label(); l.Valid() {
			buckets[l] = append(buckets[l], r)
		} else {
			passthrough = append(passthrough, r)
		}
	}
	for _, l := range model.Labels() {
		stats.Before[l] = len(buckets[l])
	}

	if stats.Before[model.LabelNegative] == 0 &&
		stats.Before[model.LabelNeutral] == 0 &&
		stats.Before[model.LabelPositive] == 0 {
		// Nothing to balance.
		for _, l := range model.Labels() {
			stats.After[l] = 0
		}
		return reviews, stats, nil
	}

	base := baseTarget(stats.Before, opts)
	ids := id.NewGenerator()

	for _, label := range model.Labels() {
		bucket := buckets[label]
		lower, upper := bucketBounds(base, label, opts)

		switch {
		case len(bucket) < lower && lower > 0 && wantsGrowth(opts.Strategy):
			if len(bucket) == 0 {
				if opts.Augmenter == nil {
					err := &InsufficientDataError{GameID: gameID, Label: label}
					stats.Error = err.Error()
					stats.EmptyBuckets = append(stats.EmptyBuckets, label)
					return nil, stats, err
				}
				// Synthetic text still needs a seed record.
				stats.EmptyBuckets = append(stats.EmptyBuckets, label)
				continue
			}
			added := grow(bucket, lower-len(bucket), opts, rng, ids)
			stats.Augmented += len(added)
			buckets[label] = append(bucket, added...)

		case len(bucket) > upper && wantsShrink(opts.Strategy):
			keep := upper
			if keep < opts.MinSamples {
				keep = opts.MinSamples
			}
			if keep < len(bucket) {
				stats.Removed += len(bucket) - keep
				buckets[label] = sample(bucket, keep, rng)
			}
		}
	}

	out := append([]model.Review{}, passthrough...)
	for _, l := range model.Labels() {
		out = append(out, buckets[l]...)
		stats.After[l] = len(buckets[l])
		if n := len(buckets[l]); n > 0 && n < opts.MinSamples {
			stats.BelowFloor = append(stats.BelowFloor, l)
		}
	}
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })

	return out, stats, nil
}

// baseTarget computes the strategy's base bucket size before label weights
// are applied.
func baseTarget(before map[model.Label]int, opts BalanceOptions) int {
	maxCount, minNonZero := 0, 0
	for _, l := range model.Labels() {
		n := before[l]
		if n > maxCount {
			maxCount = n
		}
		if n > 0 && (minNonZero == 0 || n < minNonZero) {
			minNonZero = n
		}
	}

	switch opts.Strategy {
	case model.StrategyUndersample:
		return minNonZero
	case model.StrategyHybrid:
		ratio := opts.TargetRatio
		if ratio <= 0 {
			ratio = autoTargetRatio(maxCount, minNonZero)
		}
		base := int(math.Round(float64(maxCount) * ratio))
		if base < opts.MinSamples {
			base = opts.MinSamples
		}
		return base
	default: // oversample
		return maxCount
	}
}

// autoTargetRatio picks a hybrid ratio from the observed imbalance: the
// more skewed the distribution, the harder the correction.
func autoTargetRatio(maxCount, minNonZero int) float64 {
	if minNonZero == 0 {
		return 0.5
	}
	imbalance := float64(maxCount) / float64(minNonZero)
	switch {
	case imbalance > 10:
		return 0.5
	case imbalance > 5:
		return 0.65
	default:
		return 0.8
	}
}

// bucketBounds derives the per-label [lower, upper] size bounds. The label
// weight divides the growth target and multiplies the shrink bound, so a
// double-weighted class is corrected half as aggressively in both
// directions.
func bucketBounds(base int, label model.Label, opts BalanceOptions) (int, int) {
	w := label.Weight()
	lower := ceilDiv(base, w)

	switch opts.Strategy {
	case model.StrategyOversample:
		return lower, math.MaxInt
	case model.StrategyUndersample:
		return 0, base * w
	default: // hybrid
		return lower, base * w
	}
}

func wantsGrowth(s model.Strategy) bool {
	return s == model.StrategyOversample || s == model.StrategyHybrid
}

func wantsShrink(s model.Strategy) bool {
	return s == model.StrategyUndersample || s == model.StrategyHybrid
}

// grow synthesizes needed extra records for a non-empty bucket. Variants
// come from the augmenter first; any shortfall is made up by resampling
// existing records with replacement.
func grow(bucket []model.Review, needed int, opts BalanceOptions, rng *rand.Rand, ids *id.Generator) []model.Review {
	added := make([]model.Review, 0, needed)

	if opts.Augmenter != nil {
		perReview := opts.MaxAugmentationsPerReview
		if perReview <= 0 {
			perReview = 2
		}

		seen := make(map[string]bool, len(bucket))
		for _, r := range bucket {
			seen[normalizeComment(r.Comment)] = true
		}

		maxAttempts := needed * augmentationAttemptFactor
		for attempts := 0; len(added) < needed && attempts < maxAttempts; attempts++ {
			src := bucket[rng.Intn(len(bucket))]
			if !src.Commented() {
				continue
			}
			lang := ""
			if opts.LanguageOf != nil {
				lang = opts.LanguageOf(src)
			}
			variants, err := opts.Augmenter.Augment(src.Comment, lang, perReview)
			if err != nil {
				continue
			}
			for _, text := range variants {
				key := normalizeComment(text)
				if key == "" || seen[key] {
					continue
				}
				seen[key] = true
				added = append(added, synthetic(src, text, ids))
				if len(added) == needed {
					break
				}
			}
		}
	}

	for len(added) < needed {
		src := bucket[rng.Intn(len(bucket))]
		added = append(added, synthetic(src, src.Comment, ids))
	}

	return added
}

// synthetic builds one augmented record from src. The rating (and so the
// label) is inherited; the back-reference keeps the provenance queryable.
func synthetic(src model.Review, text string, ids *id.Generator) model.Review {
	return model.Review{
		ID:            ids.Generate(),
		Username:      src.Username,
		Rating:        src.Rating,
		Comment:       text,
		Timestamp:     src.Timestamp,
		GameID:        src.GameID,
		IsAugmented:   true,
		AugmentedFrom: src.ID,
	}
}

// sample keeps n records chosen uniformly without replacement, preserving
// their original relative order.
func sample(bucket []model.Review, n int, rng *rand.Rand) []model.Review {
	idx := rng.Perm(len(bucket))[:n]
	sort.Ints(idx)
	out := make([]model.Review, 0, n)
	for _, i := range idx {
		out = append(out, bucket[i])
	}
	return out
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
