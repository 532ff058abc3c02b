package model

import "fmt"

// Label is the three-way sentiment class derived from a review rating.
type Label string

const (
	LabelNegative Label = "negative"
	LabelNeutral  Label = "neutral"
	LabelPositive Label = "positive"
)

// Labels returns the three classes in canonical order.
func Labels() []Label {
	return []Label{LabelNegative, LabelNeutral, LabelPositive}
}

// LabelForRating maps a rating in [1,10] to its class. Ratings of 7 and
// above are positive, 5 and above neutral, everything below negative.
func LabelForRating(rating float64) Label {
	switch {
	case rating >= 7:
		return LabelPositive
	case rating >= 5:
		return LabelNeutral
	default:
		return LabelNegative
	}
}

// Valid reports whether l is one of the three known classes.
func (l Label) Valid() bool {
	switch l {
	case LabelNegative, LabelNeutral, LabelPositive:
		return true
	}
	return false
}

// Weight returns the sampling weight of the class. Neutral opinions are the
// natural majority in rating distributions, so they carry double weight and
// balancing does not force them down to parity with the other classes.
func (l Label) Weight() int {
	if l == LabelNeutral {
		return 2
	}
	return 1
}

// Strategy selects the class-balancing policy.
type Strategy string

const (
	StrategyOversample  Strategy = "oversample"
	StrategyUndersample Strategy = "undersample"
	StrategyHybrid      Strategy = "hybrid"
)

// ParseStrategy validates and returns the strategy named by s.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyOversample, StrategyUndersample, StrategyHybrid:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown balance strategy %q (want oversample|undersample|hybrid)", s)
}
