package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelForRating(t *testing.T) {
	tests := []struct {
		name   string
		rating float64
		want   Label
	}{
		{name: "lowest rating", rating: 1, want: LabelNegative},
		{name: "below neutral boundary", rating: 4.9, want: LabelNegative},
		{name: "neutral boundary", rating: 5, want: LabelNeutral},
		{name: "mid neutral", rating: 6, want: LabelNeutral},
		{name: "just below positive", rating: 6.9, want: LabelNeutral},
		{name: "positive boundary", rating: 7, want: LabelPositive},
		{name: "highest rating", rating: 10, want: LabelPositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LabelForRating(tt.rating))
		})
	}
}

func TestLabelIdempotence(t *testing.T) {
	r := Review{Username: "alice", Rating: 6.5, Comment: "fine"}
	first := r.Label()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, r.Label())
	}
}

func TestUnratedReviewHasNoLabel(t *testing.T) {
	r := Review{Username: "bob", Comment: "no rating given"}
	assert.False(t, r.Rated())
	assert.False(t, r.Label().Valid())
}

func TestLabelWeight(t *testing.T) {
	assert.Equal(t, 2, LabelNeutral.Weight())
	assert.Equal(t, 1, LabelPositive.Weight())
	assert.Equal(t, 1, LabelNegative.Weight())
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []string{"oversample", "undersample", "hybrid"} {
		got, err := ParseStrategy(s)
		assert.NoError(t, err)
		assert.Equal(t, Strategy(s), got)
	}

	_, err := ParseStrategy("smote")
	assert.Error(t, err)
}
