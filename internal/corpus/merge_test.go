package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablewise/boardcorpus/internal/model"
)

func TestMergeDeduplicatesAcrossSources(t *testing.T) {
	// The crawler record carries a timestamp; the API record of the same
	// logical review differs only in comment whitespace and casing.
	crawler := []model.Review{
		{ID: "c1", Username: "alice", Rating: 8, Comment: "Great game", Timestamp: "2023-01-01"},
	}
	api := []model.Review{
		{ID: "a1", Username: "alice", Rating: 8, Comment: "great   game"},
	}

	merged := Merge(crawler, api)

	require.Len(t, merged, 1)
	assert.Equal(t, "Great game", merged[0].Comment)
	assert.Equal(t, "2023-01-01", merged[0].Timestamp)
}

func TestMergeTimestampFromSecondSource(t *testing.T) {
	a := []model.Review{{Username: "bob", Rating: 5, Comment: "ok"}}
	b := []model.Review{{Username: "bob", Rating: 5, Comment: "OK", Timestamp: "2022-06-15"}}

	merged := Merge(a, b)

	require.Len(t, merged, 1)
	assert.Equal(t, "2022-06-15", merged[0].Timestamp)
}

func TestMergePrefersNonEmptyFields(t *testing.T) {
	a := []model.Review{{Username: "carol", Comment: "loved it"}}
	b := []model.Review{{Username: "carol", Rating: 9, Comment: "Loved It"}}

	merged := Merge(a, b)

	require.Len(t, merged, 1)
	assert.Equal(t, 9.0, merged[0].Rating)
	assert.Equal(t, "loved it", merged[0].Comment)
}

func TestMergeKeepsDistinctReviews(t *testing.T) {
	a := []model.Review{
		{Username: "alice", Rating: 8, Comment: "Great game"},
		{Username: "bob", Rating: 3, Comment: "Great game"},
	}
	b := []model.Review{
		{Username: "alice", Rating: 7, Comment: "A different take"},
	}

	merged := Merge(a, b)

	// Same comment from different users and different comments from the
	// same user are distinct logical reviews.
	assert.Len(t, merged, 3)
}

func TestMergeUnicodeNormalization(t *testing.T) {
	// "é" precomposed vs combining-accent form.
	a := []model.Review{{Username: "eve", Rating: 6, Comment: "café game"}}
	b := []model.Review{{Username: "EVE", Rating: 6, Comment: "Café GAME", Timestamp: "2021-03-03"}}

	merged := Merge(a, b)

	require.Len(t, merged, 1)
	assert.Equal(t, "2021-03-03", merged[0].Timestamp)
}

func TestMergePreservesFirstSeenOrder(t *testing.T) {
	a := []model.Review{
		{Username: "u1", Rating: 2, Comment: "one"},
		{Username: "u2", Rating: 4, Comment: "two"},
	}
	b := []model.Review{
		{Username: "u3", Rating: 6, Comment: "three"},
		{Username: "u1", Rating: 2, Comment: "ONE"},
	}

	merged := Merge(a, b)

	require.Len(t, merged, 3)
	assert.Equal(t, "u1", merged[0].Username)
	assert.Equal(t, "u2", merged[1].Username)
	assert.Equal(t, "u3", merged[2].Username)
}
