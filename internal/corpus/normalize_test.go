package corpus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFieldAliases(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name    string
		raw     map[string]interface{}
		user    string
		rating  float64
		comment string
	}{
		{
			name:    "crawler field names",
			raw:     map[string]interface{}{"username": "alice", "rating": 8.0, "comment": "great", "timestamp": "2023-01-01"},
			user:    "alice",
			rating:  8,
			comment: "great",
		},
		{
			name:    "api field names",
			raw:     map[string]interface{}{"user": "bob", "rating": "6", "value": "decent"},
			user:    "bob",
			rating:  6,
			comment: "decent",
		},
		{
			name:    "missing username defaults",
			raw:     map[string]interface{}{"rating": 4.0, "text": "meh"},
			user:    "unknown",
			rating:  4,
			comment: "meh",
		},
		{
			name:    "comment only",
			raw:     map[string]interface{}{"username": "carol", "comment": "no rating here"},
			user:    "carol",
			rating:  0,
			comment: "no rating here",
		},
		{
			name:    "n/a rating treated as unrated",
			raw:     map[string]interface{}{"username": "dave", "rating": "N/A", "comment": "still text"},
			user:    "dave",
			rating:  0,
			comment: "still text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := n.Normalize(tt.raw, 13)
			require.NoError(t, err)
			assert.Equal(t, tt.user, r.Username)
			assert.Equal(t, tt.rating, r.Rating)
			assert.Equal(t, tt.comment, r.Comment)
			assert.Equal(t, int64(13), r.GameID)
			assert.NotEmpty(t, r.ID)
		})
	}
}

func TestNormalizeMalformed(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name string
		raw  map[string]interface{}
	}{
		{name: "empty record", raw: map[string]interface{}{}},
		{name: "username only", raw: map[string]interface{}{"username": "alice"}},
		{name: "blank comment and n/a rating", raw: map[string]interface{}{"comment": "   ", "rating": "N/A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(tt.raw, 13)
			assert.True(t, errors.Is(err, ErrMalformedReview))
		})
	}
}

func TestNormalizeAssignsDistinctIDs(t *testing.T) {
	n := NewNormalizer()
	raw := map[string]interface{}{"username": "alice", "rating": 8.0, "comment": "great"}

	a, err := n.Normalize(raw, 1)
	require.NoError(t, err)
	b, err := n.Normalize(raw, 1)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}
