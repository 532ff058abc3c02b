package corpus

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tablewise/boardcorpus/internal/model"
	"github.com/tablewise/boardcorpus/pkg/id"
)

// Field aliases used by the two upstream sources for the same concepts.
var (
	usernameKeys  = []string{"username", "user", "name"}
	commentKeys   = []string{"comment", "raw_text", "text", "value"}
	ratingKeys    = []string{"rating", "score"}
	timestampKeys = []string{"timestamp", "date", "postdate"}
)

// defaultUsername is substituted when a record carries no reviewer name.
const defaultUsername = "unknown"

// Normalizer coerces heterogeneous raw review records into the canonical
// Review shape and assigns each a stable identifier.
type Normalizer struct {
	ids *id.Generator
}

// NewNormalizer creates a Normalizer with its own ID generator.
func NewNormalizer() *Normalizer {
	return &Normalizer{ids: id.NewGenerator()}
}

// Normalize converts one raw record to a Review. It tolerates missing
// optional fields (username, timestamp) and returns ErrMalformedReview when
// comment and rating are both absent or unusable. No side effects beyond ID
// assignment.
func (n *Normalizer) Normalize(raw map[string]interface{}, gameID int64) (model.Review, error) {
	comment := firstString(raw, commentKeys)
	rating, rated := firstRating(raw, ratingKeys)

	if strings.TrimSpace(comment) == "" && !rated {
		return model.Review{}, fmt.Errorf("game %d: %w", gameID, ErrMalformedReview)
	}

	username := strings.TrimSpace(firstString(raw, usernameKeys))
	if username == "" {
		username = defaultUsername
	}

	return model.Review{
		ID:        n.ids.Generate(),
		Username:  username,
		Rating:    rating,
		Comment:   comment,
		Timestamp: firstString(raw, timestampKeys),
		GameID:    gameID,
	}, nil
}

// firstString returns the first non-empty string value among keys.
func firstString(raw map[string]interface{}, keys []string) string {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// firstRating returns the first usable numeric rating among keys. Sources
// deliver ratings as numbers or numeric strings; "N/A" and empty strings
// are unusable.
func firstRating(raw map[string]interface{}, keys []string) (float64, bool) {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		switch vv := v.(type) {
		case float64:
			if vv > 0 {
				return vv, true
			}
		case int:
			if vv > 0 {
				return float64(vv), true
			}
		case int64:
			if vv > 0 {
				return float64(vv), true
			}
		case string:
			s := strings.TrimSpace(vv)
			if s == "" || strings.EqualFold(s, "n/a") {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
				return f, true
			}
		}
	}
	return 0, false
}
