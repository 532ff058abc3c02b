package corpus

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tablewise/boardcorpus/internal/model"
)

// dedupKey identifies one logical review across sources.
type dedupKey struct {
	user    string
	comment string
}

// Merge combines two per-game review streams into one deduplicated stream.
// Two reviews with the same normalized (username, comment) pair are the
// same logical review. On collision the first-seen record is the base: a
// present timestamp wins over an absent one and every other scalar field
// prefers the non-empty side. Output preserves first-seen order.
func Merge(a, b []model.Review) []model.Review {
	out := make([]model.Review, 0, len(a)+len(b))
	index := make(map[dedupKey]int, len(a)+len(b))

	for _, r := range append(append([]model.Review{}, a...), b...) {
		key := dedupKey{
			user:    strings.ToLower(strings.TrimSpace(r.Username)),
			comment: normalizeComment(r.Comment),
		}
		i, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, r)
			continue
		}
		out[i] = mergeReviews(out[i], r)
	}

	return out
}

// mergeReviews resolves one collision, keeping base as the surviving record.
func mergeReviews(base, other model.Review) model.Review {
	if base.Timestamp == "" {
		base.Timestamp = other.Timestamp
	}
	if base.Comment == "" {
		base.Comment = other.Comment
	}
	if !base.Rated() && other.Rated() {
		base.Rating = other.Rating
	}
	if base.Username == "" || base.Username == defaultUsername {
		if other.Username != "" {
			base.Username = other.Username
		}
	}
	return base
}

// normalizeComment builds the comparison form of a comment: NFC
// normalization, lowercasing, and whitespace collapsing.
func normalizeComment(s string) string {
	s = norm.NFC.String(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}
