package corpus

import (
	"errors"
	"fmt"

	"github.com/tablewise/boardcorpus/internal/model"
)

var (
	// ErrMalformedReview marks a raw record whose comment and rating are
	// both absent or unusable. Such records are dropped and counted.
	ErrMalformedReview = errors.New("malformed review: comment and rating both unusable")

	// ErrMetadataUnavailable marks a metadata port failure. Non-fatal:
	// the game proceeds with empty metadata.
	ErrMetadataUnavailable = errors.New("metadata unavailable")
)

// InsufficientDataError reports a bucket that starts completely empty while
// the strategy requires a non-zero target for it and no augmenter is
// available to manufacture records from nothing.
type InsufficientDataError struct {
	GameID int64
	Label  model.Label
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("game %d: bucket %q is empty and cannot be oversampled without an augmenter", e.GameID, e.Label)
}

// PreprocessingError reports a single review failing the preprocessing
// port. Recorded per review; the batch continues.
type PreprocessingError struct {
	GameID   int64
	ReviewID string
	Err      error
}

func (e *PreprocessingError) Error() string {
	return fmt.Sprintf("game %d: preprocessing review %s: %v", e.GameID, e.ReviewID, e.Err)
}

func (e *PreprocessingError) Unwrap() error {
	return e.Err
}
