package corpus

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablewise/boardcorpus/internal/model"
)

// fakePreprocessor lowercases comments and fails for review IDs in failIDs.
type fakePreprocessor struct {
	failIDs map[string]bool
	calls   atomic.Int64
}

func (f *fakePreprocessor) Process(_ context.Context, r model.Review) (model.Document, error) {
	f.calls.Add(1)
	if f.failIDs[r.ID] {
		return model.Document{}, fmt.Errorf("simulated failure for %s", r.ID)
	}
	return model.Document{
		Review:    r,
		CleanText: strings.ToLower(r.Comment),
		Language:  "en",
	}, nil
}

// Ten reviews across three workers with one poisoned review: nine documents
// come back and the failure is attributed to the right review.
func TestProcessAllParallelWithFailure(t *testing.T) {
	group := gameReviews(13, 1, 2, 3, 5, 6, 6, 7, 8, 9, 9)
	pre := &fakePreprocessor{failIDs: map[string]bool{"r4": true}}

	out, report, err := ProcessAll(context.Background(), []ReviewGroup{group}, pre, ProcessOptions{
		Parallel:   true,
		MaxWorkers: 3,
	})
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Len(t, out[0].Documents, 9)
	assert.Equal(t, 9, report.Processed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "r4", report.Failures[0].ReviewID)
	assert.Equal(t, int64(13), report.Failures[0].GameID)
	assert.Contains(t, report.Failures[0].Reason, "simulated failure")
	assert.Equal(t, int64(10), pre.calls.Load())
}

func TestProcessAllSequentialPreservesOrder(t *testing.T) {
	group := gameReviews(13, 1, 5, 9, 6, 2)
	pre := &fakePreprocessor{}

	out, report, err := ProcessAll(context.Background(), []ReviewGroup{group}, pre, ProcessOptions{})
	require.NoError(t, err)

	require.Len(t, out, 1)
	require.Len(t, out[0].Documents, 5)
	for i, doc := range out[0].Documents {
		assert.Equal(t, fmt.Sprintf("r%d", i), doc.Review.ID)
	}
	assert.Equal(t, 5, report.Processed)
	assert.Empty(t, report.Failures)
}

func TestProcessAllParallelKeepsGroupOrder(t *testing.T) {
	groups := []ReviewGroup{
		gameReviews(13, 1, 5, 9),
		gameReviews(9209, 2, 6),
		{GameID: 42},
	}
	pre := &fakePreprocessor{}

	out, _, err := ProcessAll(context.Background(), groups, pre, ProcessOptions{
		Parallel:   true,
		MaxWorkers: 4,
	})
	require.NoError(t, err)

	require.Len(t, out, 3)
	assert.Equal(t, int64(13), out[0].GameID)
	assert.Equal(t, int64(9209), out[1].GameID)
	assert.Equal(t, int64(42), out[2].GameID)
	assert.Len(t, out[0].Documents, 3)
	assert.Len(t, out[1].Documents, 2)
	assert.Empty(t, out[2].Documents)

	for _, dg := range out {
		for _, doc := range dg.Documents {
			assert.Equal(t, dg.GameID, doc.Review.GameID)
		}
	}
}

func TestProcessAllStrictAborts(t *testing.T) {
	group := gameReviews(13, 1, 5, 9)
	pre := &fakePreprocessor{failIDs: map[string]bool{"r1": true}}

	out, report, err := ProcessAll(context.Background(), []ReviewGroup{group}, pre, ProcessOptions{
		Strict: true,
	})

	require.Error(t, err)
	assert.Nil(t, out)

	var perr *PreprocessingError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "r1", perr.ReviewID)
	assert.Len(t, report.Failures, 1)
}

func TestProcessAllEmptyInput(t *testing.T) {
	groups := []ReviewGroup{{GameID: 13}, {GameID: 9209}}
	pre := &fakePreprocessor{}

	for _, parallel := range []bool{false, true} {
		out, report, err := ProcessAll(context.Background(), groups, pre, ProcessOptions{
			Parallel:   parallel,
			MaxWorkers: 2,
		})
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Empty(t, out[0].Documents)
		assert.Empty(t, out[1].Documents)
		assert.Zero(t, report.Processed)
	}
	assert.Zero(t, pre.calls.Load())
}
