package corpus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablewise/boardcorpus/internal/model"
)

type fakeMetadata struct {
	data map[int64]map[string]interface{}
	errs map[int64]error
}

func (f *fakeMetadata) Metadata(_ context.Context, gameID int64) (map[string]interface{}, error) {
	if err := f.errs[gameID]; err != nil {
		return nil, err
	}
	return f.data[gameID], nil
}

func docGroup(gameID int64, n int) DocumentGroup {
	dg := DocumentGroup{GameID: gameID}
	for _, r := range gameReviews(gameID, ratingsOf(n)...).Reviews {
		dg.Documents = append(dg.Documents, model.Document{Review: r, Language: "en"})
	}
	return dg
}

func ratingsOf(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 8
	}
	return out
}

func TestAssembleKeepsEmptyGames(t *testing.T) {
	groups := []DocumentGroup{
		docGroup(13, 3),
		{GameID: 9209},
	}
	meta := &fakeMetadata{data: map[int64]map[string]interface{}{
		13:   {"game_info": map[string]interface{}{"name": "Catan"}},
		9209: {"game_info": map[string]interface{}{"name": "Agricola"}},
	}}

	c, total := Assemble(context.Background(), groups, meta)

	assert.Equal(t, 3, total)
	require.Len(t, c.Games, 2)
	assert.Equal(t, 3, c.Games[0].Len())
	// The empty game keeps its slot and its metadata.
	assert.Zero(t, c.Games[1].Len())
	assert.NotNil(t, c.MetadataFor(9209))
}

func TestAssembleMetadataErrorIsNonFatal(t *testing.T) {
	groups := []DocumentGroup{docGroup(13, 2)}
	meta := &fakeMetadata{errs: map[int64]error{13: ErrMetadataUnavailable}}

	c, total := Assemble(context.Background(), groups, meta)

	assert.Equal(t, 2, total)
	require.Len(t, c.Games, 1)
	assert.Nil(t, c.MetadataFor(13))
	assert.Equal(t, 2, c.Games[0].Len())
}

func TestAssembleWithoutMetadataProvider(t *testing.T) {
	groups := []DocumentGroup{docGroup(13, 1)}

	c, total := Assemble(context.Background(), groups, nil)

	assert.Equal(t, 1, total)
	assert.Nil(t, c.MetadataFor(13))
}

func TestAssemblePreservesGroupOrder(t *testing.T) {
	groups := []DocumentGroup{docGroup(9209, 1), docGroup(13, 1), docGroup(42, 1)}

	c, _ := Assemble(context.Background(), groups, nil)

	assert.Equal(t, []int64{9209, 13, 42}, c.GameIDs())
}
