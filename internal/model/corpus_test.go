package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestCorpus() *Corpus {
	c := NewCorpus()

	g1 := NewGameCorpus(13, map[string]interface{}{"game_info": map[string]interface{}{"name": "Catan"}})
	g1.Add(Document{
		Review:    Review{ID: "r1", Username: "alice", Rating: 8, Comment: "Great game for the family"},
		CleanText: "great game for the family",
		Language:  "en",
		Processed: map[string]interface{}{"tokens": []string{"great", "game", "for", "the", "family"}},
	})
	g1.Add(Document{
		Review:    Review{ID: "r2", Username: "bob", Rating: 3, Comment: "Boring game"},
		CleanText: "boring game",
		Language:  "en",
		Processed: map[string]interface{}{"tokens": []string{"boring", "game"}},
	})
	g1.Add(Document{
		Review:    Review{ID: "r3", Username: "alice", Rating: 6, Comment: "It is fine"},
		CleanText: "it is fine",
		Language:  "en",
		Processed: map[string]interface{}{"tokens": []string{"it", "is", "fine"}},
	})

	g2 := NewGameCorpus(9209, nil)
	g2.Add(Document{
		Review:    Review{ID: "r4", Username: "carol", Rating: 9, Comment: "Love it"},
		CleanText: "love it",
		Language:  "en",
		Processed: map[string]interface{}{"tokens": []string{"love", "it"}},
	})

	c.Append(*g1)
	c.Append(*g2)
	return c
}

func TestCorpusRoundTrip(t *testing.T) {
	c := buildTestCorpus()

	data, err := c.Export()
	require.NoError(t, err)

	back, err := Import(data)
	require.NoError(t, err)

	assert.Equal(t, len(c.Games), len(back.Games))
	assert.Equal(t, c.NumDocuments(), back.NumDocuments())

	origDocs := c.Documents()
	backDocs := back.Documents()
	require.Equal(t, len(origDocs), len(backDocs))
	for i := range origDocs {
		assert.Equal(t, origDocs[i].Label(), backDocs[i].Label())
		assert.Equal(t, origDocs[i].Review.Rating, backDocs[i].Review.Rating)
		assert.Equal(t, origDocs[i].Review.Comment, backDocs[i].Review.Comment)
		assert.Equal(t, origDocs[i].Tokens(), backDocs[i].Tokens())
	}
}

func TestCorpusCounts(t *testing.T) {
	c := buildTestCorpus()

	assert.Equal(t, 4, c.NumDocuments())
	assert.Equal(t, 4, c.NumRated())
	assert.Equal(t, 4, c.NumCommented())
	assert.Equal(t, []int64{13, 9209}, c.GameIDs())

	dist := c.LabelDistribution()
	assert.Equal(t, 2, dist[LabelPositive])
	assert.Equal(t, 1, dist[LabelNeutral])
	assert.Equal(t, 1, dist[LabelNegative])

	ratings := c.RatingDistribution()
	assert.Equal(t, 1, ratings[8.0])
	assert.Equal(t, 1, ratings[3.0])
}

func TestCorpusUsers(t *testing.T) {
	c := buildTestCorpus()

	assert.Len(t, c.Users(), 4)
	assert.Len(t, c.UniqueUsers(), 3)
	assert.Equal(t, []string{"alice"}, c.RepeatedUsers())
}

func TestCorpusWordsAndFrequencies(t *testing.T) {
	c := buildTestCorpus()

	words := c.Words()
	assert.Len(t, words, 12)

	freq := c.FrequencyDistribution()
	assert.Equal(t, 2, freq["game"])
	assert.Equal(t, 2, freq["it"])

	top := c.MostCommon(2)
	require.Len(t, top, 2)
	assert.Equal(t, 2, top[0].Count)

	hapaxes := c.Hapaxes()
	assert.Contains(t, hapaxes, "boring")
	assert.NotContains(t, hapaxes, "game")

	positiveWords := c.Words(LabelPositive)
	assert.Len(t, positiveWords, 7)
}

func TestCorpusNGramsAndContexts(t *testing.T) {
	c := buildTestCorpus()

	bigrams := c.Bigrams()
	assert.Contains(t, bigrams, "great game")
	assert.Contains(t, bigrams, "boring game")
	// Windows never cross document boundaries.
	assert.NotContains(t, bigrams, "family boring")

	contexts := c.Contexts("game", 1)
	assert.Contains(t, contexts, "great game for")
	assert.Contains(t, contexts, "boring game")

	colls := c.Collocations(1)
	require.Len(t, colls, 1)
	assert.Equal(t, 1, colls[0].Count)
}

func TestCorpusLexicalDiversity(t *testing.T) {
	c := buildTestCorpus()
	// 10 distinct tokens over 12 total.
	assert.InDelta(t, 10.0/12.0, c.LexicalDiversity(), 1e-9)

	empty := NewCorpus()
	assert.Zero(t, empty.LexicalDiversity())
}

func TestGameCorpusAddStampsGameID(t *testing.T) {
	g := NewGameCorpus(42, nil)
	g.Add(Document{Review: Review{ID: "x", GameID: 7, Rating: 8}})
	assert.Equal(t, int64(42), g.Documents[0].GameID())
	assert.Equal(t, map[Label]int{LabelPositive: 1}, g.LabelCounts())
}

func TestMetadataFor(t *testing.T) {
	c := buildTestCorpus()
	assert.NotNil(t, c.MetadataFor(13))
	assert.Nil(t, c.MetadataFor(9209))
	assert.Nil(t, c.MetadataFor(999))
}
