package model

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/tablewise/boardcorpus/pkg/utils/json"
)

// Corpus is the ordered collection of per-game corpora produced by one
// pipeline run. It is immutable from the caller's perspective except for
// explicit Append calls.
type Corpus struct {
	Games []GameCorpus `json:"games"`
}

// NewCorpus creates an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{}
}

// Append adds a per-game corpus, preserving insertion order.
func (c *Corpus) Append(g GameCorpus) {
	c.Games = append(c.Games, g)
}

// Game returns the per-game corpus for gameID.
func (c *Corpus) Game(gameID int64) (*GameCorpus, bool) {
	for i := range c.Games {
		if c.Games[i].GameID == gameID {
			return &c.Games[i], true
		}
	}
	return nil, false
}

// GameIDs returns the game identifiers in corpus order.
func (c *Corpus) GameIDs() []int64 {
	return lo.Map(c.Games, func(g GameCorpus, _ int) int64 { return g.GameID })
}

// Documents returns the flat view over all documents across games.
func (c *Corpus) Documents() []Document {
	return lo.FlatMap(c.Games, func(g GameCorpus, _ int) []Document { return g.Documents })
}

// NumDocuments returns the total document count.
func (c *Corpus) NumDocuments() int {
	n := 0
	for _, g := range c.Games {
		n += len(g.Documents)
	}
	return n
}

// NumRated counts documents whose review carries a rating.
func (c *Corpus) NumRated() int {
	return len(lo.Filter(c.Documents(), func(d Document, _ int) bool { return d.Review.Rated() }))
}

// NumCommented counts documents whose review carries text.
func (c *Corpus) NumCommented() int {
	return len(lo.Filter(c.Documents(), func(d Document, _ int) bool { return d.Review.Commented() }))
}

// NumRatedAndCommented counts documents with both rating and text.
func (c *Corpus) NumRatedAndCommented() int {
	return len(lo.Filter(c.Documents(), func(d Document, _ int) bool {
		return d.Review.Rated() && d.Review.Commented()
	}))
}

// DocumentsByLabel returns documents of one sentiment class.
func (c *Corpus) DocumentsByLabel(label Label) []Document {
	return lo.Filter(c.Documents(), func(d Document, _ int) bool { return d.Label() == label })
}

// DocumentsByLanguage returns documents whose detected language matches.
func (c *Corpus) DocumentsByLanguage(lang string) []Document {
	return lo.Filter(c.Documents(), func(d Document, _ int) bool { return d.Language == lang })
}

// LabelDistribution returns per-class document counts over the whole corpus.
func (c *Corpus) LabelDistribution() map[Label]int {
	counts := make(map[Label]int, 3)
	for _, d := range c.Documents() {
		if l := d.Label(); l.Valid() {
			counts[l]++
		}
	}
	return counts
}

// RatingDistribution returns counts per distinct rating value.
func (c *Corpus) RatingDistribution() map[float64]int {
	counts := make(map[float64]int)
	for _, d := range c.Documents() {
		if d.Review.Rated() {
			counts[d.Review.Rating]++
		}
	}
	return counts
}

// Users returns every reviewer name, one entry per document.
func (c *Corpus) Users() []string {
	return lo.Map(c.Documents(), func(d Document, _ int) string { return d.Review.Username })
}

// UniqueUsers returns distinct reviewer names.
func (c *Corpus) UniqueUsers() []string {
	return lo.Uniq(c.Users())
}

// RepeatedUsers returns reviewers with more than one document.
func (c *Corpus) RepeatedUsers() []string {
	seen := map[string]int{}
	for _, u := range c.Users() {
		seen[u]++
	}
	var out []string
	for _, u := range lo.Uniq(c.Users()) {
		if seen[u] > 1 {
			out = append(out, u)
		}
	}
	return out
}

// Raw returns the raw review texts in corpus order.
func (c *Corpus) Raw() []string {
	return lo.Map(c.Documents(), func(d Document, _ int) string { return d.Review.Comment })
}

// Words returns the processed tokens of every document, optionally
// restricted to the given sentiment classes.
func (c *Corpus) Words(labels ...Label) []string {
	docs := c.Documents()
	if len(labels) > 0 {
		docs = lo.Filter(docs, func(d Document, _ int) bool { return lo.Contains(labels, d.Label()) })
	}
	return lo.FlatMap(docs, func(d Document, _ int) []string { return d.Tokens() })
}

// WordCount pairs a token (or n-gram) with its frequency.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// FrequencyDistribution returns token frequencies over the whole corpus.
func (c *Corpus) FrequencyDistribution() map[string]int {
	freq := map[string]int{}
	for _, w := range c.Words() {
		freq[w]++
	}
	return freq
}

// MostCommon returns the n most frequent tokens, ties broken alphabetically.
func (c *Corpus) MostCommon(n int) []WordCount {
	return topCounts(c.FrequencyDistribution(), n)
}

// Hapaxes returns tokens occurring exactly once, sorted.
func (c *Corpus) Hapaxes() []string {
	var out []string
	for w, n := range c.FrequencyDistribution() {
		if n == 1 {
			out = append(out, w)
		}
	}
	sort.Strings(out)
	return out
}

// NGrams returns all n-token windows over each document's token stream,
// joined with single spaces. Windows never cross document boundaries.
func (c *Corpus) NGrams(n int) []string {
	if n <= 0 {
		return nil
	}
	var grams []string
	for _, d := range c.Documents() {
		tokens := d.Tokens()
		for i := 0; i+n <= len(tokens); i++ {
			grams = append(grams, strings.Join(tokens[i:i+n], " "))
		}
	}
	return grams
}

// Bigrams returns all two-token windows.
func (c *Corpus) Bigrams() []string {
	return c.NGrams(2)
}

// Trigrams returns all three-token windows.
func (c *Corpus) Trigrams() []string {
	return c.NGrams(3)
}

// Collocations returns the top bigrams by frequency.
func (c *Corpus) Collocations(top int) []WordCount {
	freq := map[string]int{}
	for _, bg := range c.Bigrams() {
		freq[bg]++
	}
	return topCounts(freq, top)
}

// Contexts returns windows of tokens around every occurrence of word,
// window tokens on each side, joined with spaces.
func (c *Corpus) Contexts(word string, window int) []string {
	if window < 0 {
		window = 0
	}
	var out []string
	for _, d := range c.Documents() {
		tokens := d.Tokens()
		for i, t := range tokens {
			if t != word {
				continue
			}
			start := i - window
			if start < 0 {
				start = 0
			}
			end := i + window + 1
			if end > len(tokens) {
				end = len(tokens)
			}
			out = append(out, strings.Join(tokens[start:end], " "))
		}
	}
	return out
}

// LexicalDiversity returns distinct tokens over total tokens, 0 when empty.
func (c *Corpus) LexicalDiversity() float64 {
	words := c.Words()
	if len(words) == 0 {
		return 0
	}
	return float64(len(lo.Uniq(words))) / float64(len(words))
}

// WordLengthDistribution returns counts per token length.
func (c *Corpus) WordLengthDistribution() map[int]int {
	counts := map[int]int{}
	for _, w := range c.Words() {
		counts[len([]rune(w))]++
	}
	return counts
}

// TokensByLabel returns total token counts per sentiment class.
func (c *Corpus) TokensByLabel() map[Label]int {
	counts := make(map[Label]int, 3)
	for _, d := range c.Documents() {
		if l := d.Label(); l.Valid() {
			counts[l] += len(d.Tokens())
		}
	}
	return counts
}

// MetadataFor returns the metadata mapping of gameID, or nil.
func (c *Corpus) MetadataFor(gameID int64) map[string]interface{} {
	if g, ok := c.Game(gameID); ok {
		return g.Metadata
	}
	return nil
}

// Export serializes the corpus losslessly: one entry per game, each
// containing its documents.
func (c *Corpus) Export() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// Import reconstructs a corpus from Export output.
func Import(data []byte) (*Corpus, error) {
	var c Corpus
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// topCounts sorts a frequency map descending by count, ties alphabetical,
// and keeps the first n entries.
func topCounts(freq map[string]int, n int) []WordCount {
	out := make([]WordCount, 0, len(freq))
	for w, cnt := range freq {
		out = append(out, WordCount{Word: w, Count: cnt})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
