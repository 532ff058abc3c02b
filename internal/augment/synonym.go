// Package augment is the default implementation of the text augmentation
// port: deterministic synonym substitution over a fixed English lexicon.
package augment

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
)

// synonyms covers the adjectives and verbs that dominate review text.
// English only; other languages are a hard failure per the port contract.
var synonyms = map[string][]string{
	"good":      {"great", "solid", "enjoyable"},
	"great":     {"excellent", "fantastic", "superb"},
	"bad":       {"poor", "weak", "disappointing"},
	"terrible":  {"awful", "dreadful", "horrible"},
	"fun":       {"entertaining", "enjoyable", "amusing"},
	"boring":    {"dull", "tedious", "monotonous"},
	"simple":    {"easy", "straightforward", "uncomplicated"},
	"complex":   {"complicated", "intricate", "involved"},
	"long":      {"lengthy", "drawn-out", "extended"},
	"short":     {"quick", "brief", "fast"},
	"love":      {"adore", "enjoy", "like"},
	"hate":      {"dislike", "despise", "loathe"},
	"play":      {"try", "run", "enjoy"},
	"game":      {"title", "design", "experience"},
	"nice":      {"pleasant", "lovely", "fine"},
	"hard":      {"difficult", "tough", "challenging"},
	"beautiful": {"gorgeous", "stunning", "lovely"},
	"old":       {"dated", "aged", "classic"},
	"new":       {"fresh", "recent", "modern"},
	"best":      {"finest", "greatest", "top"},
	"worst":     {"poorest", "weakest", "bottom"},
	"strategy":  {"planning", "tactics", "thinking"},
	"luck":      {"chance", "randomness", "fortune"},
	"quick":     {"fast", "speedy", "rapid"},
	"slow":      {"sluggish", "plodding", "leisurely"},
}

// SynonymAugmenter synthesizes text variants by substituting synonyms for
// known words. Deterministic given its seed.
type SynonymAugmenter struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates an augmenter seeded for reproducible variant selection.
func New(seed int64) *SynonymAugmenter {
	return &SynonymAugmenter{rng: rand.New(rand.NewSource(seed))}
}

// Augment returns up to count distinct variants of text, fewer when the
// lexicon is exhausted. Empty language is treated as English. Any other
// language is a hard failure.
func (a *SynonymAugmenter) Augment(text, language string, count int) ([]string, error) {
	if language != "" && language != "en" && language != "unknown" {
		return nil, fmt.Errorf("augmentation not supported for language %q", language)
	}
	if count <= 0 || strings.TrimSpace(text) == "" {
		return nil, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	seen := map[string]bool{strings.ToLower(text): true}
	variants := make([]string, 0, count)

	// Each attempt substitutes up to two substitutable words. The attempt
	// budget mirrors the caller's: a text with no known words yields
	// nothing quickly.
	for attempts := 0; len(variants) < count && attempts < count*4; attempts++ {
		v, changed := a.substitute(text)
		if !changed {
			break
		}
		key := strings.ToLower(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		variants = append(variants, v)
	}

	return variants, nil
}

// substitute replaces up to two known words in text with random synonyms,
// preserving the original token casing boundaries crudely (replacements
// are lowercase).
func (a *SynonymAugmenter) substitute(text string) (string, bool) {
	words := strings.Fields(text)
	candidates := make([]int, 0, len(words))
	for i, w := range words {
		if _, ok := synonyms[normalizeWord(w)]; ok {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return text, false
	}

	n := 1
	if len(candidates) > 1 {
		n = 2
	}
	for _, ci := range a.rng.Perm(len(candidates))[:n] {
		i := candidates[ci]
		alts := synonyms[normalizeWord(words[i])]
		words[i] = alts[a.rng.Intn(len(alts))]
	}

	return strings.Join(words, " "), true
}

func normalizeWord(w string) string {
	return strings.ToLower(strings.Trim(w, ".,!?;:\"'()"))
}
