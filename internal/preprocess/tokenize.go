package preprocess

import "regexp"

var (
	tokenPattern    = regexp.MustCompile(`[\p{L}\p{N}]+(?:'\p{L}+)?`)
	sentencePattern = regexp.MustCompile(`[.!?]+\s+|[.!?]+$`)
)

// tokenize splits cleaned text into word tokens: runs of letters and
// digits, with a single apostrophe contraction allowed.
func tokenize(clean string) []string {
	return tokenPattern.FindAllString(clean, -1)
}

// splitSentences splits cleaned text on terminal punctuation runs.
func splitSentences(clean string) []string {
	if clean == "" {
		return nil
	}
	parts := sentencePattern.Split(clean, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// removeStopwords filters tokens against the given language's set.
func removeStopwords(tokens []string, lang string) []string {
	set := resources()[lang]
	if set == nil {
		set = resources()["en"]
	}
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !set[t] {
			out = append(out, t)
		}
	}
	return out
}
