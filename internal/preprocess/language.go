package preprocess

// minDetectTokens is the floor under which detection is not attempted.
const minDetectTokens = 3

// detectOrder fixes the scoring order so ties resolve deterministically,
// preferring English, the dominant review language.
var detectOrder = []string{"en", "es", "fr", "de", "it", "pt"}

// DetectLanguage reports the ISO 639-1 code of raw text, defaulting to
// English for short or unscorable input. Used by callers that need a
// language before the full preprocessing pass runs.
func DetectLanguage(text string) string {
	return detectLanguage(tokenize(normalizeText(text, true)))
}

// detectLanguage scores the text's tokens against each language's marker
// set and returns the best-scoring ISO 639-1 code. Short or unscorable
// texts default to English.
func detectLanguage(tokens []string) string {
	if len(tokens) < minDetectTokens {
		return "en"
	}

	sets := resources()
	best, bestScore := "en", 0
	for _, lang := range detectOrder {
		set := sets[lang]
		score := 0
		for _, t := range tokens {
			if set[t] {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = lang, score
		}
	}

	return best
}
