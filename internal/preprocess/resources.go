package preprocess

import "sync"

// Stopword sets double as language markers: detection scores a text by how
// many of its tokens appear in each language's set. Loaded lazily, read-only
// after first use; Reset exists for tests.
var (
	resourcesOnce sync.Once
	stopwordSets  map[string]map[string]bool
)

func loadResources() {
	stopwordSets = map[string]map[string]bool{
		"en": toSet("the", "a", "an", "and", "or", "but", "is", "are", "was", "were",
			"it", "this", "that", "of", "to", "in", "on", "for", "with", "as", "at",
			"by", "be", "not", "have", "has", "had", "you", "i", "we", "they", "he",
			"she", "my", "your", "its", "so", "if", "very", "too", "just", "game"),
		"es": toSet("el", "la", "los", "las", "un", "una", "y", "o", "pero", "es",
			"son", "era", "de", "del", "que", "en", "por", "para", "con", "como",
			"no", "se", "su", "lo", "le", "muy", "mas", "este", "esta", "juego"),
		"fr": toSet("le", "la", "les", "un", "une", "des", "et", "ou", "mais",
			"est", "sont", "de", "du", "que", "qui", "dans", "pour", "avec",
			"pas", "ne", "ce", "cette", "tres", "plus", "jeu", "je", "vous"),
		"de": toSet("der", "die", "das", "ein", "eine", "und", "oder", "aber",
			"ist", "sind", "war", "von", "zu", "im", "mit", "auf", "nicht",
			"ich", "wir", "sie", "es", "sehr", "auch", "spiel", "man", "wie"),
		"it": toSet("il", "la", "lo", "gli", "un", "una", "e", "o", "ma", "che",
			"di", "del", "della", "in", "per", "con", "non", "si", "molto",
			"questo", "questa", "gioco", "sono", "come", "anche"),
		"pt": toSet("o", "a", "os", "as", "um", "uma", "e", "ou", "mas", "que",
			"de", "do", "da", "em", "por", "para", "com", "nao", "se", "muito",
			"este", "esta", "jogo", "sao", "como", "tambem"),
	}
}

func resources() map[string]map[string]bool {
	resourcesOnce.Do(loadResources)
	return stopwordSets
}

// Reset reloads the resource caches. Test hook only.
func Reset() {
	resourcesOnce = sync.Once{}
	stopwordSets = nil
}

func toSet(words ...string) map[string]bool {
	s := make(map[string]bool, len(words))
	for _, w := range words {
		s[w] = true
	}
	return s
}
