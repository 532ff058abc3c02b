package model

// GameCorpus holds the processed documents of one game plus its metadata.
// Every document's game identifier equals GameID; Add stamps it.
type GameCorpus struct {
	GameID    int64                  `json:"game_id" bson:"game_id"`
	Metadata  map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	Documents []Document             `json:"reviews" bson:"reviews"`
}

// NewGameCorpus creates an empty per-game corpus.
func NewGameCorpus(gameID int64, metadata map[string]interface{}) *GameCorpus {
	return &GameCorpus{
		GameID:   gameID,
		Metadata: metadata,
	}
}

// Add appends a document, stamping the corpus game identifier onto it.
func (g *GameCorpus) Add(doc Document) {
	doc.Review.GameID = g.GameID
	g.Documents = append(g.Documents, doc)
}

// Len returns the number of documents.
func (g *GameCorpus) Len() int {
	return len(g.Documents)
}

// LabelCounts returns the per-class document counts.
func (g *GameCorpus) LabelCounts() map[Label]int {
	counts := make(map[Label]int, 3)
	for _, d := range g.Documents {
		if l := d.Label(); l.Valid() {
			counts[l]++
		}
	}
	return counts
}
