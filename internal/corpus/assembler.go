package corpus

import (
	"context"

	"github.com/kart-io/logger"

	"github.com/tablewise/boardcorpus/internal/model"
)

// Assemble builds the final corpus from per-game document groups, in input
// group order. A game whose documents all dropped still gets an empty
// GameCorpus so its slot and metadata stay addressable. Metadata port
// failures are non-fatal: the game proceeds with empty metadata and a
// logged warning. Returns the corpus and the total document count.
func Assemble(ctx context.Context, groups []DocumentGroup, meta MetadataProvider) (*model.Corpus, int) {
	c := model.NewCorpus()
	total := 0

	for _, g := range groups {
		var md map[string]interface{}
		if meta != nil {
			var err error
			md, err = meta.Metadata(ctx, g.GameID)
			if err != nil {
				logger.Warnw("Metadata unavailable, continuing with empty metadata",
					"game_id", g.GameID,
					"error", err,
				)
				md = nil
			}
		}

		gc := model.NewGameCorpus(g.GameID, md)
		for _, doc := range g.Documents {
			gc.Add(doc)
		}
		total += gc.Len()
		c.Append(*gc)
	}

	return c, total
}
