package corpus

import (
	"context"

	"github.com/tablewise/boardcorpus/internal/model"
)

// Preprocessor is the linguistic preprocessing port. Implementations must
// be deterministic for identical input and safe for concurrent use; the
// orchestrator fans calls out across a worker pool.
type Preprocessor interface {
	Process(ctx context.Context, review model.Review) (model.Document, error)
}

// MetadataProvider is the catalog metadata port. A failure is non-fatal:
// the assembler substitutes empty metadata and logs a warning.
type MetadataProvider interface {
	Metadata(ctx context.Context, gameID int64) (map[string]interface{}, error)
}

// Augmenter is the text augmentation port. It returns up to count distinct
// variants of text; fewer when no further distinct variants exist. It
// errors only on hard failures such as an unsupported language.
type Augmenter interface {
	Augment(text, language string, count int) ([]string, error)
}

// Storage is the persistence port, all-or-nothing.
type Storage interface {
	Save(ctx context.Context, c *model.Corpus) error
	Load(ctx context.Context) (*model.Corpus, error)
}

// Source supplies the raw per-game review dumps of the two collection
// paths. A missing dump yields an empty slice, not an error.
type Source interface {
	APIReviews(ctx context.Context, gameID int64) ([]map[string]interface{}, error)
	CrawlerReviews(ctx context.Context, gameID int64) ([]map[string]interface{}, error)
}
