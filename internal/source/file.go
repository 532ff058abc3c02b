// Package source reads the local per-game review dumps produced by the two
// collection paths. A missing dump is an empty result, not an error.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kart-io/logger"

	"github.com/tablewise/boardcorpus/pkg/utils/json"
)

// FileSource loads review dumps from disk. The API path stores one object
// with a "comments" list (or a bare list); the crawler path stores a bare
// list.
type FileSource struct {
	APIDir     string
	CrawlerDir string
}

// New creates a FileSource over the two dump directories.
func New(apiDir, crawlerDir string) *FileSource {
	return &FileSource{APIDir: apiDir, CrawlerDir: crawlerDir}
}

// APIReviews returns the raw records of one game's API dump.
func (s *FileSource) APIReviews(ctx context.Context, gameID int64) ([]map[string]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(s.APIDir, fmt.Sprintf("bgg_reviews_%d_api.json", gameID))
	data, ok, err := readDump(path)
	if err != nil || !ok {
		return nil, err
	}

	// Either {"comments": [...]} or a bare list.
	var envelope struct {
		Comments []map[string]interface{} `json:"comments"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Comments != nil {
		return envelope.Comments, nil
	}

	var list []map[string]interface{}
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return list, nil
}

// CrawlerReviews returns the raw records of one game's crawler dump.
func (s *FileSource) CrawlerReviews(ctx context.Context, gameID int64) ([]map[string]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(s.CrawlerDir, fmt.Sprintf("bgg_reviews_%d_crawler.json", gameID))
	data, ok, err := readDump(path)
	if err != nil || !ok {
		return nil, err
	}

	var list []map[string]interface{}
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return list, nil
}

// readDump reads a dump file. ok is false when the file does not exist.
func readDump(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warnw("Review dump not found", "path", path)
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, true, nil
}
