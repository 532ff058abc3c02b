// Package metadata implements the catalog metadata port, aggregating each
// game's API metadata dump with the rank and stat CSV exports into one
// structured mapping.
package metadata

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/tablewise/boardcorpus/internal/corpus"
	"github.com/tablewise/boardcorpus/pkg/utils/json"
)

// FileProvider builds metadata from local files. CSV tables are loaded
// lazily on first use and never mutated afterwards; Reset exists for tests.
type FileProvider struct {
	APIDir   string
	RanksCSV string
	StatsCSV string

	once    sync.Once
	ranks   map[int64]map[string]interface{}
	stats   map[int64]map[string]interface{}
	loadErr error
}

// New creates a FileProvider over the metadata inputs. Empty CSV paths
// disable the corresponding table.
func New(apiDir, ranksCSV, statsCSV string) *FileProvider {
	return &FileProvider{APIDir: apiDir, RanksCSV: ranksCSV, StatsCSV: statsCSV}
}

// Reset drops the lazily loaded tables. Test hook only.
func (p *FileProvider) Reset() {
	p.once = sync.Once{}
	p.ranks = nil
	p.stats = nil
	p.loadErr = nil
}

func (p *FileProvider) load() {
	var err error
	if p.RanksCSV != "" {
		p.ranks, err = loadCSVTable(p.RanksCSV, "id")
		if err != nil {
			p.loadErr = err
			return
		}
	}
	if p.StatsCSV != "" {
		p.stats, err = loadCSVTable(p.StatsCSV, "game_id")
		if err != nil {
			p.loadErr = err
		}
	}
}

// Metadata implements the metadata port. It returns
// corpus.ErrMetadataUnavailable when no input yields anything for gameID.
func (p *FileProvider) Metadata(ctx context.Context, gameID int64) (map[string]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.once.Do(p.load)
	if p.loadErr != nil {
		return nil, fmt.Errorf("%w: %v", corpus.ErrMetadataUnavailable, p.loadErr)
	}

	raw := map[string]interface{}{}
	apiMeta := p.loadAPIMetadata(gameID)
	for k, v := range apiMeta {
		raw[k] = v
	}
	for k, v := range p.ranks[gameID] {
		raw[k] = v
	}
	for k, v := range p.stats[gameID] {
		raw[k] = v
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("game %d: %w", gameID, corpus.ErrMetadataUnavailable)
	}

	return build(gameID, raw), nil
}

func (p *FileProvider) loadAPIMetadata(gameID int64) map[string]interface{} {
	if p.APIDir == "" {
		return nil
	}
	path := filepath.Join(p.APIDir, fmt.Sprintf("bgg_metadata_%d_api.json", gameID))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var meta map[string]interface{}
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil
	}
	return meta
}

// build arranges the flat aggregated mapping into the structured
// game_info/stats/rankings/classifications/polls shape.
func build(gameID int64, raw map[string]interface{}) map[string]interface{} {
	classifications, _ := raw["classifications"].(map[string]interface{})

	return map[string]interface{}{
		"game_info": map[string]interface{}{
			"id":            gameID,
			"name":          raw["name"],
			"yearpublished": raw["yearpublished"],
			"minplayers":    raw["minplayers"],
			"maxplayers":    raw["maxplayers"],
			"minplaytime":   raw["minplaytime"],
			"maxplaytime":   raw["maxplaytime"],
			"age":           raw["age"],
			"description":   raw["description"],
			"image":         raw["image"],
			"thumbnail":     raw["thumbnail"],
			"designers":     raw["designers"],
			"artists":       raw["artists"],
			"publishers":    raw["publishers"],
			"is_expansion":  truthy(raw["is_expansion"]),
		},
		"stats": map[string]interface{}{
			"num_reviews":                     raw["total_all"],
			"num_reviews_commented":           raw["total_commented"],
			"num_reviews_rated":               raw["total_rated"],
			"num_reviews_rated_and_commented": raw["total_rated_and_commented"],
			"avg_rating":                      raw["average"],
			"bayes_average":                   raw["bayesaverage"],
			"avg_weight":                      raw["avgweight"],
			"num_weights":                     raw["numweights"],
		},
		"rankings": map[string]interface{}{
			"overall_rank":        raw["rank"],
			"strategygames_rank":  raw["strategygames_rank"],
			"thematic_rank":       raw["thematic_rank"],
			"familygames_rank":    raw["familygames_rank"],
			"partygames_rank":     raw["partygames_rank"],
			"cgs_rank":            raw["cgs_rank"],
			"childrensgames_rank": raw["childrensgames_rank"],
			"abstracts_rank":      raw["abstracts_rank"],
			"wargames_rank":       raw["wargames_rank"],
		},
		"classifications": map[string]interface{}{
			"mechanics":  index(classifications, "mechanics"),
			"categories": index(classifications, "categories"),
			"families":   index(classifications, "families"),
		},
		"polls": map[string]interface{}{
			"complexity_poll": map[string]interface{}{
				"poll_avg":   raw["poll_avg"],
				"poll_votes": raw["poll_votes"],
			},
		},
	}
}

func index(m map[string]interface{}, key string) interface{} {
	if m == nil {
		return nil
	}
	return m[key]
}

func truthy(v interface{}) bool {
	switch vv := v.(type) {
	case bool:
		return vv
	case float64:
		return vv != 0
	case string:
		return vv == "1" || vv == "true"
	}
	return false
}

// loadCSVTable reads a CSV file into per-game rows keyed by idColumn.
// Numeric cells become float64, empty cells nil.
func loadCSVTable(path, idColumn string) (map[int64]map[string]interface{}, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading %s header: %w", path, err)
	}

	idIdx := -1
	for i, col := range header {
		if col == idColumn {
			idIdx = i
			break
		}
	}
	if idIdx == -1 {
		return nil, fmt.Errorf("%s: missing %q column", path, idColumn)
	}

	table := map[int64]map[string]interface{}{}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		gameID, err := strconv.ParseInt(record[idIdx], 10, 64)
		if err != nil {
			continue
		}
		row := make(map[string]interface{}, len(header))
		for i, col := range header {
			if i >= len(record) || record[i] == "" {
				row[col] = nil
				continue
			}
			if f, err := strconv.ParseFloat(record[i], 64); err == nil {
				row[col] = f
			} else {
				row[col] = record[i]
			}
		}
		table[gameID] = row
	}

	return table, nil
}
