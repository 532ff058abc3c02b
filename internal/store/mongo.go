// Package store implements the persistence port on MongoDB: one metadata
// document per game plus one document per review.
package store

import (
	"context"
	"fmt"

	"github.com/kart-io/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tablewise/boardcorpus/internal/corpus"
	"github.com/tablewise/boardcorpus/internal/model"
	"github.com/tablewise/boardcorpus/pkg/component/mongodb"
)

const (
	metadataCollection = "game_metadata"
	reviewsCollection  = "reviews"

	// insertBatchSize bounds one InsertMany payload.
	insertBatchSize = 500
)

// MongoStore persists corpora to MongoDB.
type MongoStore struct {
	client *mongodb.Client
}

var _ corpus.Storage = (*MongoStore)(nil)

// New creates a MongoStore over an established client.
func New(client *mongodb.Client) *MongoStore {
	return &MongoStore{client: client}
}

// storedDocument is the wire shape of one review document. The label is
// materialized at save time so aggregations can group on it server-side.
type storedDocument struct {
	GameID    int64                  `bson:"game_id"`
	Label     string                 `bson:"label,omitempty"`
	Review    model.Review           `bson:"review"`
	CleanText string                 `bson:"clean_text,omitempty"`
	Language  string                 `bson:"language,omitempty"`
	Processed map[string]interface{} `bson:"processed,omitempty"`
}

// EnsureIndexes creates the collection indexes. Idempotent.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.client.Collection(metadataCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "game_id", Value: 1}},
		Options: mongoopts.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("creating metadata index: %w", err)
	}

	_, err = s.client.Collection(reviewsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "game_id", Value: 1}}},
		{Keys: bson.D{{Key: "label", Value: 1}}},
		{Keys: bson.D{{Key: "review.username", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("creating review indexes: %w", err)
	}

	return nil
}

// Save persists the corpus: per game, a metadata upsert plus batched review
// inserts. Existing documents of the same games are replaced first so the
// stored state matches the corpus.
func (s *MongoStore) Save(ctx context.Context, c *model.Corpus) error {
	if err := s.Delete(ctx, c.GameIDs()...); err != nil {
		return err
	}

	for _, g := range c.Games {
		labelCounts := map[string]int{}
		for label, n := range g.LabelCounts() {
			labelCounts[string(label)] = n
		}

		_, err := s.client.Collection(metadataCollection).UpdateOne(ctx,
			bson.M{"game_id": g.GameID},
			bson.M{"$set": bson.M{
				"game_id":       g.GameID,
				"metadata":      g.Metadata,
				"total_reviews": len(g.Documents),
				"label_counts":  labelCounts,
			}},
			mongoopts.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("saving metadata for game %d: %w", g.GameID, err)
		}

		if err := s.insertDocuments(ctx, g); err != nil {
			return err
		}

		logger.Infow("Game corpus saved",
			"game_id", g.GameID,
			"documents", len(g.Documents),
		)
	}

	return nil
}

func (s *MongoStore) insertDocuments(ctx context.Context, g model.GameCorpus) error {
	coll := s.client.Collection(reviewsCollection)
	batch := make([]interface{}, 0, insertBatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := coll.InsertMany(ctx, batch); err != nil {
			return fmt.Errorf("inserting reviews for game %d: %w", g.GameID, err)
		}
		batch = batch[:0]
		return nil
	}

	for _, d := range g.Documents {
		batch = append(batch, storedDocument{
			GameID:    g.GameID,
			Label:     string(d.Label()),
			Review:    d.Review,
			CleanText: d.CleanText,
			Language:  d.Language,
			Processed: d.Processed,
		})
		if len(batch) == insertBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	return flush()
}

// Load reconstructs the full stored corpus, games ordered by identifier.
func (s *MongoStore) Load(ctx context.Context) (*model.Corpus, error) {
	return s.LoadGames(ctx, nil, nil, 0)
}

// LoadGames reconstructs a corpus restricted to the given games and labels.
// Nil gameIDs means all stored games; limit bounds documents per game,
// 0 means unlimited.
func (s *MongoStore) LoadGames(ctx context.Context, gameIDs []int64, labels []model.Label, limit int64) (*model.Corpus, error) {
	metaFilter := bson.M{}
	if len(gameIDs) > 0 {
		metaFilter["game_id"] = bson.M{"$in": gameIDs}
	}

	cur, err := s.client.Collection(metadataCollection).Find(ctx, metaFilter,
		mongoopts.Find().SetSort(bson.D{{Key: "game_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("loading game metadata: %w", err)
	}
	defer cur.Close(ctx)

	type metaDoc struct {
		GameID   int64                  `bson:"game_id"`
		Metadata map[string]interface{} `bson:"metadata"`
	}

	c := model.NewCorpus()
	for cur.Next(ctx) {
		var md metaDoc
		if err := cur.Decode(&md); err != nil {
			return nil, fmt.Errorf("decoding game metadata: %w", err)
		}

		docs, err := s.loadDocuments(ctx, md.GameID, labels, limit)
		if err != nil {
			return nil, err
		}

		gc := model.NewGameCorpus(md.GameID, md.Metadata)
		for _, d := range docs {
			gc.Add(d)
		}
		c.Append(*gc)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterating game metadata: %w", err)
	}

	return c, nil
}

func (s *MongoStore) loadDocuments(ctx context.Context, gameID int64, labels []model.Label, limit int64) ([]model.Document, error) {
	filter := bson.M{"game_id": gameID}
	if len(labels) > 0 {
		names := make([]string, 0, len(labels))
		for _, l := range labels {
			names = append(names, string(l))
		}
		filter["label"] = bson.M{"$in": names}
	}

	findOpts := mongoopts.Find()
	if limit > 0 {
		findOpts.SetLimit(limit)
	}

	cur, err := s.client.Collection(reviewsCollection).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("loading reviews for game %d: %w", gameID, err)
	}
	defer cur.Close(ctx)

	var docs []model.Document
	for cur.Next(ctx) {
		var sd storedDocument
		if err := cur.Decode(&sd); err != nil {
			return nil, fmt.Errorf("decoding review for game %d: %w", gameID, err)
		}
		docs = append(docs, model.Document{
			Review:    sd.Review,
			CleanText: sd.CleanText,
			Language:  sd.Language,
			Processed: sd.Processed,
		})
	}
	return docs, cur.Err()
}

// Stats returns corpus-level aggregates computed server-side: document
// counts per label and per game.
func (s *MongoStore) Stats(ctx context.Context) (map[string]interface{}, error) {
	coll := s.client.Collection(reviewsCollection)

	byLabel, err := groupCounts(ctx, coll, "$label")
	if err != nil {
		return nil, fmt.Errorf("aggregating label counts: %w", err)
	}
	byGame, err := groupCounts(ctx, coll, "$game_id")
	if err != nil {
		return nil, fmt.Errorf("aggregating game counts: %w", err)
	}

	total, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("counting documents: %w", err)
	}

	return map[string]interface{}{
		"total_documents": total,
		"by_label":        byLabel,
		"by_game":         byGame,
	}, nil
}

func groupCounts(ctx context.Context, coll *mongo.Collection, key string) (map[string]int64, error) {
	cur, err := coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": key, "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]int64{}
	for cur.Next(ctx) {
		var row struct {
			ID    interface{} `bson:"_id"`
			Count int64       `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[fmt.Sprint(row.ID)] = row.Count
	}
	return out, cur.Err()
}

// Delete removes the stored state of the given games. No games means no-op.
func (s *MongoStore) Delete(ctx context.Context, gameIDs ...int64) error {
	if len(gameIDs) == 0 {
		return nil
	}
	filter := bson.M{"game_id": bson.M{"$in": gameIDs}}

	if _, err := s.client.Collection(reviewsCollection).DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("deleting reviews: %w", err)
	}
	if _, err := s.client.Collection(metadataCollection).DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("deleting metadata: %w", err)
	}
	return nil
}
