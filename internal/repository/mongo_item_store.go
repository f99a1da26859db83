package repository

import (
	"context"
	"fmt"

	"github.com/guttosm/stock-service/internal/domain/dto"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// itemDocument is the stored form of a record; position keeps catalog order.
type itemDocument struct {
	dto.ItemRecord `bson:",inline"`
	Position       int `bson:"position"`
}

// MongoItemStore stores item records in the items collection.
type MongoItemStore struct {
	collection *mongo.Collection
}

// NewMongoItemStore creates a store on the items collection of db.
func NewMongoItemStore(db *MongoDB) *MongoItemStore {
	return &MongoItemStore{
		collection: db.Items,
	}
}

// SaveItems replaces the collection content with records.
func (s *MongoItemStore) SaveItems(ctx context.Context, records []dto.ItemRecord) error {
	if _, err := s.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(records))
	for i, rec := range records {
		docs = append(docs, itemDocument{ItemRecord: rec, Position: i})
	}

	if _, err := s.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return fmt.Errorf("insert items: %w", err)
	}

	log.Debug().Int("records", len(records)).Msg("Saved items to MongoDB")
	return nil
}

// LoadItems returns all records sorted by their saved position.
func (s *MongoItemStore) LoadItems(ctx context.Context) ([]dto.ItemRecord, error) {
	cursor, err := s.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "position", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []itemDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	records := make([]dto.ItemRecord, 0, len(docs))
	for _, d := range docs {
		records = append(records, d.ItemRecord)
	}
	return records, nil
}
