package mongodb

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	apperrors "gestion-personas/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// kvDocument is the stored shape of one key
type kvDocument struct {
	Key       string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// KVStorage keeps each key as one document of a collection
type KVStorage struct {
	client     *mongo.Client
	collection *mongo.Collection
	closed     atomic.Bool
}

// Connect dials uri and returns a storage over database.collection
func Connect(ctx context.Context, uri, database, collection string) (*KVStorage, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return NewKVStorage(client, client.Database(database).Collection(collection)), nil
}

// NewKVStorage creates a storage over collection. The storage owns client
// and disconnects it on Close; client may be nil when the caller owns it.
func NewKVStorage(client *mongo.Client, collection *mongo.Collection) *KVStorage {
	return &KVStorage{client: client, collection: collection}
}

// Get implements repository.KeyValueStorage
func (s *KVStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.closed.Load() {
		return nil, false, apperrors.ErrStorageClosed
	}
	var doc kvDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if doc.Value == nil {
		doc.Value = []byte{}
	}
	return doc.Value, true, nil
}

// Set implements repository.KeyValueStorage
func (s *KVStorage) Set(ctx context.Context, key string, value []byte) error {
	if s.closed.Load() {
		return apperrors.ErrStorageClosed
	}
	if value == nil {
		value = []byte{}
	}
	doc := kvDocument{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	return err
}

// Ping implements repository.KeyValueStorage
func (s *KVStorage) Ping(ctx context.Context) error {
	if s.closed.Load() {
		return apperrors.ErrStorageClosed
	}
	return s.collection.Database().Client().Ping(ctx, readpref.Primary())
}

// Close implements repository.KeyValueStorage
func (s *KVStorage) Close() error {
	if s.closed.Swap(true) || s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
