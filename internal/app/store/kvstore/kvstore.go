// internal/app/store/kvstore/kvstore.go
//
// Package kvstore is a small JSON document store over a single Mongo
// collection. Each key holds one JSON value (typically an array of
// entities) and writes are whole-value, last-write-wins. The center,
// child, and message stores sit on top of it until those datasets earn
// first-class collections.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the backing collection name.
const Collection = "devstore"

type document struct {
	Key       string    `bson:"_id"`
	Data      string    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Store reads and writes JSON values by key.
type Store struct {
	coll *mongo.Collection
}

// New returns a store over db's devstore collection.
func New(db *mongo.Database) *Store {
	return &Store{coll: db.Collection(Collection)}
}

// Load unmarshals the value at key into v. A missing key leaves v
// untouched and returns false.
func (s *Store) Load(ctx context.Context, key string, v any) (bool, error) {
	var doc document
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(doc.Data), v); err != nil {
		return false, err
	}
	return true, nil
}

// Save marshals v and replaces the value at key.
func (s *Store) Save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	doc := document{Key: key, Data: string(data), UpdatedAt: time.Now().UTC()}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc,
		options.Replace().SetUpsert(true))
	return err
}

// SaveIfAbsent writes v at key only when the key does not exist yet.
// Used to seed sample data without clobbering real records. Returns
// true when the seed was written.
func (s *Store) SaveIfAbsent(ctx context.Context, key string, v any) (bool, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return false, err
	}
	doc := document{Key: key, Data: string(data), UpdatedAt: time.Now().UTC()}
	_, err = s.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
