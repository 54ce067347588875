// internal/app/store/oauthstate/store.go
package oauthstate

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection holds in-flight OAuth state tokens.
const Collection = "oauth_states"

type stateDoc struct {
	State     string    `bson:"_id"`
	ReturnURL string    `bson:"return_url,omitempty"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// Store persists one-time OAuth state tokens so the callback can
// verify the flow started here, across instances.
type Store struct {
	coll *mongo.Collection
}

// New returns a store over db's oauth state collection.
func New(db *mongo.Database) *Store {
	return &Store{coll: db.Collection(Collection)}
}

// EnsureIndexes sets the TTL index that expires abandoned states.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return err
}

// Save records a state token with its return URL and expiry.
func (s *Store) Save(ctx context.Context, state, returnURL string, expiresAt time.Time) error {
	_, err := s.coll.InsertOne(ctx, stateDoc{
		State:     state,
		ReturnURL: returnURL,
		ExpiresAt: expiresAt,
	})
	return err
}

// Consume validates and deletes a state token in one step, so a token
// can never be replayed. Returns the stored return URL and whether the
// token was valid.
func (s *Store) Consume(ctx context.Context, state string) (string, bool, error) {
	var doc stateDoc
	err := s.coll.FindOneAndDelete(ctx, bson.M{"_id": state}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if time.Now().UTC().After(doc.ExpiresAt) {
		return "", false, nil
	}
	return doc.ReturnURL, true, nil
}
