// internal/app/store/users/fetcher.go
package users

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bridgeofhope/bridgehub/internal/app/system/auth"
	"github.com/bridgeofhope/bridgehub/internal/domain/models"
)

// Fetcher implements auth.UserFetcher with a projected read, so every
// request sees the user's current roles and approval state without
// pulling the full document.
type Fetcher struct {
	store *Store
}

// NewFetcher wraps the store for session middleware use.
func NewFetcher(store *Store) *Fetcher { return &Fetcher{store: store} }

// FetchSessionUser loads the session view for a cookie's user id.
// Returns (nil, nil) for malformed ids and deleted users; the caller
// treats both as a signed-out request.
func (f *Fetcher) FetchSessionUser(ctx context.Context, userID string) (*auth.SessionUser, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}

	var doc struct {
		ID        primitive.ObjectID   `bson:"_id"`
		Email     string               `bson:"email"`
		Roles     models.RoleSet       `bson:"roles"`
		Approval  models.ApprovalState `bson:"approval"`
		SponsorID string               `bson:"sponsor_id"`
		CenterID  string               `bson:"center_id"`
	}
	opts := options.FindOne().SetProjection(bson.M{
		"email":      1,
		"roles":      1,
		"approval":   1,
		"sponsor_id": 1,
		"center_id":  1,
	})
	err = f.store.coll.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &auth.SessionUser{
		ID:        doc.ID,
		Email:     doc.Email,
		Roles:     doc.Roles,
		Approval:  doc.Approval,
		SponsorID: doc.SponsorID,
		CenterID:  doc.CenterID,
	}, nil
}
