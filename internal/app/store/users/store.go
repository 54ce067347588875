// internal/app/store/users/store.go
package users

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bridgeofhope/bridgehub/internal/app/system/normalize"
	"github.com/bridgeofhope/bridgehub/internal/domain/models"
)

// Collection is the user directory collection name.
const Collection = "users"

// ErrDuplicateEmail is returned by Insert when the email is already
// registered.
var ErrDuplicateEmail = errors.New("email already registered")

// Store is the user directory. It satisfies the approval engine's
// Directory interface; approval fields are written only through the
// engine.
type Store struct {
	coll *mongo.Collection
}

// New returns a store over db's user collection.
func New(db *mongo.Database) *Store {
	return &Store{coll: db.Collection(Collection)}
}

// EnsureIndexes creates the unique email index and the list-query
// indexes. Called once at startup.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email_ci", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "roles", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "approval", Value: 1}, {Key: "created_at", Value: 1}}},
	})
	return err
}

// Insert stores a new registration. The caller provides Email, Roles,
// auth fields, and role attributes; the store stamps the folded email,
// pending approval, and timestamps.
func (s *Store) Insert(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	u.EmailCI = normalize.EmailCI(u.Email)
	u.Approval = models.ApprovalPending
	u.ApprovedBy = nil
	u.ApprovedAt = nil
	u.CreatedAt = now
	u.UpdatedAt = now

	res, err := s.coll.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

// GetByID returns the user, or (nil, nil) when absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks a user up case-insensitively, or (nil, nil) when
// absent.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.coll.FindOne(ctx, bson.M{"email_ci": normalize.EmailCI(email)}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListByRole returns users holding role, oldest registration first. A
// zero role lists everyone, which backs the all-users admin page.
func (s *Store) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	filter := bson.M{}
	if role != "" {
		filter["roles"] = role
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetDecision writes the approval state and its stamp fields in one
// update. Only the approval engine calls this.
func (s *Store) SetDecision(ctx context.Context, id primitive.ObjectID, state models.ApprovalState, by *primitive.ObjectID, at *time.Time) error {
	set := bson.M{
		"approval":   state,
		"updated_at": time.Now().UTC(),
	}
	unset := bson.M{}
	if by != nil {
		set["approved_by"] = *by
	} else {
		unset["approved_by"] = ""
	}
	if at != nil {
		set["approved_at"] = *at
	} else {
		unset["approved_at"] = ""
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	res, err := s.coll.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// GrantRole adds role to the user's set if absent.
func (s *Store) GrantRole(ctx context.Context, id primitive.ObjectID, role models.Role) error {
	res, err := s.coll.UpdateByID(ctx, id, bson.M{
		"$addToSet": bson.M{"roles": role},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ClearRole removes role from the user's set.
func (s *Store) ClearRole(ctx context.Context, id primitive.ObjectID, role models.Role) error {
	res, err := s.coll.UpdateByID(ctx, id, bson.M{
		"$pull": bson.M{"roles": role},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// CountApprovedAdministrators backs the bootstrap precondition.
func (s *Store) CountApprovedAdministrators(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{
		"roles":    models.RoleAdministrator,
		"approval": models.ApprovalApproved,
	})
}

// CountByRole counts users holding role with the given approval state.
// Backs the administrator dashboard tiles.
func (s *Store) CountByRole(ctx context.Context, role models.Role, state models.ApprovalState) (int64, error) {
	filter := bson.M{"approval": state}
	if role != "" {
		filter["roles"] = role
	}
	return s.coll.CountDocuments(ctx, filter)
}

// CenterAttrs are the editable center-role attributes.
type CenterAttrs struct {
	CenterName string
	CenterID   string
}

// UpdateCenterAttrs sets the center name and id on a center-role user.
func (s *Store) UpdateCenterAttrs(ctx context.Context, id primitive.ObjectID, attrs CenterAttrs) error {
	res, err := s.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"center_name": attrs.CenterName,
		"center_id":   attrs.CenterID,
		"updated_at":  time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a user entirely. Used by the pending-approvals page
// to discard registrations that will never be approved.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
