// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the audit event collection name.
const Collection = "audit_events"

// Event categories.
const (
	CategoryAuth  = "auth"
	CategoryAdmin = "admin"
)

// Event names recorded by the app.
const (
	EventLoginSuccess   = "login.success"
	EventLoginFailure   = "login.failure"
	EventLogout         = "logout"
	EventRegister       = "register"
	EventApprove        = "user.approve"
	EventReject         = "user.reject"
	EventRevokeRole     = "user.revoke_role"
	EventBootstrapAdmin = "user.bootstrap_admin"
	EventUserDelete     = "user.delete"
)

// Event is one audit record. ActorID and TargetID are hex object ids
// kept as strings so events survive user deletion.
type Event struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Category   string             `bson:"category"`
	Event      string             `bson:"event"`
	ActorID    string             `bson:"actor_id,omitempty"`
	ActorMail  string             `bson:"actor_email,omitempty"`
	TargetID   string             `bson:"target_id,omitempty"`
	TargetMail string             `bson:"target_email,omitempty"`
	Detail     string             `bson:"detail,omitempty"`
	ClientIP   string             `bson:"client_ip,omitempty"`
	CreatedAt  time.Time          `bson:"created_at"`
}

// Store persists audit events.
type Store struct {
	coll *mongo.Collection
}

// New returns a store over db's audit collection.
func New(db *mongo.Database) *Store {
	return &Store{coll: db.Collection(Collection)}
}

// EnsureIndexes creates the query indexes. Called once at startup.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "target_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}

// Insert writes one event, stamping CreatedAt when unset.
func (s *Store) Insert(ctx context.Context, ev *Event) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	_, err := s.coll.InsertOne(ctx, ev)
	return err
}

// QueryFilter narrows Query results. Zero fields match everything.
type QueryFilter struct {
	Category string
	Event    string
	TargetID string
	Since    time.Time
	Limit    int64
}

// Query returns matching events, newest first.
func (s *Store) Query(ctx context.Context, f QueryFilter) ([]Event, error) {
	q := bson.M{}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.Event != "" {
		q["event"] = f.Event
	}
	if f.TargetID != "" {
		q["target_id"] = f.TargetID
	}
	if !f.Since.IsZero() {
		q["created_at"] = bson.M{"$gte": f.Since}
	}
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := s.coll.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
