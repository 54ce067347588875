// internal/app/system/validators/validators.go
//
// Package validators attaches JSON-schema validators to the app's
// collections so malformed documents are rejected at the database even
// when a bug slips past input validation.
package validators

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var userSchema = bson.M{
	"bsonType": "object",
	"required": []string{"email", "email_ci", "roles", "approval", "created_at"},
	"properties": bson.M{
		"email":    bson.M{"bsonType": "string"},
		"email_ci": bson.M{"bsonType": "string"},
		"roles": bson.M{
			"bsonType": "array",
			"items": bson.M{
				"enum": []string{"administrator", "missionary", "sponsor", "center"},
			},
		},
		"approval": bson.M{
			"enum": []string{"pending", "approved", "rejected"},
		},
		"sponsor_id": bson.M{"bsonType": "string", "pattern": "^[0-9]{8}$"},
		"child_id":   bson.M{"bsonType": "string", "pattern": "^[0-9]{10}$"},
		"center_id":  bson.M{"bsonType": "string", "pattern": "^[0-9]{8}$"},
	},
}

var auditSchema = bson.M{
	"bsonType": "object",
	"required": []string{"category", "event", "created_at"},
	"properties": bson.M{
		"category": bson.M{"enum": []string{"auth", "admin"}},
		"event":    bson.M{"bsonType": "string"},
	},
}

var devstoreSchema = bson.M{
	"bsonType": "object",
	"required": []string{"data"},
	"properties": bson.M{
		"data": bson.M{"bsonType": "string"},
	},
}

func setValidator(ctx context.Context, db *mongo.Database, coll string, schema bson.M) error {
	res := db.RunCommand(ctx, bson.D{
		{Key: "collMod", Value: coll},
		{Key: "validator", Value: bson.M{"$jsonSchema": schema}},
		{Key: "validationLevel", Value: "moderate"},
	})
	return res.Err()
}

func ensureCollection(ctx context.Context, db *mongo.Database, coll string) error {
	err := db.CreateCollection(ctx, coll)
	if err == nil {
		return nil
	}
	var cmdErr mongo.CommandError
	// 48 = NamespaceExists
	if errors.As(err, &cmdErr) && cmdErr.Code == 48 {
		return nil
	}
	return err
}

// EnsureAll creates the collections and applies their validators.
// Validator setup failures are logged and skipped rather than fatal,
// since hosted Mongo tiers sometimes disallow collMod.
func EnsureAll(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	schemas := []struct {
		coll   string
		schema bson.M
	}{
		{"users", userSchema},
		{"audit_events", auditSchema},
		{"devstore", devstoreSchema},
	}
	for _, s := range schemas {
		if err := ensureCollection(ctx, db, s.coll); err != nil {
			return fmt.Errorf("create collection %s: %w", s.coll, err)
		}
		if err := setValidator(ctx, db, s.coll, s.schema); err != nil {
			log.Warn("schema validator not applied",
				zap.String("collection", s.coll), zap.Error(err))
		}
	}
	return nil
}
