// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/bridgeofhope/bridgehub/internal/app/store/audit"
	"github.com/bridgeofhope/bridgehub/internal/app/store/centerdir"
	"github.com/bridgeofhope/bridgehub/internal/app/store/children"
	"github.com/bridgeofhope/bridgehub/internal/app/store/kvstore"
	"github.com/bridgeofhope/bridgehub/internal/app/store/messages"
	"github.com/bridgeofhope/bridgehub/internal/app/store/oauthstate"
	"github.com/bridgeofhope/bridgehub/internal/app/store/users"
	"github.com/bridgeofhope/bridgehub/internal/app/system/timeouts"
	"github.com/bridgeofhope/bridgehub/internal/app/system/validators"
)

// ConnectDB establishes the MongoDB connection and builds the stores.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(appCfg.MongoDatabase)
	kv := kvstore.New(db)

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: db,
		Users:         users.New(db),
		Audit:         audit.New(db),
		OAuthStates:   oauthstate.New(db),
		KV:            kv,
		Centers:       centerdir.New(kv),
		Children:      children.New(kv),
		Messages:      messages.New(kv),
	}, nil
}

// EnsureSchema creates collections, JSON-schema validators, and
// indexes. Runs once at startup before the handler is built.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	schemaCtx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	if err := validators.EnsureAll(schemaCtx, deps.MongoDatabase, logger); err != nil {
		return fmt.Errorf("ensure collections: %w", err)
	}
	if err := deps.Users.EnsureIndexes(schemaCtx); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	if err := deps.Audit.EnsureIndexes(schemaCtx); err != nil {
		return fmt.Errorf("audit indexes: %w", err)
	}
	if err := deps.OAuthStates.EnsureIndexes(schemaCtx); err != nil {
		return fmt.Errorf("oauth state indexes: %w", err)
	}
	return nil
}
