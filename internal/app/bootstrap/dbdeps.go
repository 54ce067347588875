// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bridgeofhope/bridgehub/internal/app/store/audit"
	"github.com/bridgeofhope/bridgehub/internal/app/store/centerdir"
	"github.com/bridgeofhope/bridgehub/internal/app/store/children"
	"github.com/bridgeofhope/bridgehub/internal/app/store/kvstore"
	"github.com/bridgeofhope/bridgehub/internal/app/store/messages"
	"github.com/bridgeofhope/bridgehub/internal/app/store/oauthstate"
	"github.com/bridgeofhope/bridgehub/internal/app/store/users"
)

// DBDeps holds database and store dependencies for the app. Built once
// in ConnectDB and handed to every later lifecycle hook.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Users       *users.Store
	Audit       *audit.Store
	OAuthStates *oauthstate.Store

	KV       *kvstore.Store
	Centers  *centerdir.Store
	Children *children.Store
	Messages *messages.Store
}
