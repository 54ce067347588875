// internal/app/features/health/handler.go
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/bridgeofhope/bridgehub/internal/app/system/timeouts"
)

// Handler serves liveness and readiness probes.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Time     string `json:"time"`
}

// ServeHealth reports process liveness plus database reachability. The
// endpoint stays 200 with database "down" when Mongo is unreachable so
// load balancers keep the instance while operators see the problem.
func (h *Handler) ServeHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:   "ok",
		Database: "ok",
		Time:     time.Now().UTC().Format(time.RFC3339),
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()
	if err := h.DB.Client().Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Warn("health check: database unreachable", zap.Error(err))
		resp.Database = "down"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
