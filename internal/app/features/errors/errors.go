// internal/app/features/errors/errors.go
//
// Package errors centralizes API error responses so every handler maps
// the same failure to the same status and shape.
package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/bridgeofhope/bridgehub/internal/app/system/approval"
	"github.com/bridgeofhope/bridgehub/internal/app/system/inputval"
)

// ErrorLogger writes JSON error responses and records the server-side
// cause.
type ErrorLogger struct {
	Log *zap.Logger
}

// New returns an ErrorLogger over log.
func New(log *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: log}
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body errorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// Write maps err to its HTTP status and body. The approval engine's
// taxonomy and input validation errors get stable mappings; anything
// else becomes a logged 500 with a generic body.
func (e *ErrorLogger) Write(w http.ResponseWriter, r *http.Request, err error) {
	var ve *inputval.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: ve.Message, Field: ve.Field})
	case errors.Is(err, approval.ErrSelfRevocation):
		writeJSON(w, http.StatusForbidden, errorBody{Error: approval.ErrSelfRevocation.Error()})
	case errors.Is(err, approval.ErrPermissionDenied):
		writeJSON(w, http.StatusForbidden, errorBody{Error: "not authorized"})
	case errors.Is(err, approval.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "user not found"})
	case errors.Is(err, approval.ErrStoreUnavailable):
		e.Log.Error("store unavailable", zap.String("path", r.URL.Path), zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "service temporarily unavailable"})
	default:
		e.Log.Error("unhandled request error", zap.String("path", r.URL.Path), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

// BadRequest writes a 400 with a caller-supplied message.
func (e *ErrorLogger) BadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}

// NotFound writes a 404.
func (e *ErrorLogger) NotFound(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "not found"
	}
	writeJSON(w, http.StatusNotFound, errorBody{Error: msg})
}

// Conflict writes a 409 with a caller-supplied message.
func (e *ErrorLogger) Conflict(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusConflict, errorBody{Error: msg})
}

// Forbidden writes a 403.
func (e *ErrorLogger) Forbidden(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "not authorized"
	}
	writeJSON(w, http.StatusForbidden, errorBody{Error: msg})
}

// StoreUnavailable logs the cause and writes the 503 used when a
// backing store cannot be reached.
func (e *ErrorLogger) StoreUnavailable(w http.ResponseWriter, r *http.Request, err error) {
	e.Log.Error("store unavailable", zap.String("path", r.URL.Path), zap.Error(err))
	writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "service temporarily unavailable"})
}

// JSON writes a success payload.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
