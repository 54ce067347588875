// internal/testutil/http.go
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bridgeofhope/bridgehub/internal/app/system/auth"
	"github.com/bridgeofhope/bridgehub/internal/domain/models"
)

// JSONRequest builds a request with a JSON body.
func JSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// AsUser attaches u to the request context the way the session
// middleware would, bypassing the cookie round trip.
func AsUser(req *http.Request, u *models.User) *http.Request {
	su := &auth.SessionUser{
		ID:        u.ID,
		Email:     u.Email,
		Roles:     u.Roles,
		Approval:  u.Approval,
		SponsorID: u.SponsorID,
		CenterID:  u.CenterID,
	}
	return req.WithContext(auth.WithUser(req.Context(), su))
}

// DecodeJSON unmarshals a recorded response body.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}
