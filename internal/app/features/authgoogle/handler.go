// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/bridgeofhope/bridgehub/internal/app/store/oauthstate"
	"github.com/bridgeofhope/bridgehub/internal/app/store/users"
	"github.com/bridgeofhope/bridgehub/internal/app/system/auditlog"
	"github.com/bridgeofhope/bridgehub/internal/app/system/auth"
	"github.com/bridgeofhope/bridgehub/internal/app/system/timeouts"
)

// Handler implements sign-in with Google. Accounts still register
// through the normal form first; Google only replaces the password
// step for accounts whose auth method is "google".
type Handler struct {
	Users      *users.Store
	States     *oauthstate.Store
	SessionMgr *auth.SessionManager
	Log        *zap.Logger
	AuditLog   *auditlog.Logger

	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// IsConfigured reports whether Google sign-in is enabled.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
		},
		Endpoint: google.Endpoint,
	}
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// safeReturn keeps redirects on-site.
func safeReturn(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return "/dashboard"
	}
	return raw
}

// ServeLogin starts the OAuth flow by minting a state token and
// redirecting to Google's consent screen.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Google sign-in not configured")
		http.Redirect(w, r, "/login?error=google_not_configured", http.StatusSeeOther)
		return
	}
	state, err := generateState()
	if err != nil {
		h.Log.Error("oauth state generation failed", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	expires := time.Now().UTC().Add(10 * time.Minute)
	if err := h.States.Save(ctx, state, r.URL.Query().Get("return"), expires); err != nil {
		h.Log.Error("oauth state save failed", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, h.oauth2Config().AuthCodeURL(state), http.StatusTemporaryRedirect)
}

type googleUserInfo struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
}

func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}
	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return &info, nil
}

// ServeCallback finishes the flow: validates the state, exchanges the
// code, and signs the matching account in. Unknown emails are sent
// back to the login page; Google sign-in never creates accounts.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("Google sign-in denied", zap.String("error", errParam))
		http.Redirect(w, r, "/login?error=google_denied", http.StatusSeeOther)
		return
	}

	state := r.URL.Query().Get("state")
	shortCtx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()
	returnURL, valid, err := h.States.Consume(shortCtx, state)
	if err != nil {
		h.Log.Error("oauth state validation failed", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}
	if !valid {
		h.Log.Warn("invalid or expired oauth state")
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, "/login?error=invalid_code", http.StatusSeeOther)
		return
	}
	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("oauth code exchange failed", zap.Error(err))
		http.Redirect(w, r, "/login?error=token_exchange", http.StatusSeeOther)
		return
	}
	info, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("google userinfo fetch failed", zap.Error(err))
		http.Redirect(w, r, "/login?error=user_info", http.StatusSeeOther)
		return
	}
	if !info.EmailVerified {
		h.Log.Warn("google account email not verified", zap.String("email", info.Email))
		http.Redirect(w, r, "/login?error=email_unverified", http.StatusSeeOther)
		return
	}

	u, err := h.Users.GetByEmail(shortCtx, info.Email)
	if err != nil {
		h.Log.Error("user lookup failed", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}
	if u == nil || u.AuthMethod != "google" {
		h.AuditLog.LoginFailure(ctx, r, info.Email, "no google account")
		http.Redirect(w, r, "/login?error=no_account", http.StatusSeeOther)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.Log.Error("session save failed", zap.Error(err), zap.String("email", u.Email))
		http.Redirect(w, r, "/login?error=session", http.StatusSeeOther)
		return
	}
	h.AuditLog.LoginSuccess(ctx, r, u)
	h.Log.Info("user signed in via Google", zap.String("email", u.Email))

	http.Redirect(w, r, safeReturn(returnURL), http.StatusSeeOther)
}
