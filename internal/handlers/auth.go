package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/repolens/repolens/internal/github"
	"github.com/repolens/repolens/internal/metrics"
	"github.com/repolens/repolens/internal/middleware"
	"github.com/repolens/repolens/internal/services"
	"github.com/repolens/repolens/internal/token"
	"github.com/repolens/repolens/internal/util"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	sessionKeyState   = "oauth_state"
	sessionKeyStateAt = "oauth_state_at"

	stateLength = 32
)

// AuthHandler drives the GitHub OAuth login flow and session credential
// endpoints
type AuthHandler struct {
	oauth    *github.OAuthClient
	users    *services.UserService
	tokens   *token.Service
	metrics  metrics.Recorder
	stateTTL time.Duration
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	oauth *github.OAuthClient,
	users *services.UserService,
	tokens *token.Service,
	recorder metrics.Recorder,
	stateTTL time.Duration,
) *AuthHandler {
	return &AuthHandler{
		oauth:    oauth,
		users:    users,
		tokens:   tokens,
		metrics:  recorder,
		stateTTL: stateTTL,
	}
}

// Login generates a CSRF state nonce, stores it in the cookie session, and
// redirects the browser to GitHub's authorization page.
func (h *AuthHandler) Login(c *gin.Context) {
	state, err := util.RandomHex(stateLength)
	if err != nil {
		log.Printf("[Auth] Failed to generate state nonce: %v", err)
		respondError(c, http.StatusInternalServerError, "internal_error", "Failed to start login")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionKeyState, state)
	session.Set(sessionKeyStateAt, time.Now().Unix())
	if err := session.Save(); err != nil {
		log.Printf("[Auth] Failed to save state session: %v", err)
		respondError(c, http.StatusInternalServerError, "internal_error", "Failed to start login")
		return
	}

	h.metrics.RecordOAuthLogin()
	c.Redirect(http.StatusFound, h.oauth.AuthorizationURL(state))
}

// Callback completes the authorization code flow. The state nonce is cleared
// unconditionally once compared, so a replayed callback always fails.
func (h *AuthHandler) Callback(c *gin.Context) {
	session := sessions.Default(c)
	storedState, _ := session.Get(sessionKeyState).(string)
	storedAt, _ := session.Get(sessionKeyStateAt).(int64)

	session.Delete(sessionKeyState)
	session.Delete(sessionKeyStateAt)
	if err := session.Save(); err != nil {
		log.Printf("[Auth] Failed to clear state session: %v", err)
	}

	returnedState := c.Query("state")
	if storedState == "" || returnedState == "" || storedState != returnedState {
		h.metrics.RecordOAuthCallback(false)
		respondError(c, http.StatusForbidden, "invalid_state", "State validation failed")
		return
	}
	if time.Since(time.Unix(storedAt, 0)) > h.stateTTL {
		h.metrics.RecordOAuthCallback(false)
		respondError(c, http.StatusForbidden, "invalid_state", "State validation failed")
		return
	}

	code := c.Query("code")
	if code == "" {
		h.metrics.RecordOAuthCallback(false)
		respondError(c, http.StatusBadRequest, "missing_code", "Authorization code is required")
		return
	}

	ctx := c.Request.Context()

	tokenData, err := h.oauth.ExchangeCode(ctx, code)
	if err != nil {
		log.Printf("[Auth] Code exchange failed: %v", err)
		h.metrics.RecordOAuthCallback(false)
		respondError(c, http.StatusInternalServerError, "authentication_failed", "Authentication failed")
		return
	}

	profile, err := h.oauth.FetchUser(ctx, tokenData.AccessToken)
	if err != nil {
		log.Printf("[Auth] Profile fetch failed: %v", err)
		h.metrics.RecordOAuthCallback(false)
		respondError(c, http.StatusInternalServerError, "authentication_failed", "Authentication failed")
		return
	}

	user, err := h.users.AuthenticateWithGitHub(ctx, profile, tokenData)
	if err != nil {
		log.Printf("[Auth] User upsert failed: %v", err)
		h.metrics.RecordOAuthCallback(false)
		respondError(c, http.StatusInternalServerError, "authentication_failed", "Authentication failed")
		return
	}

	signed, err := h.tokens.Sign(token.Claims{
		UserID:         user.ID,
		GitHubUsername: user.GitHubUsername,
		Role:           user.Role,
	})
	if err != nil {
		log.Printf("[Auth] Token signing failed: %v", err)
		h.metrics.RecordOAuthCallback(false)
		respondError(c, http.StatusInternalServerError, "authentication_failed", "Authentication failed")
		return
	}

	h.metrics.RecordTokenIssued()
	h.metrics.RecordOAuthCallback(true)

	respondOK(c, http.StatusOK, gin.H{
		"token": signed,
		"user": gin.H{
			"id":             user.ID,
			"githubUsername": user.GitHubUsername,
			"name":           user.Name,
			"avatarUrl":      user.AvatarURL,
		},
	})
}

// Me returns the authenticated caller's profile
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	user, err := h.users.GetUserByID(c.Request.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "not_found", "User not found")
			return
		}
		log.Printf("[Auth] Failed to load user %s: %v", identity.UserID, err)
		respondError(c, http.StatusInternalServerError, "internal_error", "Failed to load user")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"id":             user.ID,
		"email":          user.Email,
		"name":           user.Name,
		"avatarUrl":      user.AvatarURL,
		"githubUsername": user.GitHubUsername,
		"role":           user.Role,
		"lastLoginAt":    user.LastLoginAt,
		"createdAt":      user.CreatedAt,
	})
}

// Logout clears any state left in the cookie session. Credentials are
// stateless, so the client simply discards its token.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		log.Printf("[Auth] Failed to clear session: %v", err)
	}
	respondMessage(c, http.StatusOK, "Logged out successfully")
}
