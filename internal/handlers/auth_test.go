package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/repolens/repolens/internal/cache"
	"github.com/repolens/repolens/internal/github"
	"github.com/repolens/repolens/internal/metrics"
	"github.com/repolens/repolens/internal/middleware"
	"github.com/repolens/repolens/internal/models"
	"github.com/repolens/repolens/internal/services"
	"github.com/repolens/repolens/internal/store"
	"github.com/repolens/repolens/internal/token"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider simulates GitHub's OAuth endpoints
type fakeProvider struct {
	server *httptest.Server

	failExchange bool
	denyCode     bool
	failProfile  bool
	profile      github.UserProfile
}

func newFakeProvider() *fakeProvider {
	p := &fakeProvider{
		profile: github.UserProfile{
			ID:        42,
			Login:     "alice",
			AvatarURL: "https://avatars.example/42",
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		if p.failExchange {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if p.denyCode {
			json.NewEncoder(w).Encode(map[string]string{"error": "bad_verification_code"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "gho_test_token",
			"token_type":   "bearer",
			"scope":        "",
		})
	})
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		if p.failProfile {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(p.profile)
	})

	p.server = httptest.NewServer(mux)
	return p
}

type authTestEnv struct {
	router   *gin.Engine
	store    *store.Store
	tokens   *token.Service
	provider *fakeProvider
}

func setupAuthEnv(t *testing.T) *authTestEnv {
	return setupAuthEnvWithStateTTL(t, 15*time.Minute)
}

func setupAuthEnvWithStateTTL(t *testing.T, stateTTL time.Duration) *authTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, err := store.New("sqlite", ":memory:")
	require.NoError(t, err)

	provider := newFakeProvider()
	t.Cleanup(provider.server.Close)

	oauth := github.NewOAuthClient(github.OAuthConfig{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		RedirectURL:  "http://localhost:8080/auth/github/callback",
		AuthURL:      provider.server.URL + "/login/oauth/authorize",
		TokenURL:     provider.server.URL + "/login/oauth/access_token",
		APIBaseURL:   provider.server.URL,
	})

	tokens, err := token.New("0123456789abcdef0123456789abcdef", "repolens-test", time.Hour)
	require.NoError(t, err)

	userCache := cache.NewMemoryCache[models.User](time.Minute)
	t.Cleanup(func() { userCache.Close() })
	users := services.NewUserService(s, userCache, time.Minute)

	handler := NewAuthHandler(oauth, users, tokens, metrics.NewNoopRecorder(), stateTTL)

	router := gin.New()
	router.Use(sessions.Sessions("repolens_session", cookie.NewStore([]byte("test-session-secret"))))
	router.GET("/auth/github", handler.Login)
	router.GET("/auth/github/callback", handler.Callback)
	router.GET("/auth/me", middleware.RequireAuth(tokens), handler.Me)
	router.POST("/auth/logout", handler.Logout)

	return &authTestEnv{
		router:   router,
		store:    s,
		tokens:   tokens,
		provider: provider,
	}
}

// beginLogin performs the login redirect and returns the state nonce along
// with the session cookies to carry into the callback
func beginLogin(t *testing.T, env *authTestEnv) (string, []*http.Cookie) {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/github", nil)
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")
	require.Len(t, state, 32)
	require.Equal(t, "test-client", location.Query().Get("client_id"))

	return state, w.Result().Cookies()
}

func callback(env *authTestEnv, rawQuery string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/github/callback?"+rawQuery, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	env.router.ServeHTTP(w, req)
	return w
}

func TestAuthFlow_HappyPath(t *testing.T) {
	env := setupAuthEnv(t)

	state, cookies := beginLogin(t, env)
	w := callback(env, "code=abc&state="+state, cookies)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Token string `json:"token"`
			User  struct {
				ID             string `json:"id"`
				GitHubUsername string `json:"githubUsername"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "alice", resp.Data.User.GitHubUsername)

	claims, err := env.tokens.Verify(resp.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.Data.User.ID, claims.UserID)
	assert.Equal(t, "alice", claims.GitHubUsername)
	assert.Equal(t, models.RoleUser, claims.Role)

	// Provider disclosed no email: the placeholder must be derived from the
	// GitHub identity
	stored, err := env.store.GetUserByGitHubID("42")
	require.NoError(t, err)
	assert.Equal(t, "42+alice@users.noreply.github.com", stored.Email)

	// Tokens and role never appear in the callback payload
	assert.NotContains(t, w.Body.String(), "gho_test_token")
	assert.NotContains(t, w.Body.String(), `"role"`)
}

func TestAuthCallback_StateMismatch(t *testing.T) {
	env := setupAuthEnv(t)

	_, cookies := beginLogin(t, env)
	w := callback(env, "code=abc&state=wrong-state", cookies)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_state")
}

func TestAuthCallback_NoSession(t *testing.T) {
	env := setupAuthEnv(t)

	w := callback(env, "code=abc&state=whatever", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthCallback_StaleState(t *testing.T) {
	// A negative TTL makes every stored nonce stale by the time the
	// callback arrives
	env := setupAuthEnvWithStateTTL(t, -time.Second)

	state, cookies := beginLogin(t, env)
	w := callback(env, "code=abc&state="+state, cookies)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_state")
}

func TestAuthCallback_MissingCode(t *testing.T) {
	env := setupAuthEnv(t)

	state, cookies := beginLogin(t, env)
	w := callback(env, "state="+state, cookies)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing_code")
}

func TestAuthCallback_StateIsSingleUse(t *testing.T) {
	env := setupAuthEnv(t)

	state, cookies := beginLogin(t, env)
	first := callback(env, "code=abc&state="+state, cookies)
	require.Equal(t, http.StatusOK, first.Code)

	// The state was cleared during the first callback; carry over the
	// refreshed session cookie and replay
	replayCookies := first.Result().Cookies()
	if len(replayCookies) == 0 {
		replayCookies = cookies
	}
	second := callback(env, "code=abc&state="+state, replayCookies)
	assert.Equal(t, http.StatusForbidden, second.Code)
}

func TestAuthCallback_ExchangeFailure(t *testing.T) {
	env := setupAuthEnv(t)
	env.provider.failExchange = true

	state, cookies := beginLogin(t, env)
	w := callback(env, "code=abc&state="+state, cookies)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Authentication failed")
	// Provider status detail must not leak to the client
	assert.NotContains(t, w.Body.String(), "500")
}

func TestAuthCallback_ProviderDeniesCode(t *testing.T) {
	env := setupAuthEnv(t)
	env.provider.denyCode = true

	state, cookies := beginLogin(t, env)
	w := callback(env, "code=expired&state="+state, cookies)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Authentication failed")
}

func TestAuthCallback_ProfileFetchFailure(t *testing.T) {
	env := setupAuthEnv(t)
	env.provider.failProfile = true

	state, cookies := beginLogin(t, env)
	w := callback(env, "code=abc&state="+state, cookies)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Authentication failed")
}

func TestAuthMe(t *testing.T) {
	env := setupAuthEnv(t)

	state, cookies := beginLogin(t, env)
	w := callback(env, "code=abc&state="+state, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	me := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Data.Token)
	env.router.ServeHTTP(me, req)

	require.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), "42+alice@users.noreply.github.com")
	assert.Contains(t, me.Body.String(), `"role":"user"`)
}

func TestAuthMe_Unauthenticated(t *testing.T) {
	env := setupAuthEnv(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMe_UserDeleted(t *testing.T) {
	env := setupAuthEnv(t)

	signed, err := env.tokens.Sign(token.Claims{UserID: "gone", GitHubUsername: "ghost", Role: "user"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthLogout(t *testing.T) {
	env := setupAuthEnv(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Logged out successfully")
}
