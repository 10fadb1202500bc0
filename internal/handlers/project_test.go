package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/repolens/repolens/internal/middleware"
	"github.com/repolens/repolens/internal/models"
	"github.com/repolens/repolens/internal/services"
	"github.com/repolens/repolens/internal/store"
	"github.com/repolens/repolens/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiTestEnv struct {
	router *gin.Engine
	store  *store.Store
	tokens *token.Service
}

func setupAPIEnv(t *testing.T) *apiTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, err := store.New("sqlite", ":memory:")
	require.NoError(t, err)

	tokens, err := token.New("0123456789abcdef0123456789abcdef", "repolens-test", time.Hour)
	require.NoError(t, err)

	projects := services.NewProjectService(s)
	analysis := services.NewAnalysisService(s, projects)

	projectHandler := NewProjectHandler(projects)
	analysisHandler := NewAnalysisHandler(analysis)

	router := gin.New()
	api := router.Group("/api", middleware.RequireAuth(tokens))
	{
		api.POST("/projects", projectHandler.Create)
		api.GET("/projects", projectHandler.List)
		api.GET("/projects/:id", projectHandler.Get)
		api.PATCH("/projects/:id", projectHandler.Update)
		api.DELETE("/projects/:id", projectHandler.Delete)
		api.POST("/projects/:id/sessions", analysisHandler.StartSession)
		api.GET("/projects/:id/sessions", analysisHandler.ListSessions)
		api.GET("/sessions/:id", analysisHandler.GetSession)
		api.GET("/sessions/:id/findings", analysisHandler.ListFindings)
		api.GET("/sessions/:id/reports", analysisHandler.ListReports)
	}

	return &apiTestEnv{router: router, store: s, tokens: tokens}
}

// newUserToken stores a user row and returns a bearer token for it
func newUserToken(t *testing.T, env *apiTestEnv, id, login, role string) string {
	t.Helper()

	require.NoError(t, env.store.CreateUser(&models.User{
		ID:             id,
		Email:          id + "@example.com",
		GitHubID:       "gh-" + id,
		GitHubUsername: login,
		Role:           role,
		IsActive:       true,
	}))

	signed, err := env.tokens.Sign(token.Claims{UserID: id, GitHubUsername: login, Role: role})
	require.NoError(t, err)
	return signed
}

func doJSON(env *apiTestEnv, method, path, bearer string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	env.router.ServeHTTP(w, req)
	return w
}

func createProject(t *testing.T, env *apiTestEnv, bearer, name string) string {
	t.Helper()

	w := doJSON(env, http.MethodPost, "/api/projects", bearer, gin.H{
		"name":          name,
		"githubRepoUrl": "https://github.com/alice/" + name,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data models.Project `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data.ID
}

func TestProjectCreate(t *testing.T) {
	env := setupAPIEnv(t)
	bearer := newUserToken(t, env, "user-1", "alice", models.RoleUser)

	w := doJSON(env, http.MethodPost, "/api/projects", bearer, gin.H{"name": "demo"})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data models.Project `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "demo", resp.Data.Name)
	assert.Equal(t, "user-1", resp.Data.UserID)
	assert.Equal(t, models.ProjectStatusPending, resp.Data.Status)
	assert.Equal(t, "main", resp.Data.GitHubBranch)
}

func TestProjectCreate_RequiresName(t *testing.T) {
	env := setupAPIEnv(t)
	bearer := newUserToken(t, env, "user-1", "alice", models.RoleUser)

	w := doJSON(env, http.MethodPost, "/api/projects", bearer, gin.H{"description": "no name"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjectCreate_RequiresAuth(t *testing.T) {
	env := setupAPIEnv(t)

	w := doJSON(env, http.MethodPost, "/api/projects", "", gin.H{"name": "demo"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProjectList_OnlyOwn(t *testing.T) {
	env := setupAPIEnv(t)
	alice := newUserToken(t, env, "user-1", "alice", models.RoleUser)
	bob := newUserToken(t, env, "user-2", "bob", models.RoleUser)

	createProject(t, env, alice, "alpha")
	createProject(t, env, bob, "beta")

	w := doJSON(env, http.MethodGet, "/api/projects", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.Project `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "alpha", resp.Data[0].Name)
}

func TestProjectGet_OtherOwnerIs404(t *testing.T) {
	env := setupAPIEnv(t)
	alice := newUserToken(t, env, "user-1", "alice", models.RoleUser)
	bob := newUserToken(t, env, "user-2", "bob", models.RoleUser)

	id := createProject(t, env, alice, "alpha")

	w := doJSON(env, http.MethodGet, "/api/projects/"+id, bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectGet_AdminMayReadAny(t *testing.T) {
	env := setupAPIEnv(t)
	alice := newUserToken(t, env, "user-1", "alice", models.RoleUser)
	admin := newUserToken(t, env, "admin-1", "root", models.RoleAdmin)

	id := createProject(t, env, alice, "alpha")

	w := doJSON(env, http.MethodGet, "/api/projects/"+id, admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProjectUpdate(t *testing.T) {
	env := setupAPIEnv(t)
	alice := newUserToken(t, env, "user-1", "alice", models.RoleUser)

	id := createProject(t, env, alice, "alpha")

	w := doJSON(env, http.MethodPatch, "/api/projects/"+id, alice, gin.H{
		"name":         "renamed",
		"githubBranch": "develop",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data models.Project `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "renamed", resp.Data.Name)
	assert.Equal(t, "develop", resp.Data.GitHubBranch)
}

func TestProjectDelete(t *testing.T) {
	env := setupAPIEnv(t)
	alice := newUserToken(t, env, "user-1", "alice", models.RoleUser)

	id := createProject(t, env, alice, "alpha")

	w := doJSON(env, http.MethodDelete, "/api/projects/"+id, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(env, http.MethodGet, "/api/projects/"+id, alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalysisSessionLifecycle(t *testing.T) {
	env := setupAPIEnv(t)
	alice := newUserToken(t, env, "user-1", "alice", models.RoleUser)

	projectID := createProject(t, env, alice, "alpha")

	w := doJSON(env, http.MethodPost, "/api/projects/"+projectID+"/sessions", alice, gin.H{
		"workflowType": "security_only",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data models.AnalysisSession `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, models.AnalysisStatusQueued, created.Data.Status)
	assert.Equal(t, models.WorkflowSecurityOnly, created.Data.WorkflowType)

	w = doJSON(env, http.MethodGet, "/api/projects/"+projectID+"/sessions", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(env, http.MethodGet, "/api/sessions/"+created.Data.ID, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(env, http.MethodGet, "/api/sessions/"+created.Data.ID+"/findings", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(env, http.MethodGet, "/api/sessions/"+created.Data.ID+"/reports", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAnalysisSession_UnknownWorkflow(t *testing.T) {
	env := setupAPIEnv(t)
	alice := newUserToken(t, env, "user-1", "alice", models.RoleUser)

	projectID := createProject(t, env, alice, "alpha")

	w := doJSON(env, http.MethodPost, "/api/projects/"+projectID+"/sessions", alice, gin.H{
		"workflowType": "does_not_exist",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalysisSession_OtherOwnerIs404(t *testing.T) {
	env := setupAPIEnv(t)
	alice := newUserToken(t, env, "user-1", "alice", models.RoleUser)
	bob := newUserToken(t, env, "user-2", "bob", models.RoleUser)

	projectID := createProject(t, env, alice, "alpha")

	w := doJSON(env, http.MethodPost, "/api/projects/"+projectID+"/sessions", alice, gin.H{})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data models.AnalysisSession `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(env, http.MethodGet, "/api/sessions/"+created.Data.ID, bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
