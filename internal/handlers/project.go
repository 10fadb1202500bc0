package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/repolens/repolens/internal/middleware"
	"github.com/repolens/repolens/internal/models"
	"github.com/repolens/repolens/internal/services"

	"github.com/gin-gonic/gin"
)

// ProjectHandler serves the project CRUD API
type ProjectHandler struct {
	projects *services.ProjectService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projects *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

type createProjectRequest struct {
	Name               string `json:"name" binding:"required"`
	Description        string `json:"description"`
	SourceType         string `json:"sourceType"`
	GitHubRepoURL      string `json:"githubRepoUrl"`
	GitHubRepoFullName string `json:"githubRepoFullName"`
	GitHubBranch       string `json:"githubBranch"`
}

type updateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Branch      *string `json:"githubBranch"`
}

func (h *ProjectHandler) Create(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "Project name is required")
		return
	}

	sourceType := req.SourceType
	if sourceType == "" {
		sourceType = models.ProjectSourceGitHub
	}

	project, err := h.projects.Create(c.Request.Context(), identity.UserID, services.ProjectInput{
		Name:               req.Name,
		Description:        req.Description,
		SourceType:         sourceType,
		GitHubRepoURL:      req.GitHubRepoURL,
		GitHubRepoFullName: req.GitHubRepoFullName,
		GitHubBranch:       req.GitHubBranch,
	})
	if err != nil {
		log.Printf("[Project] Failed to create project for user=%s: %v", identity.UserID, err)
		respondError(c, http.StatusInternalServerError, "internal_error", "Failed to create project")
		return
	}

	respondOK(c, http.StatusCreated, project)
}

func (h *ProjectHandler) List(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	projects, err := h.projects.ListByUser(c.Request.Context(), identity.UserID)
	if err != nil {
		log.Printf("[Project] Failed to list projects for user=%s: %v", identity.UserID, err)
		respondError(c, http.StatusInternalServerError, "internal_error", "Failed to list projects")
		return
	}

	respondOK(c, http.StatusOK, projects)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	project, err := h.projects.GetOwned(c.Request.Context(), c.Param("id"), identity.UserID, identity.Role)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	respondOK(c, http.StatusOK, project)
}

func (h *ProjectHandler) Update(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "Malformed request body")
		return
	}

	project, err := h.projects.Update(c.Request.Context(), c.Param("id"), identity.UserID, identity.Role,
		services.UpdateInput{
			Name:        req.Name,
			Description: req.Description,
			Branch:      req.Branch,
		})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	respondOK(c, http.StatusOK, project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	if err := h.projects.Delete(c.Request.Context(), c.Param("id"), identity.UserID, identity.Role); err != nil {
		respondProjectError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Project deleted")
}

// respondProjectError maps service errors onto API statuses. Ownership
// failures surface as 404 so project ids are not enumerable.
func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound), errors.Is(err, services.ErrNotProjectOwner):
		respondError(c, http.StatusNotFound, "not_found", "Project not found")
	default:
		log.Printf("[Project] Unexpected error: %v", err)
		respondError(c, http.StatusInternalServerError, "internal_error", "Failed to process request")
	}
}
