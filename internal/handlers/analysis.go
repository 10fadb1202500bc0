package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/repolens/repolens/internal/middleware"
	"github.com/repolens/repolens/internal/services"

	"github.com/gin-gonic/gin"
)

// AnalysisHandler serves the analysis session API
type AnalysisHandler struct {
	analysis *services.AnalysisService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysis *services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysis}
}

type startSessionRequest struct {
	WorkflowType string `json:"workflowType"`
	CommitSHA    string `json:"commitSha"`
}

func (h *AnalysisHandler) StartSession(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req startSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid_request", "Malformed request body")
			return
		}
	}

	session, err := h.analysis.StartSession(c.Request.Context(),
		c.Param("id"), identity.UserID, identity.Role, req.WorkflowType, req.CommitSHA)
	if err != nil {
		if errors.Is(err, services.ErrUnknownWorkflow) {
			respondError(c, http.StatusBadRequest, "invalid_request", "Unknown workflow type")
			return
		}
		respondAnalysisError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, session)
}

func (h *AnalysisHandler) ListSessions(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	sessions, err := h.analysis.ListSessions(c.Request.Context(),
		c.Param("id"), identity.UserID, identity.Role)
	if err != nil {
		respondAnalysisError(c, err)
		return
	}

	respondOK(c, http.StatusOK, sessions)
}

func (h *AnalysisHandler) GetSession(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	session, err := h.analysis.GetOwnedSession(c.Request.Context(),
		c.Param("id"), identity.UserID, identity.Role)
	if err != nil {
		respondAnalysisError(c, err)
		return
	}

	respondOK(c, http.StatusOK, session)
}

func (h *AnalysisHandler) ListFindings(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	findings, err := h.analysis.ListFindings(c.Request.Context(),
		c.Param("id"), identity.UserID, identity.Role)
	if err != nil {
		respondAnalysisError(c, err)
		return
	}

	respondOK(c, http.StatusOK, findings)
}

func (h *AnalysisHandler) ListReports(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	reports, err := h.analysis.ListReports(c.Request.Context(),
		c.Param("id"), identity.UserID, identity.Role)
	if err != nil {
		respondAnalysisError(c, err)
		return
	}

	respondOK(c, http.StatusOK, reports)
}

// respondAnalysisError maps service errors onto API statuses. Ownership
// failures surface as 404 so ids are not enumerable.
func respondAnalysisError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrSessionNotOwned),
		errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrNotProjectOwner):
		respondError(c, http.StatusNotFound, "not_found", "Resource not found")
	default:
		log.Printf("[Analysis] Unexpected error: %v", err)
		respondError(c, http.StatusInternalServerError, "internal_error", "Failed to process request")
	}
}
