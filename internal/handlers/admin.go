package handlers

import (
	"log"
	"net/http"

	"github.com/repolens/repolens/internal/services"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves administrative endpoints
type AdminHandler struct {
	users *services.UserService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(users *services.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

// ListUsers returns every registered user. Provider tokens never leave the
// database layer through this endpoint.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		log.Printf("[Admin] Failed to list users: %v", err)
		respondError(c, http.StatusInternalServerError, "internal_error", "Failed to list users")
		return
	}

	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{
			"id":             u.ID,
			"email":          u.Email,
			"name":           u.Name,
			"githubUsername": u.GitHubUsername,
			"role":           u.Role,
			"isActive":       u.IsActive,
			"lastLoginAt":    u.LastLoginAt,
			"createdAt":      u.CreatedAt,
		})
	}

	respondOK(c, http.StatusOK, out)
}
