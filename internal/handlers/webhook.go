package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/repolens/repolens/internal/github"
	"github.com/repolens/repolens/internal/metrics"
	"github.com/repolens/repolens/internal/store"

	"github.com/gin-gonic/gin"
)

// WebhookHandler verifies and processes GitHub webhook deliveries
type WebhookHandler struct {
	store   *store.Store
	secret  string
	metrics metrics.Recorder
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(s *store.Store, secret string, recorder metrics.Recorder) *WebhookHandler {
	return &WebhookHandler{
		store:   s,
		secret:  secret,
		metrics: recorder,
	}
}

// Handle ingests a webhook delivery. The raw body is read before parsing
// because the signature covers the exact bytes GitHub sent.
func (h *WebhookHandler) Handle(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_payload", "Failed to read request body")
		return
	}

	signature := c.GetHeader("X-Hub-Signature-256")
	if !github.VerifyWebhookSignature(payload, signature, h.secret) {
		h.metrics.RecordWebhookEvent("unknown", "rejected")
		respondError(c, http.StatusUnauthorized, "invalid_signature", "Webhook signature verification failed")
		return
	}

	event := c.GetHeader("X-GitHub-Event")
	switch event {
	case "ping":
		h.metrics.RecordWebhookEvent(event, "ok")
		respondMessage(c, http.StatusOK, "pong")

	case "installation":
		h.handleInstallation(c, payload)

	default:
		h.metrics.RecordWebhookEvent(event, "ignored")
		respondMessage(c, http.StatusOK, "Event ignored")
	}
}

func (h *WebhookHandler) handleInstallation(c *gin.Context, payload []byte) {
	var event github.InstallationEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		h.metrics.RecordWebhookEvent("installation", "rejected")
		respondError(c, http.StatusBadRequest, "invalid_payload", "Malformed installation event")
		return
	}

	var err error
	switch event.Action {
	case "created", "unsuspend":
		_, err = h.store.UpsertInstallation(&event.Installation)
	case "suspend":
		err = h.store.SuspendInstallation(event.Installation.ID)
	case "deleted":
		err = h.store.DeleteInstallation(event.Installation.ID)
	default:
		h.metrics.RecordWebhookEvent("installation", "ignored")
		respondMessage(c, http.StatusOK, "Action ignored")
		return
	}

	// Acknowledge deliveries for installations we never recorded
	if errors.Is(err, store.ErrNotFound) {
		h.metrics.RecordWebhookEvent("installation", "ignored")
		respondMessage(c, http.StatusOK, "Installation unknown")
		return
	}
	if err != nil {
		log.Printf("[Webhook] Failed to apply installation %s for %d: %v",
			event.Action, event.Installation.ID, err)
		h.metrics.RecordWebhookEvent("installation", "error")
		respondError(c, http.StatusInternalServerError, "internal_error", "Failed to process event")
		return
	}

	h.metrics.RecordWebhookEvent("installation", "ok")
	respondMessage(c, http.StatusOK, "Installation "+event.Action)
}
