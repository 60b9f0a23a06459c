package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"nido/config"
	"nido/internal/models"
	"nido/internal/repository"
	"nido/internal/service"
	"nido/pkg/wompi"

	"github.com/gin-gonic/gin"
)

// TransactionVerifier re-fetches a transaction from the Wompi API.
type TransactionVerifier interface {
	GetTransaction(ctx context.Context, id string) (*wompi.Transaction, error)
}

// WompiWebhookHandler receives Wompi's asynchronous payment events. Wompi
// retries until it gets a 2xx, so every recognized-but-irrelevant event is
// acknowledged with 200 and only malformed payloads or infrastructure
// failures are surfaced as errors.
type WompiWebhookHandler struct {
	lifecycle *service.LifecycleService
	auditRepo *repository.AuditLogRepository
	verifier  TransactionVerifier
	cfg       *config.Config
}

func NewWompiWebhookHandler(lifecycle *service.LifecycleService, auditRepo *repository.AuditLogRepository, verifier TransactionVerifier, cfg *config.Config) *WompiWebhookHandler {
	return &WompiWebhookHandler{lifecycle: lifecycle, auditRepo: auditRepo, verifier: verifier, cfg: cfg}
}

func (h *WompiWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid body"})
		return
	}
	var event wompi.Event
	if err := json.Unmarshal(body, &event); err != nil {
		log.Printf("[wompi webhook] unmarshal: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid json"})
		return
	}
	if h.cfg.Wompi.EventsSecret != "" && !event.ValidChecksum(h.cfg.Wompi.EventsSecret) {
		log.Printf("[wompi webhook] checksum mismatch for event %s tx=%s", event.Event, event.Data.Transaction.ID)
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid checksum"})
		return
	}
	if event.Event != wompi.EventTransactionUpdated {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "event ignored"})
		return
	}
	tx := event.Data.Transaction
	if tx.ID == "" || tx.Reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "missing transaction"})
		return
	}
	if tx.Status != wompi.StatusApproved {
		// Declined, pending and voided transactions change nothing here.
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "status ignored"})
		return
	}
	// Without the checksum gate anyone can post an approved-looking event, so
	// the transaction is re-checked against the Wompi API before acting on it.
	// A fetch failure gets a 5xx so Wompi redelivers once the API is back.
	if h.cfg.Wompi.EventsSecret == "" && h.verifier != nil {
		remote, err := h.verifier.GetTransaction(c.Request.Context(), tx.ID)
		if err != nil {
			log.Printf("[wompi webhook] verify tx=%s: %v", tx.ID, err)
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "transaction verification unavailable"})
			return
		}
		if remote.Status != wompi.StatusApproved || remote.Reference != tx.Reference {
			log.Printf("[wompi webhook] tx=%s not confirmed by gateway (status=%s reference=%s)", tx.ID, remote.Status, remote.Reference)
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "transaction not confirmed"})
			return
		}
	}

	result, err := h.lifecycle.HandleApprovedTransaction(tx.ID, tx.Reference)
	if err != nil {
		if errors.Is(err, service.ErrNoMatchingDraft) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "no draft listing for reference", "reference": tx.Reference})
			return
		}
		log.Printf("[wompi webhook] tx=%s ref=%s: %v", tx.ID, tx.Reference, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "processing failed"})
		return
	}

	_ = h.auditRepo.Create(&models.AuditLog{
		Action:     "payment_approved",
		Resource:   "listing",
		ResourceID: result.ListingID,
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		Metadata:   `{"transaction_id":"` + tx.ID + `","reference":"` + tx.Reference + `"}`,
	})
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "listing transitioned",
		"listing_id": result.ListingID,
		"status":     result.Status,
	})
}
