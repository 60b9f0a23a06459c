package handler

import (
	"log"
	"net/http"
	"strconv"

	"nido/internal/domain"
	"nido/internal/middleware"
	"nido/internal/models"
	"nido/internal/repository"

	"github.com/gin-gonic/gin"
)

// AdminHandler is the review panel: pending verifications and held listings.
// Approving a held listing is the manual counterpart of the webhook's instant
// publish and uses the same conditional transition.
type AdminHandler struct {
	verificationRepo *repository.VerificationRepository
	listingRepo      *repository.ListingRepository
	auditRepo        *repository.AuditLogRepository
}

func NewAdminHandler(verificationRepo *repository.VerificationRepository, listingRepo *repository.ListingRepository, auditRepo *repository.AuditLogRepository) *AdminHandler {
	return &AdminHandler{verificationRepo: verificationRepo, listingRepo: listingRepo, auditRepo: auditRepo}
}

func (h *AdminHandler) ListPendingVerifications(c *gin.Context) {
	list, err := h.verificationRepo.ListByStatus(domain.VerificationPendingReview, 100, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"verifications": list})
}

type ReviewVerificationRequest struct {
	ID     uint   `json:"id" binding:"required"`
	Status string `json:"status" binding:"required,oneof=verified rejected"`
	Reason string `json:"reason"`
}

func (h *AdminHandler) ReviewVerification(c *gin.Context) {
	var req ReviewVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reviewerID := middleware.GetUserID(c)
	if err := h.verificationRepo.SetReviewed(req.ID, req.Status, reviewerID, req.Reason); err != nil {
		log.Printf("[admin] review verification=%d: %v", req.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "review failed"})
		return
	}
	h.audit(c, "verification_"+req.Status, "verification", strconv.FormatUint(uint64(req.ID), 10))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AdminHandler) ListHeldListings(c *gin.Context) {
	list, err := h.listingRepo.ListByStatus(domain.ListingInReview, 100, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": list})
}

type ReviewListingRequest struct {
	Approve bool `json:"approve"`
}

// ReviewListing publishes or rejects an in_review listing. The conditional
// transition makes a double-submitted review a no-op.
func (h *AdminHandler) ReviewListing(c *gin.Context) {
	var req ReviewListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	to := domain.ListingRejected
	action := "listing_rejected"
	if req.Approve {
		to = domain.ListingPublished
		action = "listing_approved"
	}
	id := c.Param("id")
	ok, err := h.listingRepo.TransitionStatus(id, domain.ListingInReview, to)
	if err != nil {
		log.Printf("[admin] review listing=%s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "review failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "listing is not in review"})
		return
	}
	h.audit(c, action, "listing", id)
	c.JSON(http.StatusOK, gin.H{"success": true, "status": to})
}

func (h *AdminHandler) audit(c *gin.Context, action, resource, resourceID string) {
	adminID := middleware.GetUserID(c)
	_ = h.auditRepo.Create(&models.AuditLog{
		UserID:     &adminID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})
}
