package handler

import (
	"errors"
	"net/http"

	"nido/internal/domain"
	"nido/internal/middleware"
	"nido/internal/models"
	"nido/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type VerificationHandler struct {
	verificationRepo *repository.VerificationRepository
}

func NewVerificationHandler(verificationRepo *repository.VerificationRepository) *VerificationHandler {
	return &VerificationHandler{verificationRepo: verificationRepo}
}

type SubmitDocumentsRequest struct {
	DocumentType string `json:"document_type" binding:"required,oneof=cedula pasaporte cedula_extranjeria"`
	DocumentURL  string `json:"document_url" binding:"required,url"`
}

// SubmitDocuments moves the owner's verification to pending_review. The
// deadline set at hold start is kept: the sweeper only expires records still
// in pending_documents, so submitting stops the clock.
func (h *VerificationHandler) SubmitDocuments(c *gin.Context) {
	var req SubmitDocumentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := middleware.GetUserID(c)
	v, err := h.verificationRepo.LatestByUser(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
			return
		}
		v = &models.Verification{UserID: userID}
	}
	if v.Status == domain.VerificationVerified {
		c.JSON(http.StatusConflict, gin.H{"error": "already verified"})
		return
	}
	v.DocumentType = req.DocumentType
	v.DocumentURL = req.DocumentURL
	v.Status = domain.VerificationPendingReview
	if err := h.verificationRepo.Update(v); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save documents"})
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *VerificationHandler) GetStatus(c *gin.Context) {
	v, err := h.verificationRepo.LatestByUser(middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"status": nil})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, v)
}
