package handler

import (
	"errors"
	"log"
	"net/http"

	"nido/internal/middleware"
	"nido/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CheckoutHandler struct {
	checkout *service.CheckoutService
}

func NewCheckoutHandler(checkout *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// Create opens a Wompi checkout session for the caller's draft listing.
func (h *CheckoutHandler) Create(c *gin.Context) {
	session, err := h.checkout.CreateSession(c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
		case errors.Is(err, service.ErrNotListingOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "not your listing"})
		case errors.Is(err, service.ErrListingNotDraft):
			c.JSON(http.StatusConflict, gin.H{"error": "listing is not in draft"})
		default:
			log.Printf("[checkout] listing=%s: %v", c.Param("id"), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, session)
}
