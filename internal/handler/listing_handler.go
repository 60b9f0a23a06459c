package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"nido/internal/domain"
	"nido/internal/middleware"
	"nido/internal/models"
	"nido/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListingHandler struct {
	listingRepo *repository.ListingRepository
}

func NewListingHandler(listingRepo *repository.ListingRepository) *ListingHandler {
	return &ListingHandler{listingRepo: listingRepo}
}

type CreateListingRequest struct {
	Title        string   `json:"title" binding:"required,max=255"`
	Description  string   `json:"description"`
	PropertyType string   `json:"property_type" binding:"required,oneof=casa apartamento lote finca local"`
	OfferType    string   `json:"offer_type" binding:"required,oneof=sale rent"`
	PriceCents   int64    `json:"price_cents" binding:"required,gt=0"`
	Neighborhood string   `json:"neighborhood"`
	Address      string   `json:"address"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    int      `json:"bathrooms"`
	AreaM2       float64  `json:"area_m2"`
	PhotoURLs    []string `json:"photo_urls"`
}

// Create stores a new draft. The uuid assigned here is what the payment
// reference prefix will later resolve against.
func (h *ListingHandler) Create(c *gin.Context) {
	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	photos, _ := json.Marshal(req.PhotoURLs)
	l := &models.Listing{
		ID:           uuid.New().String(),
		OwnerID:      middleware.GetUserID(c),
		Title:        req.Title,
		Description:  req.Description,
		PropertyType: req.PropertyType,
		OfferType:    req.OfferType,
		PriceCents:   req.PriceCents,
		Neighborhood: req.Neighborhood,
		Address:      req.Address,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		AreaM2:       req.AreaM2,
		PhotoURLs:    string(photos),
		Status:       domain.ListingDraft,
	}
	if err := h.listingRepo.Create(l); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create listing"})
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (h *ListingHandler) ListMine(c *gin.Context) {
	list, err := h.listingRepo.ListByOwner(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": list})
}

// Get returns a listing. Non-published listings are only visible to their
// owner.
func (h *ListingHandler) Get(c *gin.Context) {
	l, err := h.listingRepo.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if l.Status != domain.ListingPublished && l.OwnerID != middleware.GetUserID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *ListingHandler) ListPublished(c *gin.Context) {
	list, err := h.listingRepo.ListByStatus(domain.ListingPublished, 50, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": list})
}
