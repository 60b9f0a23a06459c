package models

import (
	"time"

	"gorm.io/gorm"
)

// Listing is a property ad. The ID is a uuid v4 string; its first 8 characters
// are embedded in the Wompi payment reference and used to resolve the listing
// when the confirmation webhook arrives.
type Listing struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	OwnerID      uint           `gorm:"not null;index" json:"owner_id"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	PropertyType string         `gorm:"size:30;not null" json:"property_type"` // casa, apartamento, lote, finca, local
	OfferType    string         `gorm:"size:10;not null" json:"offer_type"`    // sale | rent
	PriceCents   int64          `gorm:"not null" json:"price_cents"`
	Neighborhood string         `gorm:"size:120" json:"neighborhood"`
	Address      string         `gorm:"size:255" json:"address"`
	Bedrooms     int            `json:"bedrooms"`
	Bathrooms    int            `json:"bathrooms"`
	AreaM2       float64        `json:"area_m2"`
	PhotoURLs    string         `gorm:"type:text" json:"photo_urls"` // JSON array of URLs
	Status       string         `gorm:"size:20;not null;index;default:'draft'" json:"status"`
	PublishedAt  *time.Time     `json:"published_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}

func (Listing) TableName() string {
	return "listings"
}
