package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment is created at checkout, before redirecting to Wompi. Reference is
// echoed back by the gateway on the webhook; WompiTransactionID is stamped
// when the confirmation arrives.
type Payment struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	ListingID          string         `gorm:"size:36;not null;index" json:"listing_id"`
	UserID             uint           `gorm:"not null;index" json:"user_id"`
	AmountCents        int64          `gorm:"not null" json:"amount_cents"`
	Currency           string         `gorm:"size:3;default:'COP'" json:"currency"`
	Reference          string         `gorm:"size:255;uniqueIndex" json:"reference"`
	IntegritySignature string         `gorm:"size:128" json:"-"`
	WompiTransactionID string         `gorm:"size:100;index" json:"wompi_transaction_id"`
	Status             string         `gorm:"size:20;not null;index" json:"status"` // PENDING, COMPLETED, FAILED
	CompletedAt        *time.Time     `json:"completed_at"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Listing Listing `gorm:"foreignKey:ListingID" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}
