package models

import (
	"time"

	"gorm.io/gorm"
)

// Verification is the owner's KYC record. One current record per owner
// (unique index on user_id); DeadlineAt is set only when a paid listing goes
// on hold because the owner is not yet verified.
type Verification struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserID          uint           `gorm:"not null;uniqueIndex" json:"user_id"`
	Status          string         `gorm:"size:30;not null;index;default:'pending_documents'" json:"status"`
	DocumentType    string         `gorm:"size:50" json:"document_type"`
	DocumentURL     string         `gorm:"size:512" json:"document_url"`
	DeadlineAt      *time.Time     `gorm:"index" json:"deadline_at"`
	RejectedAt      *time.Time     `json:"rejected_at"`
	RejectionReason string         `gorm:"type:text" json:"rejection_reason"`
	ReviewedBy      *uint          `json:"reviewed_by"`
	ReviewedAt      *time.Time     `json:"reviewed_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Verification) TableName() string {
	return "verifications"
}
