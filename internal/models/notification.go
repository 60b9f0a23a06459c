package models

import (
	"time"

	"gorm.io/gorm"
)

// ScheduledNotification is a reminder email created in pairs when a KYC hold
// starts. Sent flips exactly once; failed deliveries bump RetryCount and stay
// due for the next dispatcher run.
type ScheduledNotification struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	VerificationID uint           `gorm:"not null;index" json:"verification_id"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	Email          string         `gorm:"size:255;not null" json:"email"`
	Type           string         `gorm:"size:50;not null;index" json:"type"` // verification_reminder | verification_urgent
	ScheduledAt    time.Time      `gorm:"not null;index" json:"scheduled_at"`
	Sent           bool           `gorm:"not null;index;default:false" json:"sent"`
	SentAt         *time.Time     `json:"sent_at"`
	RetryCount     int            `gorm:"not null;default:0" json:"retry_count"`
	ErrorMessage   string         `gorm:"type:text" json:"error_message"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Verification Verification `gorm:"foreignKey:VerificationID" json:"-"`
}

func (ScheduledNotification) TableName() string {
	return "scheduled_notifications"
}
