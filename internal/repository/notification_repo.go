package repository

import (
	"time"

	"nido/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// SchedulePair creates both KYC reminders in one insert.
func (r *NotificationRepository) SchedulePair(pair []models.ScheduledNotification) error {
	return r.db.Create(&pair).Error
}

// DueBatch returns up to limit unsent notifications whose scheduled time has
// passed, oldest first. Rows with sent=true are never selected again.
func (r *NotificationRepository) DueBatch(now time.Time, limit int) ([]models.ScheduledNotification, error) {
	var list []models.ScheduledNotification
	err := r.db.Where("sent = ? AND scheduled_at <= ?", false, now).
		Order("scheduled_at ASC").Limit(limit).Find(&list).Error
	return list, err
}

// MarkSent flips the one-shot sent flag. Conditional on sent=false so a
// concurrent or repeated run cannot double-mark.
func (r *NotificationRepository) MarkSent(id uint, at time.Time) error {
	return r.db.Model(&models.ScheduledNotification{}).
		Where("id = ? AND sent = ?", id, false).
		Updates(map[string]interface{}{"sent": true, "sent_at": at}).Error
}

// IncrementRetry bumps the retry counter server-side and records the delivery
// error; the row stays unsent and due for the next run.
func (r *NotificationRepository) IncrementRetry(id uint, errMsg string) error {
	return r.db.Model(&models.ScheduledNotification{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"retry_count":   gorm.Expr("retry_count + 1"),
			"error_message": errMsg,
		}).Error
}

// CancelPendingByUser marks the user's unsent reminders as sent with an
// explanatory message, so no stale email goes out after a rejection. Returns
// the number of cancelled rows.
func (r *NotificationRepository) CancelPendingByUser(userID uint, reason string) (int64, error) {
	now := time.Now()
	res := r.db.Model(&models.ScheduledNotification{}).
		Where("user_id = ? AND sent = ?", userID, false).
		Updates(map[string]interface{}{"sent": true, "sent_at": now, "error_message": reason})
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) ListByVerification(verificationID uint) ([]models.ScheduledNotification, error) {
	var list []models.ScheduledNotification
	err := r.db.Where("verification_id = ?", verificationID).Order("scheduled_at ASC").Find(&list).Error
	return list, err
}
