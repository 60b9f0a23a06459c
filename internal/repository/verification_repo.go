package repository

import (
	"time"

	"nido/internal/domain"
	"nido/internal/models"

	"gorm.io/gorm"
)

type VerificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

// LatestByUser returns the user's current verification. The unique index on
// user_id should make duplicates impossible, but the lookup still orders by
// created_at DESC and takes the first row rather than assume uniqueness.
func (r *VerificationRepository) LatestByUser(userID uint) (*models.Verification, error) {
	var v models.Verification
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VerificationRepository) GetByID(id uint) (*models.Verification, error) {
	var v models.Verification
	err := r.db.First(&v, id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VerificationRepository) Update(v *models.Verification) error {
	return r.db.Save(v).Error
}

// StartReviewTimer opens the KYC hold: status pending_documents plus the
// deadline in one transaction, creating the record if the owner has none. A
// partial write here would corrupt the sweeper's query, so both fields always
// land together. Returns the current verification row.
func (r *VerificationRepository) StartReviewTimer(userID uint, deadline time.Time) (*models.Verification, error) {
	var v models.Verification
	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", userID).Order("created_at DESC").First(&v).Error
		if err != nil {
			if err != gorm.ErrRecordNotFound {
				return err
			}
			v = models.Verification{UserID: userID}
		}
		v.Status = domain.VerificationPendingDocuments
		v.DeadlineAt = &deadline
		return tx.Save(&v).Error
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Reject closes an expired hold: status, rejected_at and the reason in one
// transaction.
func (r *VerificationRepository) Reject(id uint, reason string) error {
	now := time.Now()
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&models.Verification{}).Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":           domain.VerificationRejected,
				"rejected_at":      now,
				"rejection_reason": reason,
			}).Error
	})
}

// ListExpired returns holds still waiting on documents whose deadline has
// passed.
func (r *VerificationRepository) ListExpired(now time.Time) ([]models.Verification, error) {
	var list []models.Verification
	err := r.db.Where("status = ? AND deadline_at IS NOT NULL AND deadline_at < ?",
		domain.VerificationPendingDocuments, now).Find(&list).Error
	return list, err
}

func (r *VerificationRepository) ListByStatus(status string, limit, offset int) ([]models.Verification, error) {
	var list []models.Verification
	err := r.db.Where("status = ?", status).Order("created_at ASC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// SetReviewed records an admin decision on the verification.
func (r *VerificationRepository) SetReviewed(id uint, status string, reviewerID uint, reason string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":      status,
		"reviewed_by": reviewerID,
		"reviewed_at": now,
	}
	if status == domain.VerificationRejected {
		updates["rejected_at"] = now
		updates["rejection_reason"] = reason
	}
	return r.db.Model(&models.Verification{}).Where("id = ?", id).Updates(updates).Error
}
