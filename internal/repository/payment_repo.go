package repository

import (
	"time"

	"nido/internal/domain"
	"nido/internal/models"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(p *models.Payment) error {
	return r.db.Create(p).Error
}

func (r *PaymentRepository) GetByReference(ref string) (*models.Payment, error) {
	var p models.Payment
	err := r.db.Where("reference = ?", ref).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) GetPendingByListing(listingID string) (*models.Payment, error) {
	var p models.Payment
	err := r.db.Where("listing_id = ? AND status = ?", listingID, domain.PaymentPending).
		Order("created_at DESC").First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkCompleted stamps the gateway transaction id on the pending payment row.
// Conditional on status so a redelivered webhook cannot overwrite it.
func (r *PaymentRepository) MarkCompleted(reference, transactionID string) error {
	now := time.Now()
	return r.db.Model(&models.Payment{}).
		Where("reference = ? AND status = ?", reference, domain.PaymentPending).
		Updates(map[string]interface{}{
			"status":               domain.PaymentCompleted,
			"wompi_transaction_id": transactionID,
			"completed_at":         now,
		}).Error
}
