package repository

import (
	"strings"
	"time"

	"nido/internal/domain"
	"nido/internal/models"

	"gorm.io/gorm"
)

type ListingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) Create(l *models.Listing) error {
	return r.db.Create(l).Error
}

func (r *ListingRepository) GetByID(id string) (*models.Listing, error) {
	var l models.Listing
	err := r.db.Where("id = ?", id).First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *ListingRepository) ListByStatus(status string, limit, offset int) ([]models.Listing, error) {
	var list []models.Listing
	err := r.db.Where("status = ?", status).Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *ListingRepository) ListByOwner(ownerID uint) ([]models.Listing, error) {
	var list []models.Listing
	err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&list).Error
	return list, err
}

// FindDraftByIDPrefix resolves the listing a payment reference points at: all
// drafts are fetched and the first whose id starts with the extracted prefix
// wins. Returns nil without error when nothing matches. An empty prefix never
// matches; it would otherwise select an arbitrary draft.
func (r *ListingRepository) FindDraftByIDPrefix(prefix string) (*models.Listing, error) {
	if prefix == "" {
		return nil, nil
	}
	var drafts []models.Listing
	if err := r.db.Where("status = ?", domain.ListingDraft).Find(&drafts).Error; err != nil {
		return nil, err
	}
	for i := range drafts {
		if strings.HasPrefix(drafts[i].ID, prefix) {
			return &drafts[i], nil
		}
	}
	return nil, nil
}

// TransitionStatus moves a listing from an expected status to a new one as a
// single conditional UPDATE. Returns false when the row was not in the
// expected status anymore, which is how duplicate webhook deliveries and
// concurrent races are rejected.
func (r *ListingRepository) TransitionStatus(id, from, to string) (bool, error) {
	updates := map[string]interface{}{"status": to, "updated_at": time.Now()}
	if to == domain.ListingPublished {
		updates["published_at"] = time.Now()
	}
	res := r.db.Model(&models.Listing{}).Where("id = ? AND status = ?", id, from).Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RejectInReviewByOwner cascades a verification rejection: every in_review
// listing of the owner becomes rejected. Listings in any other status are
// untouched. Returns the number of affected rows.
func (r *ListingRepository) RejectInReviewByOwner(ownerID uint) (int64, error) {
	res := r.db.Model(&models.Listing{}).
		Where("owner_id = ? AND status = ?", ownerID, domain.ListingInReview).
		Updates(map[string]interface{}{"status": domain.ListingRejected, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}
