package service

import (
	"errors"
	"fmt"
	"time"

	"nido/config"
	"nido/internal/domain"
	"nido/internal/models"
	"nido/internal/repository"
	"nido/pkg/wompi"
)

var (
	ErrListingNotDraft = errors.New("listing is not in draft state")
	ErrNotListingOwner = errors.New("listing belongs to another user")
)

// CheckoutService creates the Wompi checkout session for a draft listing:
// a pending Payment row plus the signed parameters the widget needs.
type CheckoutService struct {
	listings *repository.ListingRepository
	payments *repository.PaymentRepository
	cfg      *config.Config
}

func NewCheckoutService(listings *repository.ListingRepository, payments *repository.PaymentRepository, cfg *config.Config) *CheckoutService {
	return &CheckoutService{listings: listings, payments: payments, cfg: cfg}
}

type CheckoutSession struct {
	Reference          string `json:"reference"`
	AmountCents        int64  `json:"amount_in_cents"`
	Currency           string `json:"currency"`
	IntegritySignature string `json:"integrity_signature"`
	PublicKey          string `json:"public_key"`
}

// CreateSession builds the payment reference
// "<tag>-<first 8 chars of listing id>-<unix millis>", signs it and records
// the pending payment. The webhook later resolves the listing back from the
// id prefix embedded here.
func (s *CheckoutService) CreateSession(listingID string, userID uint) (*CheckoutSession, error) {
	listing, err := s.listings.GetByID(listingID)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID != userID {
		return nil, ErrNotListingOwner
	}
	if listing.Status != domain.ListingDraft {
		return nil, ErrListingNotDraft
	}

	idPrefix := listing.ID
	if len(idPrefix) > 8 {
		idPrefix = idPrefix[:8]
	}
	reference := fmt.Sprintf("%s-%s-%d", s.cfg.Listing.ReferencePrefix, idPrefix, time.Now().UnixMilli())
	amount := s.cfg.Listing.PublicationFeeCents
	currency := s.cfg.Listing.Currency
	signature := wompi.IntegritySignature(reference, amount, currency, s.cfg.Wompi.IntegritySecret)

	p := &models.Payment{
		ListingID:          listing.ID,
		UserID:             userID,
		AmountCents:        amount,
		Currency:           currency,
		Reference:          reference,
		IntegritySignature: signature,
		Status:             domain.PaymentPending,
	}
	if err := s.payments.Create(p); err != nil {
		return nil, err
	}
	return &CheckoutSession{
		Reference:          reference,
		AmountCents:        amount,
		Currency:           currency,
		IntegritySignature: signature,
		PublicKey:          s.cfg.Wompi.PublicKey,
	}, nil
}
