package service

import (
	"errors"
	"log"
	"strings"
	"time"

	"nido/config"
	"nido/internal/domain"
	"nido/internal/models"
	"nido/internal/repository"

	"gorm.io/gorm"
)

// ErrNoMatchingDraft means the payment reference resolved to no listing still
// in draft. Duplicate webhook deliveries land here too: once a listing has
// transitioned it is no longer findable, which is what makes redelivery safe.
var ErrNoMatchingDraft = errors.New("no draft listing matches the payment reference")

// LifecycleService applies the payment-to-publication transition. A confirmed
// payment publishes the listing instantly when the owner is KYC-verified, and
// otherwise holds it in review behind a 72-hour verification deadline with two
// scheduled reminder emails.
type LifecycleService struct {
	listings      *repository.ListingRepository
	users         *repository.UserRepository
	verifications *repository.VerificationRepository
	notifications *repository.NotificationRepository
	payments      *repository.PaymentRepository
	cfg           *config.Config
}

func NewLifecycleService(
	listings *repository.ListingRepository,
	users *repository.UserRepository,
	verifications *repository.VerificationRepository,
	notifications *repository.NotificationRepository,
	payments *repository.PaymentRepository,
	cfg *config.Config,
) *LifecycleService {
	return &LifecycleService{
		listings:      listings,
		users:         users,
		verifications: verifications,
		notifications: notifications,
		payments:      payments,
		cfg:           cfg,
	}
}

type LifecycleResult struct {
	ListingID string
	Status    string // published | in_review
}

// ExtractIDPrefix pulls the listing-id prefix out of a payment reference of
// the form "<tag>-<id-prefix>-<timestamp>". When the tag is not recognized it
// falls back to the first 8 characters of the raw reference. A malformed
// reference with an empty id segment yields "", which resolves to nothing.
func ExtractIDPrefix(reference, tag string) string {
	parts := strings.Split(reference, "-")
	if len(parts) >= 2 && parts[0] == tag {
		return parts[1]
	}
	if len(reference) > 8 {
		return reference[:8]
	}
	return reference
}

// HandleApprovedTransaction runs the whole webhook chain for an approved
// Wompi transaction: resolve the draft, gate on the owner's verification
// status and transition. Deadline and reminder scheduling are best-effort;
// only failures of the listing state write itself escalate.
func (s *LifecycleService) HandleApprovedTransaction(transactionID, reference string) (*LifecycleResult, error) {
	prefix := ExtractIDPrefix(reference, s.cfg.Listing.ReferencePrefix)
	listing, err := s.listings.FindDraftByIDPrefix(prefix)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrNoMatchingDraft
	}

	owner, err := s.users.GetByID(listing.OwnerID)
	if err != nil {
		return nil, err
	}

	// Fail closed: only an exact "verified" status publishes instantly.
	// No record at all or any other status goes to the hold path.
	verified := false
	current, err := s.verifications.LatestByUser(owner.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if current != nil && current.Status == domain.VerificationVerified {
		verified = true
	}

	if verified {
		ok, err := s.listings.TransitionStatus(listing.ID, domain.ListingDraft, domain.ListingPublished)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Lost the compare-and-transition race: another delivery got here first.
			return nil, ErrNoMatchingDraft
		}
		s.completePayment(reference, transactionID)
		return &LifecycleResult{ListingID: listing.ID, Status: domain.ListingPublished}, nil
	}

	ok, err := s.listings.TransitionStatus(listing.ID, domain.ListingDraft, domain.ListingInReview)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoMatchingDraft
	}
	s.startHold(owner, listing.ID)
	s.completePayment(reference, transactionID)
	return &LifecycleResult{ListingID: listing.ID, Status: domain.ListingInReview}, nil
}

// startHold provisions the 72-hour deadline and the reminder pair. Every
// failure past this point is logged and swallowed: the listing is already
// in_review and the payment must still be acknowledged to Wompi. Without a
// deadline the record needs manual follow-up; with a deadline but no
// reminders the sweeper still expires it.
func (s *LifecycleService) startHold(owner *models.User, listingID string) {
	now := time.Now()
	deadline := now.Add(s.cfg.Verification.DocumentDeadline)
	verification, err := s.verifications.StartReviewTimer(owner.ID, deadline)
	if err != nil {
		log.Printf("[lifecycle] start review timer owner=%d listing=%s: %v (listing stays in_review without deadline)", owner.ID, listingID, err)
		return
	}
	pair := []models.ScheduledNotification{
		{
			VerificationID: verification.ID,
			UserID:         owner.ID,
			Email:          owner.Email,
			Type:           domain.NotificationVerificationReminder,
			ScheduledAt:    now.Add(s.cfg.Verification.ReminderDelay),
		},
		{
			VerificationID: verification.ID,
			UserID:         owner.ID,
			Email:          owner.Email,
			Type:           domain.NotificationVerificationUrgent,
			ScheduledAt:    deadline.Add(-s.cfg.Verification.UrgentLead),
		},
	}
	if err := s.notifications.SchedulePair(pair); err != nil {
		log.Printf("[lifecycle] schedule reminders owner=%d verification=%d: %v", owner.ID, verification.ID, err)
	}
}

func (s *LifecycleService) completePayment(reference, transactionID string) {
	if err := s.payments.MarkCompleted(reference, transactionID); err != nil {
		log.Printf("[lifecycle] mark payment completed ref=%s tx=%s: %v", reference, transactionID, err)
	}
}
