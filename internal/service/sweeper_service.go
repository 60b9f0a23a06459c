package service

import (
	"log"
	"time"

	"nido/internal/repository"
)

// RejectionReasonExpired is the fixed reason stamped on verifications the
// sweeper expires.
const RejectionReasonExpired = "Verificación no completada dentro del plazo de 72 horas"

const cancelReasonExpired = "cancelada: la verificación fue rechazada por vencimiento del plazo"

// SweeperService expires overdue KYC holds. Safe to re-run at any point:
// already-rejected records are not selected again, so an interrupted or
// repeated sweep produces no extra mutations.
type SweeperService struct {
	verifications *repository.VerificationRepository
	listings      *repository.ListingRepository
	notifications *repository.NotificationRepository
}

func NewSweeperService(
	verifications *repository.VerificationRepository,
	listings *repository.ListingRepository,
	notifications *repository.NotificationRepository,
) *SweeperService {
	return &SweeperService{verifications: verifications, listings: listings, notifications: notifications}
}

type SweepResult struct {
	Processed              int   `json:"processed"`
	Errors                 int   `json:"errors"`
	ListingsRejected       int64 `json:"listings_rejected"`
	NotificationsCancelled int64 `json:"notifications_cancelled"`
}

// ExpireOverdue rejects every verification still waiting on documents past
// its deadline, cascades the rejection to the owner's in_review listings and
// cancels their pending reminders. Each record is handled independently; one
// failure never aborts the batch. Only the initial scan can error out.
func (s *SweeperService) ExpireOverdue(now time.Time) (*SweepResult, error) {
	expired, err := s.verifications.ListExpired(now)
	if err != nil {
		return nil, err
	}
	res := &SweepResult{}
	for _, v := range expired {
		if err := s.verifications.Reject(v.ID, RejectionReasonExpired); err != nil {
			log.Printf("[sweeper] reject verification=%d owner=%d: %v", v.ID, v.UserID, err)
			res.Errors++
			continue
		}
		res.Processed++

		// Best-effort from here: the verification is already rejected and a
		// later sweep cannot pick it up again, so log and keep going.
		rejected, err := s.listings.RejectInReviewByOwner(v.UserID)
		if err != nil {
			log.Printf("[sweeper] cascade listings owner=%d: %v", v.UserID, err)
		} else {
			res.ListingsRejected += rejected
		}
		cancelled, err := s.notifications.CancelPendingByUser(v.UserID, cancelReasonExpired)
		if err != nil {
			log.Printf("[sweeper] cancel notifications owner=%d: %v", v.UserID, err)
		} else {
			res.NotificationsCancelled += cancelled
		}
	}
	if res.Processed > 0 || res.Errors > 0 {
		log.Printf("[sweeper] processed=%d errors=%d listings_rejected=%d notifications_cancelled=%d",
			res.Processed, res.Errors, res.ListingsRejected, res.NotificationsCancelled)
	}
	return res, nil
}
