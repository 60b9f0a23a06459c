package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"nido/internal/domain"
	"nido/internal/models"
	"nido/internal/repository"
	"nido/pkg/email"
)

// DispatcherService delivers due KYC reminder emails. At-least-once per
// record with retry bookkeeping; a record marked sent is never picked up
// again. No backoff: a failed row stays due and retries every run.
type DispatcherService struct {
	notifications *repository.NotificationRepository
	users         *repository.UserRepository
	verifications *repository.VerificationRepository
	sender        email.Sender
	batchSize     int
}

func NewDispatcherService(
	notifications *repository.NotificationRepository,
	users *repository.UserRepository,
	verifications *repository.VerificationRepository,
	sender email.Sender,
	batchSize int,
) *DispatcherService {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &DispatcherService{
		notifications: notifications,
		users:         users,
		verifications: verifications,
		sender:        sender,
		batchSize:     batchSize,
	}
}

type DispatchResult struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// DispatchDue sends every due, unsent notification in the batch. Delivery
// failures increment the retry counter and leave the row due; successes go
// through the one-shot mark-sent so a partial update can't leave the record
// ambiguous.
func (s *DispatcherService) DispatchDue(ctx context.Context, now time.Time) (*DispatchResult, error) {
	batch, err := s.notifications.DueBatch(now, s.batchSize)
	if err != nil {
		return nil, err
	}
	res := &DispatchResult{}
	for i := range batch {
		n := &batch[i]
		res.Processed++
		subject, body, ok := s.render(n)
		if !ok {
			log.Printf("[dispatcher] unknown notification type %q id=%d, skipping", n.Type, n.ID)
			res.Skipped++
			continue
		}
		if err := s.sender.Send(ctx, n.Email, subject, body); err != nil {
			log.Printf("[dispatcher] send id=%d to=%s: %v", n.ID, n.Email, err)
			if rerr := s.notifications.IncrementRetry(n.ID, err.Error()); rerr != nil {
				log.Printf("[dispatcher] increment retry id=%d: %v", n.ID, rerr)
			}
			res.Failed++
			continue
		}
		if err := s.notifications.MarkSent(n.ID, time.Now()); err != nil {
			log.Printf("[dispatcher] mark sent id=%d: %v", n.ID, err)
			res.Failed++
			continue
		}
		res.Sent++
	}
	return res, nil
}

// render resolves the template for the notification type and fills in the
// owner's name and deadline. Missing context degrades gracefully: empty name,
// "pronto" for the deadline.
func (s *DispatcherService) render(n *models.ScheduledNotification) (subject, body string, ok bool) {
	name := ""
	if u, err := s.users.GetByID(n.UserID); err == nil && u.Name != "" {
		name = " " + u.Name
	}
	deadline := "pronto"
	if v, err := s.verifications.GetByID(n.VerificationID); err == nil && v.DeadlineAt != nil {
		deadline = v.DeadlineAt.Format("02/01/2006 3:04 PM")
	}

	switch n.Type {
	case domain.NotificationVerificationReminder:
		subject = "Completa tu verificación de identidad en Nido io"
		body = fmt.Sprintf(
			"<p>Hola%s,</p><p>Recibimos tu pago y tu aviso quedó en revisión. Para publicarlo necesitamos verificar tu identidad.</p><p>Tienes hasta el <strong>%s</strong> para enviar tus documentos.</p>",
			name, deadline)
		return subject, body, true
	case domain.NotificationVerificationUrgent:
		subject = "Último recordatorio: tu verificación vence pronto"
		body = fmt.Sprintf(
			"<p>Hola%s,</p><p>Tu plazo de verificación vence el <strong>%s</strong>. Si no recibimos tus documentos antes de esa fecha, tu aviso será rechazado y deberás iniciar el proceso de nuevo.</p>",
			name, deadline)
		return subject, body, true
	default:
		return "", "", false
	}
}
