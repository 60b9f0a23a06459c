package email

import (
	"context"
	"log"
)

// Sender delivers a single email. The dispatcher treats any returned error as
// a failed delivery and leaves the notification due for the next run.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// StubSender logs instead of sending; used in development and tests.
type StubSender struct{}

func (StubSender) Send(ctx context.Context, to, subject, html string) error {
	log.Printf("[email stub] to=%s subject=%q", to, subject)
	return nil
}
