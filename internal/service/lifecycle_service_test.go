package service

import (
	"errors"
	"testing"
	"time"

	"nido/internal/domain"
	"nido/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestExtractIDPrefix(t *testing.T) {
	cases := []struct {
		reference string
		want      string
	}{
		{"NIDO-a1b2c3d4-1700000000000", "a1b2c3d4"},
		{"NIDO-zzzzzzzz-1700000000000", "zzzzzzzz"},
		{"NIDO--1700000000000", ""},                  // empty id segment resolves to nothing
		{"otherref-1700000000000", "otherref"},       // no tag: first 8 chars
		{"short", "short"},                           // shorter than 8
		{"OTRA-a1b2c3d4-1700000000000", "OTRA-a1b"},  // unrecognized tag: raw prefix
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ExtractIDPrefix(tc.reference, "NIDO"), "reference %q", tc.reference)
	}
}

// Scenario: verified owner, approved payment. The listing publishes instantly
// and no verification hold or reminders are created.
func TestApprovedPaymentVerifiedOwnerPublishes(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedOwner(t, "maria@nido.com.co")
	env.markVerified(t, owner.ID)
	env.seedDraft(t, "a1b2c3d4-0000-0000-0000-000000000001", owner.ID)

	res, err := env.lifecycle().HandleApprovedTransaction("tx-1", "NIDO-a1b2c3d4-1700000000000")
	require.NoError(t, err)
	assert.Equal(t, domain.ListingPublished, res.Status)

	got, err := env.listings.GetByID("a1b2c3d4-0000-0000-0000-000000000001")
	require.NoError(t, err)
	assert.Equal(t, domain.ListingPublished, got.Status)

	v, err := env.verifications.LatestByUser(owner.ID)
	require.NoError(t, err)
	assert.Nil(t, v.DeadlineAt, "publish path must not set a deadline")

	due, err := env.notifications.DueBatch(time.Now().Add(100*time.Hour), 50)
	require.NoError(t, err)
	assert.Empty(t, due, "publish path must not schedule reminders")
}

// Scenario: owner with no verification record. The listing goes on hold, a
// 72h deadline is provisioned and the reminder pair is scheduled.
func TestApprovedPaymentUnverifiedOwnerHolds(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedOwner(t, "carlos@nido.com.co")
	env.seedDraft(t, "a1b2c3d4-0000-0000-0000-000000000001", owner.ID)

	before := time.Now()
	res, err := env.lifecycle().HandleApprovedTransaction("tx-1", "NIDO-a1b2c3d4-1700000000000")
	require.NoError(t, err)
	assert.Equal(t, domain.ListingInReview, res.Status)

	got, err := env.listings.GetByID("a1b2c3d4-0000-0000-0000-000000000001")
	require.NoError(t, err)
	assert.Equal(t, domain.ListingInReview, got.Status)

	v, err := env.verifications.LatestByUser(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationPendingDocuments, v.Status)
	require.NotNil(t, v.DeadlineAt)
	assert.WithinDuration(t, before.Add(72*time.Hour), *v.DeadlineAt, time.Second)

	pair, err := env.notifications.ListByVerification(v.ID)
	require.NoError(t, err)
	require.Len(t, pair, 2)
	assert.Equal(t, domain.NotificationVerificationReminder, pair[0].Type)
	assert.Equal(t, domain.NotificationVerificationUrgent, pair[1].Type)
	for _, n := range pair {
		assert.False(t, n.Sent)
		assert.Equal(t, owner.Email, n.Email)
	}
	assert.WithinDuration(t, before.Add(20*time.Minute), pair[0].ScheduledAt, time.Second)
	assert.WithinDuration(t, before.Add(48*time.Hour), pair[1].ScheduledAt, time.Second)
}

// Branch correctness: every non-verified status routes to the hold path.
func TestVerificationGateFailsClosed(t *testing.T) {
	for _, status := range []string{
		domain.VerificationPendingDocuments,
		domain.VerificationPendingReview,
		domain.VerificationRejected,
	} {
		t.Run(status, func(t *testing.T) {
			env := newTestEnv(t)
			owner := env.seedOwner(t, "owner@nido.com.co")
			_, err := env.verifications.StartReviewTimer(owner.ID, time.Now().Add(time.Hour))
			require.NoError(t, err)
			require.NoError(t, env.db.Model(&models.Verification{}).Where("user_id = ?", owner.ID).Update("status", status).Error)
			env.seedDraft(t, "a1b2c3d4-0000-0000-0000-000000000001", owner.ID)

			res, err := env.lifecycle().HandleApprovedTransaction("tx-1", "NIDO-a1b2c3d4-1700000000000")
			require.NoError(t, err)
			assert.Equal(t, domain.ListingInReview, res.Status)
		})
	}
}

// Duplicate delivery: the listing is no longer draft, so the second call
// resolves nothing and no second transition happens.
func TestDuplicateDeliveryIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedOwner(t, "maria@nido.com.co")
	env.markVerified(t, owner.ID)
	env.seedDraft(t, "a1b2c3d4-0000-0000-0000-000000000001", owner.ID)

	svc := env.lifecycle()
	_, err := svc.HandleApprovedTransaction("tx-1", "NIDO-a1b2c3d4-1700000000000")
	require.NoError(t, err)

	_, err = svc.HandleApprovedTransaction("tx-1", "NIDO-a1b2c3d4-1700000000000")
	assert.ErrorIs(t, err, ErrNoMatchingDraft)

	got, _ := env.listings.GetByID("a1b2c3d4-0000-0000-0000-000000000001")
	assert.Equal(t, domain.ListingPublished, got.Status)
}

// Unresolvable prefix: not-found, zero mutations anywhere.
func TestUnresolvableReference(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedOwner(t, "maria@nido.com.co")
	env.seedDraft(t, "a1b2c3d4-0000-0000-0000-000000000001", owner.ID)

	_, err := env.lifecycle().HandleApprovedTransaction("tx-1", "NIDO-zzzzzzzz-1700000000000")
	assert.ErrorIs(t, err, ErrNoMatchingDraft)

	got, _ := env.listings.GetByID("a1b2c3d4-0000-0000-0000-000000000001")
	assert.Equal(t, domain.ListingDraft, got.Status)
	_, err = env.verifications.LatestByUser(owner.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

// A reference with an empty id segment must not resolve: an empty prefix
// would otherwise match whichever draft comes back first.
func TestEmptyReferenceSegmentIsUnresolvable(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedOwner(t, "maria@nido.com.co")
	env.markVerified(t, owner.ID)
	env.seedDraft(t, "a1b2c3d4-0000-0000-0000-000000000001", owner.ID)

	_, err := env.lifecycle().HandleApprovedTransaction("tx-1", "NIDO--1700000000000")
	assert.ErrorIs(t, err, ErrNoMatchingDraft)

	got, _ := env.listings.GetByID("a1b2c3d4-0000-0000-0000-000000000001")
	assert.Equal(t, domain.ListingDraft, got.Status)
}

// The payment row is stamped with the gateway transaction id on success.
func TestApprovedPaymentCompletesPaymentRecord(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedOwner(t, "maria@nido.com.co")
	env.markVerified(t, owner.ID)
	l := env.seedDraft(t, "a1b2c3d4-0000-0000-0000-000000000001", owner.ID)

	checkout := NewCheckoutService(env.listings, env.payments, env.cfg)
	session, err := checkout.CreateSession(l.ID, owner.ID)
	require.NoError(t, err)

	_, err = env.lifecycle().HandleApprovedTransaction("tx-99", session.Reference)
	require.NoError(t, err)

	p, err := env.payments.GetByReference(session.Reference)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, p.Status)
	assert.Equal(t, "tx-99", p.WompiTransactionID)
	assert.NotNil(t, p.CompletedAt)
}
