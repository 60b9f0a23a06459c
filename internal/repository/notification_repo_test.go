package repository

import (
	"testing"
	"time"

	"nido/internal/domain"
	"nido/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDueBatchSelectsOnlyDueUnsent(t *testing.T) {
	repo := NewNotificationRepository(newTestDB(t))
	now := time.Now()
	pair := []models.ScheduledNotification{
		{VerificationID: 1, UserID: 1, Email: "a@b.co", Type: domain.NotificationVerificationReminder, ScheduledAt: now.Add(-time.Minute)},
		{VerificationID: 1, UserID: 1, Email: "a@b.co", Type: domain.NotificationVerificationUrgent, ScheduledAt: now.Add(48 * time.Hour)},
	}
	require.NoError(t, repo.SchedulePair(pair))

	due, err := repo.DueBatch(now, 50)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, domain.NotificationVerificationReminder, due[0].Type)

	// Once marked sent it is never selected again, no matter how often the
	// dispatcher runs.
	require.NoError(t, repo.MarkSent(due[0].ID, time.Now()))
	due, err = repo.DueBatch(now, 50)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestIncrementRetryKeepsRowDue(t *testing.T) {
	repo := NewNotificationRepository(newTestDB(t))
	now := time.Now()
	require.NoError(t, repo.SchedulePair([]models.ScheduledNotification{
		{VerificationID: 1, UserID: 1, Email: "a@b.co", Type: domain.NotificationVerificationReminder, ScheduledAt: now.Add(-2 * time.Minute)},
		{VerificationID: 1, UserID: 1, Email: "a@b.co", Type: domain.NotificationVerificationUrgent, ScheduledAt: now.Add(-time.Minute)},
	}))
	due, err := repo.DueBatch(now, 50)
	require.NoError(t, err)
	require.Len(t, due, 2)

	require.NoError(t, repo.IncrementRetry(due[0].ID, "smtp timeout"))
	require.NoError(t, repo.IncrementRetry(due[0].ID, "smtp timeout again"))

	due, err = repo.DueBatch(now, 50)
	require.NoError(t, err)
	require.Len(t, due, 2, "failed rows stay eligible for the next run")
	assert.Equal(t, 2, due[0].RetryCount)
	assert.Equal(t, "smtp timeout again", due[0].ErrorMessage)
	assert.False(t, due[0].Sent)
}

func TestCancelPendingByUser(t *testing.T) {
	repo := NewNotificationRepository(newTestDB(t))
	now := time.Now()
	require.NoError(t, repo.SchedulePair([]models.ScheduledNotification{
		{VerificationID: 1, UserID: 1, Email: "a@b.co", Type: domain.NotificationVerificationReminder, ScheduledAt: now.Add(time.Hour)},
		{VerificationID: 1, UserID: 1, Email: "a@b.co", Type: domain.NotificationVerificationUrgent, ScheduledAt: now.Add(48 * time.Hour)},
	}))
	require.NoError(t, repo.SchedulePair([]models.ScheduledNotification{
		{VerificationID: 2, UserID: 2, Email: "c@d.co", Type: domain.NotificationVerificationReminder, ScheduledAt: now.Add(time.Hour)},
		{VerificationID: 2, UserID: 2, Email: "c@d.co", Type: domain.NotificationVerificationUrgent, ScheduledAt: now.Add(48 * time.Hour)},
	}))

	n, err := repo.CancelPendingByUser(1, "cancelada")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	list, err := repo.ListByVerification(1)
	require.NoError(t, err)
	for _, sn := range list {
		assert.True(t, sn.Sent)
		assert.Equal(t, "cancelada", sn.ErrorMessage)
	}
	// Other user's reminders untouched.
	list, err = repo.ListByVerification(2)
	require.NoError(t, err)
	for _, sn := range list {
		assert.False(t, sn.Sent)
	}
}
