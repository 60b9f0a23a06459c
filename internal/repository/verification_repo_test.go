package repository

import (
	"testing"
	"time"

	"nido/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartReviewTimerCreatesAndUpdates(t *testing.T) {
	repo := NewVerificationRepository(newTestDB(t))
	deadline := time.Now().Add(72 * time.Hour)

	v, err := repo.StartReviewTimer(7, deadline)
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationPendingDocuments, v.Status)
	require.NotNil(t, v.DeadlineAt)
	assert.WithinDuration(t, deadline, *v.DeadlineAt, time.Second)

	// A second hold for the same owner reuses the record.
	later := deadline.Add(24 * time.Hour)
	v2, err := repo.StartReviewTimer(7, later)
	require.NoError(t, err)
	assert.Equal(t, v.ID, v2.ID)
	assert.WithinDuration(t, later, *v2.DeadlineAt, time.Second)
}

func TestListExpired(t *testing.T) {
	repo := NewVerificationRepository(newTestDB(t))
	now := time.Now()

	_, err := repo.StartReviewTimer(1, now.Add(-time.Hour))
	require.NoError(t, err)
	_, err = repo.StartReviewTimer(2, now.Add(time.Hour))
	require.NoError(t, err)
	// Documents already submitted: the clock is stopped.
	v3, err := repo.StartReviewTimer(3, now.Add(-time.Hour))
	require.NoError(t, err)
	v3.Status = domain.VerificationPendingReview
	require.NoError(t, repo.Update(v3))

	expired, err := repo.ListExpired(now)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, uint(1), expired[0].UserID)
}

func TestReject(t *testing.T) {
	repo := NewVerificationRepository(newTestDB(t))
	v, err := repo.StartReviewTimer(1, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	require.NoError(t, repo.Reject(v.ID, "Plazo vencido"))

	got, err := repo.GetByID(v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationRejected, got.Status)
	assert.NotNil(t, got.RejectedAt)
	assert.Equal(t, "Plazo vencido", got.RejectionReason)
}
