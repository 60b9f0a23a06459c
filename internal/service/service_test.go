package service

import (
	"fmt"
	"testing"
	"time"

	"nido/config"
	"nido/internal/domain"
	"nido/internal/models"
	"nido/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db            *gorm.DB
	users         *repository.UserRepository
	listings      *repository.ListingRepository
	payments      *repository.PaymentRepository
	verifications *repository.VerificationRepository
	notifications *repository.NotificationRepository
	cfg           *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Payment{},
		&models.Verification{},
		&models.ScheduledNotification{},
		&models.AuditLog{},
	))
	cfg := config.Load()
	cfg.Listing.ReferencePrefix = "NIDO"
	cfg.Verification.DocumentDeadline = 72 * time.Hour
	cfg.Verification.ReminderDelay = 20 * time.Minute
	cfg.Verification.UrgentLead = 24 * time.Hour
	return &testEnv{
		db:            db,
		users:         repository.NewUserRepository(db),
		listings:      repository.NewListingRepository(db),
		payments:      repository.NewPaymentRepository(db),
		verifications: repository.NewVerificationRepository(db),
		notifications: repository.NewNotificationRepository(db),
		cfg:           cfg,
	}
}

func (e *testEnv) lifecycle() *LifecycleService {
	return NewLifecycleService(e.listings, e.users, e.verifications, e.notifications, e.payments, e.cfg)
}

func (e *testEnv) sweeper() *SweeperService {
	return NewSweeperService(e.verifications, e.listings, e.notifications)
}

func (e *testEnv) seedOwner(t *testing.T, email string) *models.User {
	t.Helper()
	u := &models.User{Name: "María Castro", Email: email, Role: domain.RoleOwner}
	require.NoError(t, e.users.Create(u))
	return u
}

func (e *testEnv) seedDraft(t *testing.T, id string, ownerID uint) *models.Listing {
	t.Helper()
	l := &models.Listing{
		ID:           id,
		OwnerID:      ownerID,
		Title:        "Finca cafetera",
		PropertyType: "finca",
		OfferType:    domain.OfferSale,
		PriceCents:   40000000000,
		Status:       domain.ListingDraft,
	}
	require.NoError(t, e.listings.Create(l))
	return l
}

func (e *testEnv) markVerified(t *testing.T, userID uint) {
	t.Helper()
	require.NoError(t, e.db.Create(&models.Verification{
		UserID: userID,
		Status: domain.VerificationVerified,
	}).Error)
}
