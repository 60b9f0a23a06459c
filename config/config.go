package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	JWT          JWTConfig
	Wompi        WompiConfig
	Email        EmailConfig
	Verification VerificationConfig
	Listing      ListingConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// WompiConfig holds Wompi gateway credentials. PublicKey goes to the checkout
// widget; IntegritySecret signs checkout sessions; EventsSecret validates the
// checksum Wompi attaches to webhook events (empty = skip validation, dev only).
type WompiConfig struct {
	BaseURL         string
	PublicKey       string
	IntegritySecret string
	EventsSecret    string
}

type EmailConfig struct {
	BaseURL string
	APIKey  string
	From    string
}

// VerificationConfig drives the KYC hold lifecycle: how long an unverified
// owner has to submit documents and when the two reminder emails go out.
type VerificationConfig struct {
	DocumentDeadline time.Duration // deadline_at = hold start + this
	ReminderDelay    time.Duration // first reminder after hold start
	UrgentLead       time.Duration // urgent reminder this long before the deadline
	SweepInterval    time.Duration
	DispatchInterval time.Duration
	DispatchBatch    int
}

type ListingConfig struct {
	PublicationFeeCents int64
	Currency            string
	ReferencePrefix     string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DATABASE_DSN", "nido:nido@tcp(localhost:3306)/nido?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "nido",
		},
		Wompi: WompiConfig{
			BaseURL:         getEnv("WOMPI_BASE_URL", "https://production.wompi.co/v1"),
			PublicKey:       getEnv("WOMPI_PUBLIC_KEY", ""),
			IntegritySecret: getEnv("WOMPI_INTEGRITY_SECRET", ""),
			EventsSecret:    getEnv("WOMPI_EVENTS_SECRET", ""),
		},
		Email: EmailConfig{
			BaseURL: getEnv("EMAIL_BASE_URL", "https://api.resend.com"),
			APIKey:  getEnv("EMAIL_API_KEY", ""),
			From:    getEnv("EMAIL_FROM", "Nido io <notificaciones@nido.com.co>"),
		},
		Verification: VerificationConfig{
			DocumentDeadline: 72 * time.Hour,
			ReminderDelay:    20 * time.Minute,
			UrgentLead:       24 * time.Hour,
			SweepInterval:    time.Hour,
			DispatchInterval: 5 * time.Minute,
			DispatchBatch:    50,
		},
		Listing: ListingConfig{
			PublicationFeeCents: getEnvInt64("LISTING_FEE_CENTS", 5000000), // 50,000 COP
			Currency:            "COP",
			ReferencePrefix:     "NIDO",
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
