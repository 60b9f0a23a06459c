package auth

import (
	"errors"
	"strconv"
	"time"

	"nido/config"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carried by a Nido access token.
type Claims struct {
	UserID uint   `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenPair is what a successful register, login or refresh hands back.
type TokenPair struct {
	Access  string `json:"access_token"`
	Refresh string `json:"refresh_token"`
}

// Manager issues and parses the token pair. Access tokens carry identity and
// role; refresh tokens carry only the user id in their subject and are signed
// with a separate secret, so a leaked refresh token cannot be replayed as an
// access token.
type Manager struct {
	cfg *config.JWTConfig
}

func NewManager(cfg *config.JWTConfig) *Manager {
	return &Manager{cfg: cfg}
}

func (m *Manager) IssuePair(userID uint, email, role string) (*TokenPair, error) {
	now := time.Now()
	subject := strconv.FormatUint(uint64(userID), 10)

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.AccessExpiry)),
		},
	}).SignedString([]byte(m.cfg.AccessSecret))
	if err != nil {
		return nil, err
	}

	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    m.cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.RefreshExpiry)),
	}).SignedString([]byte(m.cfg.RefreshSecret))
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// ParseAccess validates an access token and returns its claims. The signing
// method is pinned to HMAC so a token signed with another algorithm never
// reaches the secret comparison.
func (m *Manager) ParseAccess(token string) (*Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(m.cfg.AccessSecret), nil
	}, jwt.WithIssuer(m.cfg.Issuer))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// ParseRefresh validates a refresh token and returns the user id from its
// subject.
func (m *Manager) ParseRefresh(token string) (uint, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(m.cfg.RefreshSecret), nil
	}, jwt.WithIssuer(m.cfg.Issuer))
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}
