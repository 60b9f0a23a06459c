package service

import (
	"errors"

	"nido/internal/auth"
	"nido/internal/domain"
	"nido/internal/models"
	"nido/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists  = errors.New("email already registered")
	ErrInvalidCreds = errors.New("invalid email or password")
	ErrBadRefresh   = errors.New("invalid refresh token")
)

type AuthService struct {
	tokens   *auth.Manager
	userRepo *repository.UserRepository
}

func NewAuthService(tokens *auth.Manager, userRepo *repository.UserRepository) *AuthService {
	return &AuthService{tokens: tokens, userRepo: userRepo}
}

func (s *AuthService) Register(name, email, phone, password string) (*models.User, *auth.TokenPair, error) {
	_, err := s.userRepo.GetByEmail(email)
	if err == nil {
		return nil, nil, ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}
	u := &models.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         domain.RoleOwner,
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, nil, err
	}
	return s.issuePair(u)
}

func (s *AuthService) Login(email, password string) (*models.User, *auth.TokenPair, error) {
	u, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCreds
		}
		return nil, nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, nil, ErrInvalidCreds
	}
	return s.issuePair(u)
}

// Refresh exchanges a valid refresh token for a fresh pair. The user is
// re-read so a role change since login lands in the new access token.
func (s *AuthService) Refresh(refreshToken string) (*models.User, *auth.TokenPair, error) {
	userID, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, nil, ErrBadRefresh
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrBadRefresh
		}
		return nil, nil, err
	}
	return s.issuePair(u)
}

func (s *AuthService) issuePair(u *models.User) (*models.User, *auth.TokenPair, error) {
	pair, err := s.tokens.IssuePair(u.ID, u.Email, u.Role)
	if err != nil {
		return u, nil, err
	}
	return u, pair, nil
}
