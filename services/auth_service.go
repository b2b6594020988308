package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/nutrixpro/nutrix-backend/models"
	"github.com/nutrixpro/nutrix-backend/store"
	"github.com/nutrixpro/nutrix-backend/utils"
)

type AuthService struct {
	profiles  store.ProfileStore
	secret    []byte
	tokenTTL  time.Duration
	defaultTZ string
}

func NewAuthService(profiles store.ProfileStore, secret []byte, tokenTTL time.Duration, defaultTZ string) *AuthService {
	return &AuthService{profiles: profiles, secret: secret, tokenTTL: tokenTTL, defaultTZ: defaultTZ}
}

// RegisterUser creates an account with a hashed password.
func (s *AuthService) RegisterUser(ctx context.Context, email, password, displayName string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, NewValidationError("email", "invalid address")
	}
	if len(password) < 6 {
		return nil, NewValidationError("password", "must have at least 6 characters")
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u, err := s.profiles.CreateUser(ctx, &models.User{
		Email:       email,
		Password:    hashed,
		DisplayName: strings.TrimSpace(displayName),
		TimeZone:    s.defaultTZ,
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return nil, NewValidationError("email", "already registered")
	}
	return u, err
}

// AuthenticateUser checks the credentials and issues a JWT.
func (s *AuthService) AuthenticateUser(ctx context.Context, email, password string) (string, *models.User, error) {
	u, err := s.profiles.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, store.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if !utils.CheckPasswordHash(password, u.Password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(u.ID, u.Email, s.secret, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}
