package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/astrasoul/records-api/internal/config"
	"github.com/astrasoul/records-api/pkg/auth"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Service authenticates the configured admin user and issues the bearer
// tokens guarding the records routes.
type Service struct {
	cfg    config.AuthConfig
	tokens *auth.TokenManager
}

func NewService(cfg config.AuthConfig) *Service {
	return &Service{
		cfg:    cfg,
		tokens: auth.NewTokenManager(cfg.Secret, cfg.TokenExpiry, "records-api"),
	}
}

func (s *Service) Login(username, password string) (string, error) {
	if s.cfg.AdminPasswordHash == "" {
		return "", fmt.Errorf("admin login disabled: no password hash configured")
	}
	if username != s.cfg.AdminUsername {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(username)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}

func (s *Service) ValidateToken(token string) (*auth.Claims, error) {
	return s.tokens.Validate(token)
}
