package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/taskly/taskly-api/internal/core/domain"
	"github.com/taskly/taskly-api/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	credentials ports.CredentialStore
	tokens      ports.TokenIssuer
	log         zerolog.Logger
}

func NewAuthService(credentials ports.CredentialStore, tokens ports.TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{credentials: credentials, tokens: tokens, log: log}
}

var _ ports.AuthService = (*AuthService)(nil)

// Register creates an account. No token is issued; the caller logs in
// separately. Nothing is persisted unless every precondition holds.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) error {
	input.Email = strings.TrimSpace(input.Email)
	if err := domain.Validate(input); err != nil {
		return err
	}

	user, err := s.credentials.Create(ctx, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			s.log.Info().Msg("registration rejected: email already registered")
			return domain.ErrRegistrationFailed
		}
		s.log.Error().Err(err).Msg("registration failed")
		return err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return nil
}

// Login verifies the credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	user, err := s.credentials.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.log.Error().Err(err).Msg("credential lookup failed")
			return "", err
		}
		user = nil
	}

	if !s.credentials.VerifyPassword(user, password) {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("token issuance failed")
		return "", err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return token, nil
}
