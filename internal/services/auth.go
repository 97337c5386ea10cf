package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"devevent/internal/domain"
)

// AdminAccount is the single organizer allowed to manage events.
type AdminAccount struct {
	Email        string
	PasswordSalt string
	PasswordHash string
}

type authService struct {
	admin    AdminAccount
	hasher   domain.PasswordHasher
	issuer   domain.TokenIssuer
	tokenTTL time.Duration
	logger   *slog.Logger
}

// NewAuthService returns an AuthService that checks credentials against admin.
func NewAuthService(admin AdminAccount, hasher domain.PasswordHasher, issuer domain.TokenIssuer, tokenTTL time.Duration, logger *slog.Logger) domain.AuthService {
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	return &authService{
		admin:    admin,
		hasher:   hasher,
		issuer:   issuer,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	if s.admin.Email == "" || s.admin.PasswordHash == "" {
		s.logger.WarnContext(ctx, "login attempted but no admin account is configured")
		return "", domain.ErrUnauthorized
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email != s.admin.Email || password == "" {
		return "", domain.ErrUnauthorized
	}
	if err := s.hasher.Compare(s.admin.PasswordHash, s.admin.PasswordSalt, password); err != nil {
		return "", domain.ErrUnauthorized
	}

	token, err := s.issuer.Issue(email, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
