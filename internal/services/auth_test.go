package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devevent/internal/domain"
)

func TestAuthService_Login(t *testing.T) {
	admin := AdminAccount{Email: " Admin@Example.com ", PasswordSalt: "pepper", PasswordHash: "pepper:s3cret"}

	tests := []struct {
		name     string
		admin    AdminAccount
		email    string
		password string
		issueErr error
		wantErr  error
	}{
		{name: "valid", admin: admin, email: "ADMIN@example.com", password: "s3cret"},
		{name: "wrong password", admin: admin, email: "admin@example.com", password: "guess", wantErr: domain.ErrUnauthorized},
		{name: "empty password", admin: admin, email: "admin@example.com", password: "", wantErr: domain.ErrUnauthorized},
		{name: "other email", admin: admin, email: "eve@example.com", password: "s3cret", wantErr: domain.ErrUnauthorized},
		{name: "no admin configured", admin: AdminAccount{}, email: "", password: "x", wantErr: domain.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer := &fakeIssuer{err: tt.issueErr}
			s := NewAuthService(tt.admin, plainHasher{}, issuer, 12*time.Hour, testLogger)

			token, err := s.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "token-for-admin@example.com", token)
			assert.Equal(t, "admin@example.com", issuer.subject)
			assert.Equal(t, 12*time.Hour, issuer.expiry)
		})
	}
}

func TestAuthService_Login_IssueFailure(t *testing.T) {
	admin := AdminAccount{Email: "admin@example.com", PasswordSalt: "p", PasswordHash: "p:pw"}
	s := NewAuthService(admin, plainHasher{}, &fakeIssuer{err: errors.New("sign")}, time.Hour, testLogger)

	_, err := s.Login(context.Background(), "admin@example.com", "pw")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnauthorized)
}
