package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"devevent/internal/domain"
)

const issuer = "devevent"

// JWTSigner issues and verifies HS256 tokens for the organizer account.
type JWTSigner struct {
	secret []byte
	now    func() time.Time
}

// NewJWTSigner returns a signer using secret for both signing and verification.
func NewJWTSigner(secret string) *JWTSigner {
	return &JWTSigner{secret: []byte(secret), now: time.Now}
}

var (
	_ domain.TokenIssuer   = (*JWTSigner)(nil)
	_ domain.TokenVerifier = (*JWTSigner)(nil)
)

func (s *JWTSigner) Issue(subject string, expiry time.Duration) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, algorithm, issuer and expiry of token.
// Any failure is reported as domain.ErrUnauthorized.
func (s *JWTSigner) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return "", errors.Join(domain.ErrUnauthorized, errors.New("token has no subject"))
	}
	return claims.Subject, nil
}
