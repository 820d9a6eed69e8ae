package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"expensetracker/internal/apperr"
)

// TokenService issues and verifies signed, time-limited bearer tokens.
// The signing secret and validity window are injected at construction so
// there is no process-global state and tests can use fixed values.
// Tokens are not stored server-side; validity is determined entirely by
// the signature and expiry claims.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a token service signing with the given secret.
// ttl is the fixed validity window applied to every issued token.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue produces a signed HS256 token embedding subject, the current
// timestamp and an expiry timestamp.
func (s *TokenService) Issue(subject string) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// Verify validates the signature and expiry of tokenString and returns the
// embedded subject. A well-signed token past its expiry fails with
// apperr.ErrExpiredToken; any other defect fails with apperr.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperr.ErrExpiredToken
		}
		return "", apperr.ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return "", apperr.ErrInvalidToken
	}

	return claims.Subject, nil
}
