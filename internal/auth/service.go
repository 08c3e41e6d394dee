// Package auth verifies the bearer tokens that identify a request's user.
// Tokens are HS256 JWTs carrying the user id in sub and the account role.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"auraestate-backend/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultTokenTTL = 7 * 24 * time.Hour

// Claims is the token payload.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies bearer tokens with a shared secret.
type Tokens struct {
	Secret []byte
}

func NewTokens(secret string) *Tokens {
	return &Tokens{Secret: []byte(secret)}
}

// Sign issues a token for the user. Used by the seed command and tests; the
// login flow that hands tokens to browsers lives outside this service.
func (t *Tokens) Sign(userID uuid.UUID, role domain.Role, ttl time.Duration) (string, error) {
	if len(t.Secret) == 0 {
		return "", ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := time.Now()
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
}

// Verify parses a raw token and returns the actor it names.
func (t *Tokens) Verify(raw string) (*domain.Actor, error) {
	if len(t.Secret) == 0 {
		return nil, ErrMissingSecret
	}
	if raw == "" {
		return nil, ErrMissingToken
	}
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return t.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &domain.Actor{ID: id, Role: domain.Role(strings.ToUpper(claims.Role))}, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(parts[1]), nil
}

// IsTokenError reports whether err came from token verification rather than configuration.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrMissingToken)
}
