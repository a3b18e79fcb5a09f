// Package auth issues and verifies bearer credentials. Tokens are HS256 JWTs
// carrying the user id, the admin flag and a unique token id used for
// revocation on logout.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pkordes/travel-orders/internal/domain"
)

// Claims is the JWT payload.
type Claims struct {
	Admin bool `json:"adm"`
	jwt.RegisteredClaims
}

// Token is a freshly issued access token.
type Token struct {
	Value     string
	ID        string
	ExpiresAt time.Time
}

// Tokens signs and verifies access tokens with a shared secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens returns a Tokens signing with secret; issued tokens live for ttl.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock returns a copy of t that reads the current time from now.
func (t *Tokens) WithClock(now func() time.Time) *Tokens {
	c := *t
	c.now = now
	return &c
}

// TTL is the lifetime of issued tokens.
func (t *Tokens) TTL() time.Duration { return t.ttl }

// Issue signs a token for user.
func (t *Tokens) Issue(user domain.User) (Token, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	id := uuid.NewString()

	claims := Claims{
		Admin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return Token{}, fmt.Errorf("auth.Tokens.Issue: %w", err)
	}
	return Token{Value: signed, ID: id, ExpiresAt: exp}, nil
}

// Parse verifies raw and returns the actor it identifies. Failures are
// *domain.UnauthenticatedError with AuthTokenExpired or AuthTokenInvalid.
// Revocation is not checked here.
func (t *Tokens) Parse(raw string) (domain.Actor, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Actor{}, &domain.UnauthenticatedError{Reason: domain.AuthTokenExpired}
		}
		return domain.Actor{}, &domain.UnauthenticatedError{Reason: domain.AuthTokenInvalid}
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 || claims.ID == "" {
		return domain.Actor{}, &domain.UnauthenticatedError{Reason: domain.AuthTokenInvalid}
	}

	return domain.Actor{
		ID:        id,
		IsAdmin:   claims.Admin,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
