package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pkordes/travel-orders/internal/auth"
	"github.com/pkordes/travel-orders/internal/domain"
	"github.com/pkordes/travel-orders/internal/repo"
)

// AuthService handles accounts and bearer tokens.
type AuthService struct {
	users   repo.UserRepo
	revoked repo.RevokedTokenRepo
	tokens  *auth.Tokens
}

// NewAuthService constructs an AuthService.
func NewAuthService(users repo.UserRepo, revoked repo.RevokedTokenRepo, tokens *auth.Tokens) *AuthService {
	return &AuthService{users: users, revoked: revoked, tokens: tokens}
}

// Register validates in and creates the account.
// Returns *domain.ConflictError when the email is already registered.
func (s *AuthService) Register(ctx context.Context, in domain.RegisterInput) (domain.User, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return domain.User{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		IsAdmin:      in.IsAdmin,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}
	return user, nil
}

// Login checks the credentials and issues an access token. Unknown emails
// and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (auth.Token, error) {
	invalid := &domain.UnauthenticatedError{Reason: domain.AuthInvalidCredentials}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return auth.Token{}, invalid
		}
		return auth.Token{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return auth.Token{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	if !ok {
		return auth.Token{}, invalid
	}

	tok, err := s.tokens.Issue(user)
	if err != nil {
		return auth.Token{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	return tok, nil
}

// Logout revokes the token actor authenticated with.
func (s *AuthService) Logout(ctx context.Context, actor domain.Actor) error {
	if err := s.revoked.Revoke(ctx, actor.TokenID, actor.ExpiresAt); err != nil {
		return fmt.Errorf("service.AuthService.Logout: %w", err)
	}
	return nil
}

// Me returns actor's account.
func (s *AuthService) Me(ctx context.Context, actor domain.Actor) (domain.User, error) {
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Me: %w", err)
	}
	return user, nil
}

// Authenticate verifies a bearer token and rejects revoked ones.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Actor, error) {
	if token == "" {
		return domain.Actor{}, &domain.UnauthenticatedError{Reason: domain.AuthTokenMissing}
	}

	actor, err := s.tokens.Parse(token)
	if err != nil {
		return domain.Actor{}, err
	}

	revoked, err := s.revoked.IsRevoked(ctx, actor.TokenID)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("service.AuthService.Authenticate: %w", err)
	}
	if revoked {
		return domain.Actor{}, &domain.UnauthenticatedError{Reason: domain.AuthTokenRevoked}
	}
	return actor, nil
}

// PurgeRevoked forgets revocations of tokens that have expired by now.
func (s *AuthService) PurgeRevoked(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.revoked.PurgeExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("service.AuthService.PurgeRevoked: %w", err)
	}
	return n, nil
}
