package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkordes/travel-orders/internal/auth"
	"github.com/pkordes/travel-orders/internal/domain"
)

// Authenticator resolves a raw bearer token to the actor presenting it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Actor, error)
}

// NewAuthenticator returns a middleware that requires a valid bearer token.
// The resolved actor is stored in the request context (see auth.ActorFromContext).
// Failures are handed to onError, which writes the response.
func NewAuthenticator(authn Authenticator, onError func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				onError(w, r, err)
				return
			}

			actor, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				onError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), actor)))
		})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// A missing header yields an empty token so the authenticator reports it.
func bearerToken(r *http.Request) (string, error) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if h == "" {
		return "", nil
	}
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", &domain.UnauthenticatedError{Reason: domain.AuthTokenInvalid}
	}
	return strings.TrimSpace(token), nil
}
