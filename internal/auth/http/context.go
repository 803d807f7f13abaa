// Package http provides the authentication endpoints and their middleware.
package http

import (
	"context"

	authDomain "github.com/allisson/taskhub/internal/auth/domain"
)

// claimsKey is a context key type for storing verified access token claims.
type claimsKey struct{}

// WithClaims stores verified access token claims in the context.
// This is called by AuthenticationMiddleware after the token is verified.
func WithClaims(ctx context.Context, claims *authDomain.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// GetClaims retrieves the access token claims from the context.
// Returns (claims, true) if present, or (nil, false) if the request was not authenticated.
func GetClaims(ctx context.Context) (*authDomain.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*authDomain.Claims)
	return claims, ok && claims != nil
}
