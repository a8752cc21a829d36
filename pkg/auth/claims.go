// Package auth issues and validates the bearer tokens accepted by riskd and
// enforces them on gRPC calls.
package auth

import (
	"context"
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Roles carried in tokens.
const (
	// RoleAnalyst may upload batches and read insights over REST.
	RoleAnalyst = "risk_analyst"
	// RoleScoringClient may only score single transactions over gRPC.
	RoleScoringClient = "scoring_client"
)

// Claims are the token claims accepted by the risk services. The subject
// names the calling user or system.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// HasRole reports whether the claims include role.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// HasAnyRole reports whether the claims include at least one of roles. An
// empty list accepts every caller.
func (c Claims) HasAnyRole(roles []string) bool {
	if len(roles) == 0 {
		return true
	}
	return slices.ContainsFunc(roles, c.HasRole)
}

type contextKey struct{}

// ContextWithClaims returns a new context with the given Claims attached.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, contextKey{}, claims)
}

// ClaimsFromContext extracts Claims from the context.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(contextKey{}).(*Claims)
	return claims, ok
}
