package auth

import (
	"context"

	"lumora.life/internal/access"
)

// Principal is the authenticated caller as seen by request handlers.
type Principal struct {
	UserID      string
	Email       string
	Name        string
	Roles       access.RoleAssignment
	MFAVerified bool
}

// PrincipalFromClaims converts verified token claims into a Principal.
func PrincipalFromClaims(claims *Claims) Principal {
	if claims == nil {
		return Principal{}
	}
	return Principal{
		UserID:      claims.Subject,
		Email:       claims.Email,
		Name:        claims.Name,
		Roles:       claims.Roles,
		MFAVerified: claims.MFAVerified,
	}
}

type principalContextKey struct{}
type tokenContextKey struct{}

// ContextWithPrincipal attaches the authenticated principal to the context.
func ContextWithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, &principal)
}

// PrincipalFromContext extracts the authenticated principal from the context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	v, ok := ctx.Value(principalContextKey{}).(*Principal)
	if !ok || v == nil {
		return Principal{}, false
	}
	return *v, true
}

// ContextWithToken stores the raw bearer token inside the context.
func ContextWithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// TokenFromContext returns the bearer token if it was previously attached.
func TokenFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(tokenContextKey{}).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
