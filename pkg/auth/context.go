// Package auth issues and verifies bearer tokens, hashes passwords, and
// carries verified claims through request contexts.
package auth

import "context"

type claimsKey struct{}

// WithClaims stores verified claims in ctx.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromCtx returns the claims stored by the auth gate.
func ClaimsFromCtx(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*Claims)
	return claims, ok && claims != nil
}

// SubjectFromCtx returns the authenticated subject, or "".
func SubjectFromCtx(ctx context.Context) string {
	if claims, ok := ClaimsFromCtx(ctx); ok {
		return claims.Subject
	}
	return ""
}
