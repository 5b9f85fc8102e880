package middleware

import (
	"context"

	pkgAuth "github.com/angelmondragon/londonshop-backend/pkg/auth"
)

type contextKey string

const (
	ctxRequestID   contextKey = "request_id"
	ctxCartSession contextKey = "cart_session"
	ctxAdminClaims contextKey = "admin_claims"
)

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRequestID).(string); ok {
		return v
	}
	return ""
}

// CartSessionFromContext returns the browsing session id set by CartSession.
func CartSessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxCartSession).(string); ok {
		return v
	}
	return ""
}

func AdminClaimsFromContext(ctx context.Context) *pkgAuth.AdminClaims {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxAdminClaims).(*pkgAuth.AdminClaims); ok {
		return v
	}
	return nil
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxRequestID, id)
}

// WithCartSession injects the browsing session id into the context.
func WithCartSession(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCartSession, sessionID)
}

func withAdminClaims(ctx context.Context, claims *pkgAuth.AdminClaims) context.Context {
	return context.WithValue(ctx, ctxAdminClaims, claims)
}
