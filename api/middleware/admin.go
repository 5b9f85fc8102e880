package middleware

import (
	"context"
	"net/http"

	"github.com/angelmondragon/londonshop-backend/api/responses"
	pkgAuth "github.com/angelmondragon/londonshop-backend/pkg/auth"
	pkgerrors "github.com/angelmondragon/londonshop-backend/pkg/errors"
	"github.com/angelmondragon/londonshop-backend/pkg/logger"
)

// AdminVerifier validates an admin session token.
type AdminVerifier interface {
	Verify(ctx context.Context, token string) (*pkgAuth.AdminClaims, error)
}

// RequireAdmin rejects requests without a live admin session cookie and
// seeds the context with the session claims.
func RequireAdmin(verifier AdminVerifier, cookieName string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin session required"))
				return
			}

			claims, err := verifier.Verify(r.Context(), cookie.Value)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := withAdminClaims(r.Context(), claims)
			if logg != nil {
				ctx = logg.WithAdmin(ctx, claims.ID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
