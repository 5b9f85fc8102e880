package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/londonshop-backend/pkg/config"
	"github.com/angelmondragon/londonshop-backend/pkg/logger"
	"github.com/google/uuid"
)

// CartSession binds every request to a browsing session. The id lives in an
// HttpOnly cookie; a missing or malformed cookie gets a fresh id.
func CartSession(cfg config.CartConfig, secure bool, logg *logger.Logger) func(http.Handler) http.Handler {
	name := strings.TrimSpace(cfg.SessionCookie)
	if name == "" {
		name = "london-shop-cart-session"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if c, err := r.Cookie(name); err == nil {
				if id, err := uuid.Parse(strings.TrimSpace(c.Value)); err == nil {
					sessionID = id.String()
				}
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     name,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(cfg.PersistTTL.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := WithCartSession(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithCartSession(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
