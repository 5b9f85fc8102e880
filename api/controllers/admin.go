package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/londonshop-backend/api/middleware"
	"github.com/angelmondragon/londonshop-backend/api/responses"
	"github.com/angelmondragon/londonshop-backend/api/validators"
	"github.com/angelmondragon/londonshop-backend/internal/admin"
	"github.com/angelmondragon/londonshop-backend/internal/feedback"
	"github.com/angelmondragon/londonshop-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/londonshop-backend/pkg/errors"
	"github.com/angelmondragon/londonshop-backend/pkg/logger"
	"github.com/angelmondragon/londonshop-backend/pkg/pagination"
)

type adminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type adminSessionResponse struct {
	Authenticated bool       `json:"authenticated"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

// AdminLogin exchanges the admin password for a session cookie.
func AdminLogin(svc admin.Service, cfg config.AdminConfig, secure bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		var payload adminLoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		res, err := svc.Login(r.Context(), payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     cfg.CookieName,
			Value:    res.Token,
			Path:     "/",
			Expires:  res.ExpiresAt,
			MaxAge:   int(cfg.SessionTTL.Seconds()),
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteStrictMode,
		})
		expires := res.ExpiresAt.UTC()
		responses.WriteSuccess(w, adminSessionResponse{Authenticated: true, ExpiresAt: &expires})
	}
}

// AdminLogout revokes the presented session and always clears the cookie.
func AdminLogout(svc admin.Service, cfg config.AdminConfig, secure bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		if cookie, err := r.Cookie(cfg.CookieName); err == nil {
			if err := svc.Logout(r.Context(), cookie.Value); err != nil && logg != nil {
				logg.Error(r.Context(), "admin logout revoke failed", err)
			}
		}

		http.SetCookie(w, &http.Cookie{
			Name:     cfg.CookieName,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteStrictMode,
		})
		responses.WriteSuccess(w, adminSessionResponse{Authenticated: false})
	}
}

// AdminCheck runs behind RequireAdmin, so reaching it means the session is live.
func AdminCheck(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.AdminClaimsFromContext(r.Context())
		if claims == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin session required"))
			return
		}
		var expires *time.Time
		if claims.ExpiresAt != nil {
			t := claims.ExpiresAt.Time.UTC()
			expires = &t
		}
		responses.WriteSuccess(w, adminSessionResponse{Authenticated: true, ExpiresAt: expires})
	}
}

// AdminListFeedback pages through checkout feedback, newest first.
func AdminListFeedback(svc feedback.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "feedback service unavailable"))
			return
		}

		params, err := pagination.ParamsFromQuery(r.URL.Query())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pagination parameters"))
			return
		}

		page, err := svc.ListFeedback(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// AdminListCustomers pages through customers, newest first.
func AdminListCustomers(svc feedback.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "feedback service unavailable"))
			return
		}

		params, err := pagination.ParamsFromQuery(r.URL.Query())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pagination parameters"))
			return
		}

		page, err := svc.ListCustomers(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
