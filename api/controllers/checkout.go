package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/londonshop-backend/api/middleware"
	"github.com/angelmondragon/londonshop-backend/api/responses"
	"github.com/angelmondragon/londonshop-backend/api/validators"
	"github.com/angelmondragon/londonshop-backend/internal/cart"
	"github.com/angelmondragon/londonshop-backend/internal/checkout"
	pkgerrors "github.com/angelmondragon/londonshop-backend/pkg/errors"
	"github.com/angelmondragon/londonshop-backend/pkg/logger"
)

type cartOpener interface {
	Open(ctx context.Context, sessionID string) (*cart.Manager, error)
}

// checkoutPayload carries no validate tags; the checkout service trims the
// fields before validating them.
type checkoutPayload struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Note      string `json:"note"`
}

type checkoutResponse struct {
	Submitted  bool   `json:"submitted"`
	FeedbackID string `json:"feedback_id"`
	Fallback   bool   `json:"fallback"`
	ItemCount  int    `json:"item_count"`
	Total      string `json:"total"`
}

// CheckoutSubmit sends the session's cart with the shopper's contact details.
// The cart is emptied only when the submission is accepted.
func CheckoutSubmit(svc checkout.Service, carts cartOpener, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || carts == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}

		sessionID := middleware.CartSessionFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart session missing"))
			return
		}

		var payload checkoutPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		m, err := carts.Open(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open cart"))
			return
		}

		res, err := svc.Submit(r.Context(), m, checkout.Contact{
			Email:     payload.Email,
			FirstName: payload.FirstName,
			LastName:  payload.LastName,
			Note:      payload.Note,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, checkoutResponse{
			Submitted:  res.Submitted,
			FeedbackID: res.FeedbackID,
			Fallback:   res.Fallback,
			ItemCount:  res.ItemCount,
			Total:      res.Total.StringFixed(2),
		})
	}
}
