package cart

import (
	"context"
	"net/http"

	"github.com/angelmondragon/londonshop-backend/api/middleware"
	"github.com/angelmondragon/londonshop-backend/api/responses"
	"github.com/angelmondragon/londonshop-backend/api/validators"
	cartsvc "github.com/angelmondragon/londonshop-backend/internal/cart"
	"github.com/angelmondragon/londonshop-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/londonshop-backend/pkg/errors"
	"github.com/angelmondragon/londonshop-backend/pkg/logger"
)

// SessionOpener yields the live cart for a browsing session.
type SessionOpener interface {
	Open(ctx context.Context, sessionID string) (*cartsvc.Manager, error)
}

type productFinder interface {
	Product(categorySlug, slug string) (catalog.Product, bool)
}

// CartFetch returns the session's cart.
func CartFetch(sessions SessionOpener, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := openCart(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newView(m.State()))
	}
}

// CartAddItem adds one unit of a catalog variant. The product must exist and
// offer the requested color and size.
func CartAddItem(sessions SessionOpener, products productFinder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, ok := products.Product(payload.CategorySlug, payload.Slug)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}
		if !product.HasColor(payload.Color) || !product.HasSize(payload.Size) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "variant not offered").
				WithDetails(map[string]any{"colors": product.Colors, "sizes": product.Sizes}))
			return
		}

		m, err := openCart(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m.AddItem(r.Context(), product.Snapshot(payload.Color, payload.Size))
		responses.WriteSuccess(w, newView(m.State()))
	}
}

// CartUpdateItem sets the quantity of a line.
func CartUpdateItem(sessions SessionOpener, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload UpdateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		m, err := openCart(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m.UpdateQuantity(r.Context(), payload.ProductID, payload.Color, payload.Size, payload.Quantity)
		responses.WriteSuccess(w, newView(m.State()))
	}
}

// CartRemoveItem deletes a line.
func CartRemoveItem(sessions SessionOpener, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload RemoveItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		m, err := openCart(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m.RemoveItem(r.Context(), payload.ProductID, payload.Color, payload.Size)
		responses.WriteSuccess(w, newView(m.State()))
	}
}

// CartClear empties the cart.
func CartClear(sessions SessionOpener, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := openCart(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m.Clear(r.Context())
		responses.WriteSuccess(w, newView(m.State()))
	}
}

// CartSetOpen toggles the cart panel flag.
func CartSetOpen(sessions SessionOpener, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload OpenRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		m, err := openCart(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m.SetOpen(r.Context(), *payload.Open)
		responses.WriteSuccess(w, newView(m.State()))
	}
}

func openCart(r *http.Request, sessions SessionOpener) (*cartsvc.Manager, error) {
	if sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart sessions unavailable")
	}
	sessionID := middleware.CartSessionFromContext(r.Context())
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session missing")
	}
	m, err := sessions.Open(r.Context(), sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open cart")
	}
	return m, nil
}
