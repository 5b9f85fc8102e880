package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/londonshop-backend/api/responses"
	"github.com/angelmondragon/londonshop-backend/api/validators"
	"github.com/angelmondragon/londonshop-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/londonshop-backend/pkg/errors"
	"github.com/angelmondragon/londonshop-backend/pkg/logger"
)

const maxSearchQueryLen = 100

// CatalogReader is the read side of the product catalog.
type CatalogReader interface {
	Categories() []catalog.Category
	Products() []catalog.Product
	ProductsByCategory(categorySlug string) []catalog.Product
	Product(categorySlug, slug string) (catalog.Product, bool)
	Search(query string) []catalog.Product
}

func CatalogCategories(c CatalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		responses.WriteSuccess(w, c.Categories())
	}
}

func CatalogProducts(c CatalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		responses.WriteSuccess(w, c.Products())
	}
}

// CatalogCategoryProducts lists a category; an unknown category is an empty
// list, not an error.
func CatalogCategoryProducts(c CatalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		responses.WriteSuccess(w, c.ProductsByCategory(chi.URLParam(r, "category")))
	}
}

func CatalogProduct(c CatalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		product, ok := c.Product(chi.URLParam(r, "category"), chi.URLParam(r, "slug"))
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func CatalogSearch(c CatalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		query := validators.SanitizeString(r.URL.Query().Get("q"), maxSearchQueryLen)
		responses.WriteSuccess(w, c.Search(query))
	}
}
