package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/angelmondragon/londonshop-backend/api/middleware"
	cartsvc "github.com/angelmondragon/londonshop-backend/internal/cart"
	"github.com/angelmondragon/londonshop-backend/internal/catalog"
	"github.com/angelmondragon/londonshop-backend/pkg/logger"
)

const testSession = "0b6c7a8e-1f0a-4d4e-9c1a-7e2b5d3f9a10"

type failingOpener struct{}

func (failingOpener) Open(context.Context, string) (*cartsvc.Manager, error) {
	return nil, errors.New("store unavailable")
}

func newSessions(t *testing.T) *cartsvc.Sessions {
	t.Helper()
	sessions, err := cartsvc.NewSessions(cartsvc.SessionsParams{
		StoreFor: cartsvc.MemoryStoreFactory(),
		IdleTTL:  time.Minute,
	})
	if err != nil {
		t.Fatalf("new sessions: %v", err)
	}
	return sessions
}

func newRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	return req.WithContext(middleware.WithCartSession(req.Context(), testSession))
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) View {
	t.Helper()
	var resp struct {
		Data View `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.Data
}

func TestCartAddItemMergesVariants(t *testing.T) {
	sessions := newSessions(t)
	handler := CartAddItem(sessions, catalog.Default(), logger.Nop())

	body := AddItemRequest{CategorySlug: "mugs", Slug: "mug-1", Color: "White", Size: "Standard"}
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest(t, http.MethodPost, "/api/v1/cart/items", body))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
		}
	}

	rec := httptest.NewRecorder()
	CartFetch(sessions, logger.Nop()).ServeHTTP(rec, newRequest(t, http.MethodGet, "/api/v1/cart", nil))
	view := decodeView(t, rec)
	if len(view.Items) != 1 || view.Items[0].Quantity != 2 {
		t.Fatalf("expected one line with quantity 2, got %+v", view.Items)
	}
	if view.Count != 2 || view.Total != "29.98" {
		t.Fatalf("unexpected totals count=%d total=%s", view.Count, view.Total)
	}
	if view.Items[0].Subtotal != "29.98" || view.Items[0].Price != "14.99" {
		t.Fatalf("unexpected line money %+v", view.Items[0])
	}
}

func TestCartAddItemUnknownProduct(t *testing.T) {
	handler := CartAddItem(newSessions(t), catalog.Default(), logger.Nop())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newRequest(t, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{CategorySlug: "mugs", Slug: "teapot", Color: "White", Size: "Standard"}))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestCartAddItemRejectsUnofferedVariant(t *testing.T) {
	sessions := newSessions(t)
	handler := CartAddItem(sessions, catalog.Default(), logger.Nop())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newRequest(t, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{CategorySlug: "mugs", Slug: "mug-2", Color: "Black", Size: "Standard"}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}

	m, err := sessions.Open(context.Background(), testSession)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if m.Count() != 0 {
		t.Fatalf("expected cart untouched, count=%d", m.Count())
	}
}

func TestCartAddItemRequiresSession(t *testing.T) {
	handler := CartAddItem(newSessions(t), catalog.Default(), logger.Nop())
	body, _ := json.Marshal(AddItemRequest{CategorySlug: "mugs", Slug: "mug-1", Color: "White", Size: "Standard"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestCartUpdateAndRemove(t *testing.T) {
	sessions := newSessions(t)
	m, err := sessions.Open(context.Background(), testSession)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	mug, _ := catalog.Default().Product("mugs", "mug-1")
	m.AddItem(context.Background(), mug.Snapshot("White", "Standard"))
	m.AddItem(context.Background(), mug.Snapshot("Black", "Large"))

	rec := httptest.NewRecorder()
	CartUpdateItem(sessions, logger.Nop()).ServeHTTP(rec, newRequest(t, http.MethodPatch, "/api/v1/cart/items",
		UpdateItemRequest{ProductID: "mug-1", Color: "White", Size: "Standard", Quantity: 4}))
	view := decodeView(t, rec)
	if view.Count != 5 {
		t.Fatalf("expected count 5 got %d", view.Count)
	}

	rec = httptest.NewRecorder()
	CartUpdateItem(sessions, logger.Nop()).ServeHTTP(rec, newRequest(t, http.MethodPatch, "/api/v1/cart/items",
		UpdateItemRequest{ProductID: "mug-1", Color: "White", Size: "Standard", Quantity: 0}))
	view = decodeView(t, rec)
	if len(view.Items) != 1 || view.Items[0].Color != "Black" {
		t.Fatalf("expected zero quantity to remove the line, got %+v", view.Items)
	}

	rec = httptest.NewRecorder()
	CartRemoveItem(sessions, logger.Nop()).ServeHTTP(rec, newRequest(t, http.MethodDelete, "/api/v1/cart/items",
		RemoveItemRequest{ProductID: "mug-1", Color: "Black", Size: "Large"}))
	view = decodeView(t, rec)
	if len(view.Items) != 0 || view.Total != "0.00" {
		t.Fatalf("expected empty cart, got %+v", view)
	}
}

func TestCartClearAndOpen(t *testing.T) {
	sessions := newSessions(t)
	m, err := sessions.Open(context.Background(), testSession)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	hoodie, _ := catalog.Default().Product("hoodies", "hoodie-1")
	m.AddItem(context.Background(), hoodie.Snapshot("Black", "M"))

	rec := httptest.NewRecorder()
	CartSetOpen(sessions, logger.Nop()).ServeHTTP(rec, newRequest(t, http.MethodPut, "/api/v1/cart/open", map[string]bool{"open": true}))
	if view := decodeView(t, rec); !view.Open || view.Count != 1 {
		t.Fatalf("expected open cart with one item, got %+v", view)
	}

	rec = httptest.NewRecorder()
	CartClear(sessions, logger.Nop()).ServeHTTP(rec, newRequest(t, http.MethodDelete, "/api/v1/cart", nil))
	view := decodeView(t, rec)
	if view.Count != 0 || !view.Open {
		t.Fatalf("expected empty cart that stays open, got %+v", view)
	}
}

func TestCartSetOpenRequiresFlag(t *testing.T) {
	rec := httptest.NewRecorder()
	CartSetOpen(newSessions(t), logger.Nop()).ServeHTTP(rec, newRequest(t, http.MethodPut, "/api/v1/cart/open", map[string]any{}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestCartFetchSurfacesOpenFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	CartFetch(failingOpener{}, logger.Nop()).ServeHTTP(rec, newRequest(t, http.MethodGet, "/api/v1/cart", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
}
