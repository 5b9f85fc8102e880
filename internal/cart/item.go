package cart

import (
	"github.com/angelmondragon/londonshop-backend/internal/catalog"
	"github.com/shopspring/decimal"
)

// StorageKey is the fixed key the line-item list is persisted under.
const StorageKey = "london-shop-cart"

// LineItem is one product/color/size combination in the cart.
type LineItem struct {
	ProductID    string          `json:"product_id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	ImageSrc     string          `json:"image_src"`
	Slug         string          `json:"slug"`
	CategorySlug string          `json:"category_slug"`
	Color        string          `json:"color"`
	Size         string          `json:"size"`
	Quantity     int             `json:"quantity"`
}

// Key identifies a line within a cart.
type Key struct {
	ProductID string
	Color     string
	Size      string
}

func (i LineItem) Key() Key {
	return Key{ProductID: i.ProductID, Color: i.Color, Size: i.Size}
}

// Subtotal is price times quantity.
func (i LineItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func newLineItem(s catalog.Snapshot) LineItem {
	return LineItem{
		ProductID:    s.ProductID,
		Name:         s.Name,
		Price:        s.Price,
		ImageSrc:     s.ImageSrc,
		Slug:         s.Slug,
		CategorySlug: s.CategorySlug,
		Color:        s.Color,
		Size:         s.Size,
		Quantity:     1,
	}
}

// State is a consistent view of the cart at one instant.
type State struct {
	Items []LineItem
	Count int
	Total decimal.Decimal
	Open  bool
}

// storedItem is the persisted shape of a line item.
type storedItem struct {
	ProductID    string          `json:"productId"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	ImageSrc     string          `json:"imageSrc"`
	Quantity     int             `json:"quantity"`
	Color        string          `json:"color"`
	Size         string          `json:"size"`
	Slug         string          `json:"slug"`
	CategorySlug string          `json:"categorySlug"`
}

func toStored(items []LineItem) []storedItem {
	out := make([]storedItem, 0, len(items))
	for _, it := range items {
		out = append(out, storedItem{
			ProductID:    it.ProductID,
			Name:         it.Name,
			Price:        it.Price,
			ImageSrc:     it.ImageSrc,
			Quantity:     it.Quantity,
			Color:        it.Color,
			Size:         it.Size,
			Slug:         it.Slug,
			CategorySlug: it.CategorySlug,
		})
	}
	return out
}

// fromStored drops lines with a non-positive quantity and folds duplicate
// keys into their first occurrence.
func fromStored(stored []storedItem) []LineItem {
	out := make([]LineItem, 0, len(stored))
	index := make(map[Key]int, len(stored))
	for _, s := range stored {
		if s.Quantity <= 0 {
			continue
		}
		item := LineItem{
			ProductID:    s.ProductID,
			Name:         s.Name,
			Price:        s.Price,
			ImageSrc:     s.ImageSrc,
			Slug:         s.Slug,
			CategorySlug: s.CategorySlug,
			Color:        s.Color,
			Size:         s.Size,
			Quantity:     s.Quantity,
		}
		if idx, ok := index[item.Key()]; ok {
			out[idx].Quantity += item.Quantity
			continue
		}
		index[item.Key()] = len(out)
		out = append(out, item)
	}
	return out
}
