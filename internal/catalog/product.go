package catalog

import "github.com/shopspring/decimal"

// Product is one immutable catalog entry.
type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category"`
	CategorySlug string          `json:"category_slug"`
	Slug         string          `json:"slug"`
	ImageSrc     string          `json:"image_src"`
	Sizes        []string        `json:"sizes"`
	Colors       []string        `json:"colors"`
}

// Category is a de-duplicated category heading.
type Category struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// Snapshot is a product variant copied at add-to-cart time. The price is
// frozen here and never re-read from the catalog.
type Snapshot struct {
	ProductID    string
	Name         string
	Price        decimal.Decimal
	ImageSrc     string
	Slug         string
	CategorySlug string
	Color        string
	Size         string
}

func (p Product) HasSize(size string) bool {
	return contains(p.Sizes, size)
}

func (p Product) HasColor(color string) bool {
	return contains(p.Colors, color)
}

// Snapshot captures the product as the chosen color/size variant. It does not
// check the variant against Sizes/Colors.
func (p Product) Snapshot(color, size string) Snapshot {
	return Snapshot{
		ProductID:    p.ID,
		Name:         p.Name,
		Price:        p.Price,
		ImageSrc:     p.ImageSrc,
		Slug:         p.Slug,
		CategorySlug: p.CategorySlug,
		Color:        color,
		Size:         size,
	}
}

func (p Product) clone() Product {
	p.Sizes = append([]string(nil), p.Sizes...)
	p.Colors = append([]string(nil), p.Colors...)
	return p
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
