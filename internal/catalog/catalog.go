package catalog

import (
	"fmt"
	"strings"
)

type compositeKey struct {
	categorySlug string
	slug         string
}

// Catalog serves read-only lookups over a fixed product list. Lookups never
// fail; absence is an empty result or a false flag.
type Catalog struct {
	products   []Product
	byKey      map[compositeKey]int
	byID       map[string]int
	categories []Category
}

// New validates products and builds the lookup indexes. Products keep the
// order they are given in.
func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byKey:    make(map[compositeKey]int, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	seenCategory := map[string]struct{}{}

	for i, p := range products {
		if err := validate(p); err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
		key := compositeKey{categorySlug: p.CategorySlug, slug: p.Slug}
		if _, dup := c.byKey[key]; dup {
			return nil, fmt.Errorf("duplicate product key %s/%s", p.CategorySlug, p.Slug)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}

		c.byKey[key] = len(c.products)
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p.clone())

		if _, ok := seenCategory[p.CategorySlug]; !ok {
			seenCategory[p.CategorySlug] = struct{}{}
			c.categories = append(c.categories, Category{Title: p.Category, Slug: p.CategorySlug})
		}
	}
	return c, nil
}

// MustNew is New for static product tables; it panics on an invalid table.
func MustNew(products []Product) *Catalog {
	c, err := New(products)
	if err != nil {
		panic(err)
	}
	return c
}

func validate(p Product) error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return fmt.Errorf("id is required")
	case strings.TrimSpace(p.CategorySlug) == "":
		return fmt.Errorf("%s: category slug is required", p.ID)
	case strings.TrimSpace(p.Slug) == "":
		return fmt.Errorf("%s: slug is required", p.ID)
	case p.Price.IsNegative():
		return fmt.Errorf("%s: price must not be negative", p.ID)
	case len(p.Sizes) == 0:
		return fmt.Errorf("%s: at least one size is required", p.ID)
	case len(p.Colors) == 0:
		return fmt.Errorf("%s: at least one color is required", p.ID)
	}
	return nil
}

// Product returns the product with the composite key (categorySlug, slug).
func (c *Catalog) Product(categorySlug, slug string) (Product, bool) {
	idx, ok := c.byKey[compositeKey{categorySlug: categorySlug, slug: slug}]
	if !ok {
		return Product{}, false
	}
	return c.products[idx].clone(), true
}

func (c *Catalog) ProductByID(id string) (Product, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[idx].clone(), true
}

// Products returns every product in catalog order.
func (c *Catalog) Products() []Product {
	return c.filter(func(Product) bool { return true })
}

// ProductsByCategory returns the category's products in catalog order, or an
// empty slice for an unknown category.
func (c *Catalog) ProductsByCategory(categorySlug string) []Product {
	return c.filter(func(p Product) bool { return p.CategorySlug == categorySlug })
}

// Categories lists each category once, in first-occurrence order.
func (c *Catalog) Categories() []Category {
	return append([]Category{}, c.categories...)
}

// Search matches query case-insensitively as a substring of the name,
// description or category. A blank query matches nothing.
func (c *Catalog) Search(query string) []Product {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return []Product{}
	}
	return c.filter(func(p Product) bool {
		return strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term) ||
			strings.Contains(strings.ToLower(p.Category), term)
	})
}

func (c *Catalog) filter(keep func(Product) bool) []Product {
	out := []Product{}
	for _, p := range c.products {
		if keep(p) {
			out = append(out, p.clone())
		}
	}
	return out
}
