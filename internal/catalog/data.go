package catalog

import "github.com/shopspring/decimal"

var (
	apparelSizes = []string{"S", "M", "L", "XL"}
	mugSizes     = []string{"Standard", "Large"}
	whiteOnly    = []string{"White"}
	whiteBlack   = []string{"White", "Black"}
)

// LondonShop returns the built-in product table.
func LondonShop() []Product {
	return []Product{
		{
			ID:           "hoodie-1",
			Name:         "London Signature Hoodie",
			Price:        decimal.RequireFromString("49.99"),
			Description:  "Premium cotton blend hoodie featuring our signature London Shop logo. Available in white or black.",
			Category:     "Hoodies",
			CategorySlug: "hoodies",
			Slug:         "hoodie-1",
			ImageSrc:     "/products/white-hoodie.png",
			Sizes:        apparelSizes,
			Colors:       whiteBlack,
		},
		{
			ID:           "hoodie-2",
			Name:         "London Underground Hoodie",
			Price:        decimal.RequireFromString("59.99"),
			Description:  "Premium cotton blend hoodie featuring the iconic London Underground inspired roundel design.",
			Category:     "Hoodies",
			CategorySlug: "hoodies",
			Slug:         "hoodie-2",
			ImageSrc:     "/products/underground-hoodie.png",
			Sizes:        apparelSizes,
			Colors:       whiteOnly,
		},
		{
			ID:           "tshirt-1",
			Name:         "London Signature T-Shirt",
			Price:        decimal.RequireFromString("29.99"),
			Description:  "100% organic cotton t-shirt featuring our signature London Shop logo. Available in white or black.",
			Category:     "T-Shirts",
			CategorySlug: "t-shirts",
			Slug:         "tshirt-1",
			ImageSrc:     "/products/white-tshirt.png",
			Sizes:        apparelSizes,
			Colors:       whiteBlack,
		},
		{
			ID:           "tshirt-2",
			Name:         "London Underground T-Shirt",
			Price:        decimal.RequireFromString("34.99"),
			Description:  "100% organic cotton t-shirt featuring the iconic London Underground inspired roundel design.",
			Category:     "T-Shirts",
			CategorySlug: "t-shirts",
			Slug:         "tshirt-2",
			ImageSrc:     "/products/underground-tshirt.png",
			Sizes:        apparelSizes,
			Colors:       whiteOnly,
		},
		{
			ID:           "memory-1",
			Name:         "London Iconic Places Memory Game",
			Price:        decimal.RequireFromString("19.99"),
			Description:  "Test your memory with 30 pairs of cards featuring London's most iconic landmarks and symbols.",
			Category:     "Memory Games",
			CategorySlug: "memory-games",
			Slug:         "memory-1",
			ImageSrc:     "/products/memory-games-iconic.png",
			Sizes:        []string{"One Size"},
			Colors:       []string{"Multicolor"},
		},
		{
			ID:           "memory-2",
			Name:         "London Underground Memory Game",
			Price:        decimal.RequireFromString("24.99"),
			Description:  "Challenge your memory with 24 pairs of cards featuring London Underground stations and symbols.",
			Category:     "Memory Games",
			CategorySlug: "memory-games",
			Slug:         "memory-2",
			ImageSrc:     "/products/memory-underground.png",
			Sizes:        []string{"One Size"},
			Colors:       []string{"Multicolor"},
		},
		{
			ID:           "mug-1",
			Name:         "London Signature Mug",
			Price:        decimal.RequireFromString("14.99"),
			Description:  "High-quality ceramic mug featuring our signature London Shop logo. Available in white or black.",
			Category:     "Mugs",
			CategorySlug: "mugs",
			Slug:         "mug-1",
			ImageSrc:     "/products/white-mug.png",
			Sizes:        mugSizes,
			Colors:       whiteBlack,
		},
		{
			ID:           "mug-2",
			Name:         "London Underground Mug",
			Price:        decimal.RequireFromString("17.99"),
			Description:  "High-quality ceramic mug featuring the iconic London Underground inspired roundel design.",
			Category:     "Mugs",
			CategorySlug: "mugs",
			Slug:         "mug-2",
			ImageSrc:     "/products/underground-mug.png",
			Sizes:        mugSizes,
			Colors:       whiteOnly,
		},
	}
}

// Default builds the catalog from the London Shop product table.
func Default() *Catalog {
	return MustNew(LondonShop())
}
