package cart

import cartsvc "github.com/angelmondragon/londonshop-backend/internal/cart"

// LineView is one cart line as served to the storefront. Money is rendered
// with two decimals.
type LineView struct {
	ProductID    string `json:"product_id"`
	Name         string `json:"name"`
	Price        string `json:"price"`
	ImageSrc     string `json:"image_src"`
	Slug         string `json:"slug"`
	CategorySlug string `json:"category_slug"`
	Color        string `json:"color"`
	Size         string `json:"size"`
	Quantity     int    `json:"quantity"`
	Subtotal     string `json:"subtotal"`
}

// View is the cart as served to the storefront.
type View struct {
	Items []LineView `json:"items"`
	Count int        `json:"count"`
	Total string     `json:"total"`
	Open  bool       `json:"open"`
}

func newView(state cartsvc.State) View {
	items := make([]LineView, 0, len(state.Items))
	for _, it := range state.Items {
		items = append(items, LineView{
			ProductID:    it.ProductID,
			Name:         it.Name,
			Price:        it.Price.StringFixed(2),
			ImageSrc:     it.ImageSrc,
			Slug:         it.Slug,
			CategorySlug: it.CategorySlug,
			Color:        it.Color,
			Size:         it.Size,
			Quantity:     it.Quantity,
			Subtotal:     it.Subtotal().StringFixed(2),
		})
	}
	return View{
		Items: items,
		Count: state.Count,
		Total: state.Total.StringFixed(2),
		Open:  state.Open,
	}
}
