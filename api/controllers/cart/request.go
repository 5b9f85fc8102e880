package cart

// AddItemRequest selects a catalog product variant to add.
type AddItemRequest struct {
	CategorySlug string `json:"category_slug" validate:"required"`
	Slug         string `json:"slug" validate:"required"`
	Color        string `json:"color" validate:"required"`
	Size         string `json:"size" validate:"required"`
}

// UpdateItemRequest sets a line's quantity; below 1 removes the line.
type UpdateItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

type RemoveItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

type OpenRequest struct {
	Open *bool `json:"open" validate:"required"`
}
