package tiendanube

// LocalizedString holds the per-language values the store API returns for
// names and descriptions. Only Spanish is used by this platform.
type LocalizedString struct {
	Es string `json:"es"`
}

// Product is a raw product as returned by the store API.
type Product struct {
	ID          int64           `json:"id"`
	Name        LocalizedString `json:"name"`
	Description LocalizedString `json:"description"`
	Published   bool            `json:"published"`
	Categories  []Category      `json:"categories"`
	Images      []Image         `json:"images"`
	Variants    []Variant       `json:"variants"`
}

// Variant is one purchasable variant of a product.
type Variant struct {
	ID     int64    `json:"id"`
	Price  string   `json:"price"`
	Stock  int      `json:"stock"`
	Values []Value  `json:"values"`
}

// Value is a variant attribute value (e.g. a size or a color).
type Value struct {
	Es string `json:"es"`
}

// Image is a product image.
type Image struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
}

// Category is a store category.
type Category struct {
	ID   int64           `json:"id"`
	Name LocalizedString `json:"name"`
}
