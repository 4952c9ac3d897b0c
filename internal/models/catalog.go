package models

import (
	"encoding/json"
	"time"
)

// CatalogRow is a denormalized cache row for one external product.
// The table is entirely derived from the external catalog API and treated as
// a disposable cache, never as source of truth.
type CatalogRow struct {
	ProductoID  int64           `db:"producto_id" json:"productoId"`
	Data        json.RawMessage `db:"data" json:"-"`
	VentasCount int             `db:"ventas_count" json:"ventasCount"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

// CatalogProduct is the normalized product stored in the cache blob and
// returned by the catalog read endpoints.
type CatalogProduct struct {
	ID          int64            `json:"id"`
	Nombre      string           `json:"nombre"`
	Descripcion string           `json:"descripcion,omitempty"`
	Categorias  []string         `json:"categorias,omitempty"`
	ImagenURL   string           `json:"imagenUrl,omitempty"`
	Variantes   []CatalogVariant `json:"variantes"`
	VentasCount int              `json:"ventasCount"`
}

// CatalogVariant is one flattened purchasable variant of a product.
type CatalogVariant struct {
	ID              int64    `json:"id"`
	Atributos       []string `json:"atributos,omitempty"`
	PrecioMayorista int      `json:"precioMayorista"`
	Stock           int      `json:"stock"`
}
