package models

import (
	"time"

	"github.com/lib/pq"
)

// PedidoStatus enumerates the order lifecycle states.
type PedidoStatus string

const (
	PedidoPendiente  PedidoStatus = "pendiente"
	PedidoCompletado PedidoStatus = "completado"
	PedidoCancelado  PedidoStatus = "cancelado"
)

// Valid reports whether s is a known status.
func (s PedidoStatus) Valid() bool {
	switch s {
	case PedidoPendiente, PedidoCompletado, PedidoCancelado:
		return true
	}
	return false
}

// Pedido is an order placed by a reseller on behalf of an end customer.
type Pedido struct {
	ID               int          `db:"id" json:"id"`
	UserID           int          `db:"user_id" json:"userId"`
	ClienteNombre    string       `db:"cliente_nombre" json:"clienteNombre"`
	ClienteTelefono  string       `db:"cliente_telefono" json:"clienteTelefono"`
	ClienteDireccion string       `db:"cliente_direccion" json:"clienteDireccion,omitempty"`
	Status           PedidoStatus `db:"status" json:"status"`
	TotalMayorista   int          `db:"total_mayorista" json:"totalMayorista"`
	TotalVenta       int          `db:"total_venta" json:"totalVenta"`
	Ganancia         int          `db:"ganancia" json:"ganancia"`
	ConsolidacionID  *int         `db:"consolidacion_id" json:"consolidacionId,omitempty"`
	CreatedAt        time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time    `db:"updated_at" json:"updatedAt"`

	// Populated separately; lineas are immutable once created.
	Lineas []Linea `db:"-" json:"lineas,omitempty"`
}

// Linea is a single order line capturing product/variant identity and prices.
type Linea struct {
	ID              int            `db:"id" json:"id"`
	PedidoID        int            `db:"pedido_id" json:"pedidoId"`
	ProductoID      int64          `db:"producto_id" json:"productoId"`
	VarianteID      int64          `db:"variante_id" json:"varianteId"`
	NombreProducto  string         `db:"nombre_producto" json:"nombreProducto"`
	Atributos       pq.StringArray `db:"atributos" json:"atributos"`
	Cantidad        int            `db:"cantidad" json:"cantidad"`
	PrecioMayorista int            `db:"precio_mayorista" json:"precioMayorista"`
	PrecioVenta     int            `db:"precio_venta" json:"precioVenta"`
	CreatedAt       time.Time      `db:"created_at" json:"createdAt"`
}
