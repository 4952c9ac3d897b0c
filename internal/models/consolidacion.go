package models

import "time"

// Consolidacion is a batch of completed pedidos submitted upstream to the
// supplier, with computed totals attributed to the sending user.
type Consolidacion struct {
	ID         int       `db:"id" json:"id"`
	UserID     int       `db:"user_id" json:"userId"`
	Referencia string    `db:"referencia" json:"referencia"`
	NumPedidos int       `db:"num_pedidos" json:"numPedidos"`
	TotalVenta int       `db:"total_venta" json:"totalVenta"`
	Ganancia   int       `db:"ganancia" json:"ganancia"`
	EnviadaAt  time.Time `db:"enviada_at" json:"enviadaAt"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
