package models

import "time"

// Point is an append-only ledger entry of points awarded to a user.
type Point struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"userId"`
	Puntos    int       `db:"puntos" json:"puntos"`
	Concepto  string    `db:"concepto" json:"concepto"`
	PedidoID  *int      `db:"pedido_id" json:"pedidoId,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// UserLevel is the per-user progression record, materialized lazily on the
// first stats read and mutated as sales and XP accrue.
type UserLevel struct {
	ID            int       `db:"id" json:"id"`
	UserID        int       `db:"user_id" json:"userId"`
	Nivel         string    `db:"nivel" json:"nivel"`
	XP            int64     `db:"xp" json:"currentXP"`
	VentasTotales int       `db:"ventas_totales" json:"totalSales"`
	CreatedAt     time.Time `db:"created_at" json:"-"`
	UpdatedAt     time.Time `db:"updated_at" json:"-"`
}

// UserStats aggregates the counters badge conditions are evaluated against.
type UserStats struct {
	VentasTotales   int64
	PuntosTotales   int64
	Consolidaciones int64
}

// GamificationStats is the per-user snapshot served by the stats endpoint.
type GamificationStats struct {
	Level       UserLevel   `json:"level"`
	TotalPoints int64       `json:"totalPoints"`
	Badges      []BadgeView `json:"badges"`
	Unlocked    int         `json:"unlockedCount"`
}
