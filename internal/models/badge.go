package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Condition types understood by the badge engine.
const (
	CondicionVentas          = "ventas"
	CondicionPuntos          = "puntos"
	CondicionConsolidaciones = "consolidaciones"
	CondicionRegistro        = "registro"
)

// BadgeCondition is the serialized unlock rule evaluated against user stats.
// Stored as JSONB, e.g. {"tipo": "ventas", "umbral": 10}.
type BadgeCondition struct {
	Tipo   string `json:"tipo"`
	Umbral int64  `json:"umbral"`
}

// Value implements driver.Valuer for JSONB storage.
func (c BadgeCondition) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner for JSONB retrieval.
func (c *BadgeCondition) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	case nil:
		*c = BadgeCondition{}
		return nil
	default:
		return fmt.Errorf("unsupported type for BadgeCondition: %T", src)
	}
}

// Badge is a static achievement definition seeded once and rarely mutated.
type Badge struct {
	ID          int            `db:"id" json:"id"`
	Slug        string         `db:"slug" json:"slug"`
	Nombre      string         `db:"nombre" json:"nombre"`
	Descripcion string         `db:"descripcion" json:"descripcion"`
	Categoria   string         `db:"categoria" json:"categoria"`
	Rareza      string         `db:"rareza" json:"rareza"`
	Puntos      int            `db:"puntos" json:"puntos"`
	Condicion   BadgeCondition `db:"condicion" json:"condicion"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
}

// UserBadge records that a user unlocked a badge. Immutable once created.
type UserBadge struct {
	ID         int       `db:"id" json:"id"`
	UserID     int       `db:"user_id" json:"userId"`
	BadgeID    int       `db:"badge_id" json:"badgeId"`
	UnlockedAt time.Time `db:"unlocked_at" json:"unlockedAt"`
}

// BadgeView is a badge annotated with the caller's unlock state.
type BadgeView struct {
	Badge
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlockedAt,omitempty"`
}
