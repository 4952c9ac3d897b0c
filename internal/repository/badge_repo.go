package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/revendehq/revende_api/internal/models"
)

// BadgeRepository handles the badge catalog and per-user unlocks.
type BadgeRepository struct {
	db *sqlx.DB
}

// NewBadgeRepository creates a new BadgeRepository.
func NewBadgeRepository(db *sqlx.DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

// ListAll returns the full badge catalog.
func (r *BadgeRepository) ListAll(ctx context.Context) ([]models.Badge, error) {
	var badges []models.Badge
	err := r.db.SelectContext(ctx, &badges, `SELECT * FROM badges ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return badges, nil
}

// SeedBySlug inserts any badge not yet present, keyed by slug. Existing rows
// are left untouched so a second run creates zero rows. Returns the number
// of newly created badges.
func (r *BadgeRepository) SeedBySlug(ctx context.Context, badges []models.Badge) (int, error) {
	const q = `
        INSERT INTO badges (slug, nombre, descripcion, categoria, rareza, puntos, condicion)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (slug) DO NOTHING`

	created := 0
	for i := range badges {
		b := &badges[i]
		res, err := r.db.ExecContext(ctx, q,
			b.Slug, b.Nombre, b.Descripcion, b.Categoria, b.Rareza, b.Puntos, b.Condicion)
		if err != nil {
			return created, err
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			created++
		}
	}
	return created, nil
}

// UnlockedByUser returns the user's unlock records.
func (r *BadgeRepository) UnlockedByUser(ctx context.Context, userID int) ([]models.UserBadge, error) {
	var unlocks []models.UserBadge
	err := r.db.SelectContext(ctx, &unlocks,
		`SELECT * FROM user_badges WHERE user_id = $1 ORDER BY unlocked_at`, userID)
	if err != nil {
		return nil, err
	}
	return unlocks, nil
}
