package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/revendehq/revende_api/internal/models"
	"github.com/revendehq/revende_api/internal/utils"
)

// GamificationRepository handles the points ledger, user levels and the
// transactional effects of order completion.
type GamificationRepository struct {
	db *sqlx.DB
}

// NewGamificationRepository creates a new GamificationRepository.
func NewGamificationRepository(db *sqlx.DB) *GamificationRepository {
	return &GamificationRepository{db: db}
}

// EnsureLevel returns the user's level record, creating the default one
// (lowest level, zero XP, zero sales) on first read.
func (r *GamificationRepository) EnsureLevel(ctx context.Context, userID int, defaultNivel string) (*models.UserLevel, error) {
	var level models.UserLevel
	err := r.db.GetContext(ctx, &level, `SELECT * FROM user_levels WHERE user_id = $1`, userID)
	if err == nil {
		return &level, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	const q = `
        INSERT INTO user_levels (user_id, nivel, xp, ventas_totales)
        VALUES ($1, $2, 0, 0)
        ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
        RETURNING *`

	if err := r.db.GetContext(ctx, &level, q, userID, defaultNivel); err != nil {
		return nil, err
	}
	return &level, nil
}

// SumPoints returns the total of all ledger entries for a user.
func (r *GamificationRepository) SumPoints(ctx context.Context, userID int) (int64, error) {
	var total int64
	err := r.db.GetContext(ctx, &total,
		`SELECT COALESCE(SUM(puntos), 0) FROM points WHERE user_id = $1`, userID)
	return total, err
}

// CountConsolidaciones returns how many consolidaciones the user has sent.
func (r *GamificationRepository) CountConsolidaciones(ctx context.Context, userID int) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(1) FROM consolidaciones WHERE user_id = $1`, userID)
	return n, err
}

// BadgeAward pairs a badge id with its point value for ApplyCompletion.
type BadgeAward struct {
	BadgeID int
	Slug    string
	Puntos  int
}

// LineaVenta is the per-product quantity sold in a completed pedido.
type LineaVenta struct {
	ProductoID int64
	Cantidad   int
}

// CompletionEffects describes every write that must land atomically when a
// pedido completes.
type CompletionEffects struct {
	UserID   int
	PedidoID int
	Puntos   int
	XPGain   int64
	Nivel    string
	Badges   []BadgeAward
	Ventas   []LineaVenta
}

// ApplyCompletion applies all gamification effects of an order completion in
// a single transaction: the point ledger entry, badge unlocks with their
// point entries, the level/XP/sales update, and the catalog sales counters.
func (r *GamificationRepository) ApplyCompletion(ctx context.Context, fx CompletionEffects) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// The status flip is part of the same transaction and doubles as the
	// exactly-once guard: a lost race or an illegal transition rolls
	// everything back.
	const completePedido = `
        UPDATE pedidos
        SET status = 'completado', updated_at = NOW()
        WHERE id = $1 AND user_id = $2 AND status = 'pendiente'`

	res, err := tx.ExecContext(ctx, completePedido, fx.PedidoID, fx.UserID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return utils.ErrInvalidTransition
	}

	const insertPoint = `
        INSERT INTO points (user_id, puntos, concepto, pedido_id)
        VALUES ($1, $2, $3, $4)`

	if _, err := tx.ExecContext(ctx, insertPoint,
		fx.UserID, fx.Puntos, "pedido_completado", fx.PedidoID); err != nil {
		return err
	}

	const insertUnlock = `
        INSERT INTO user_badges (user_id, badge_id)
        VALUES ($1, $2)
        ON CONFLICT (user_id, badge_id) DO NOTHING`

	for _, award := range fx.Badges {
		res, err := tx.ExecContext(ctx, insertUnlock, fx.UserID, award.BadgeID)
		if err != nil {
			return err
		}
		// Only pay out badge points when this tx actually created the unlock.
		if n, err := res.RowsAffected(); err == nil && n > 0 && award.Puntos > 0 {
			if _, err := tx.ExecContext(ctx, insertPoint,
				fx.UserID, award.Puntos, "badge_"+award.Slug, nil); err != nil {
				return err
			}
		}
	}

	const updateLevel = `
        UPDATE user_levels
        SET xp = xp + $2, ventas_totales = ventas_totales + 1, nivel = $3, updated_at = NOW()
        WHERE user_id = $1`

	if _, err := tx.ExecContext(ctx, updateLevel, fx.UserID, fx.XPGain, fx.Nivel); err != nil {
		return err
	}

	const bumpVentas = `
        UPDATE catalogo_cache
        SET ventas_count = ventas_count + $2
        WHERE producto_id = $1`

	for _, v := range fx.Ventas {
		if _, err := tx.ExecContext(ctx, bumpVentas, v.ProductoID, v.Cantidad); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DiagnosticCounts aggregates table sizes for the diagnostics endpoint.
type DiagnosticCounts struct {
	Badges     int `db:"badges" json:"badges"`
	UserBadges int `db:"user_badges" json:"userBadges"`
	Points     int `db:"points" json:"points"`
	UserLevels int `db:"user_levels" json:"userLevels"`
}

// Diagnostics returns row counts across the gamification tables.
func (r *GamificationRepository) Diagnostics(ctx context.Context) (*DiagnosticCounts, error) {
	const q = `
        SELECT
            (SELECT COUNT(1) FROM badges)      AS badges,
            (SELECT COUNT(1) FROM user_badges) AS user_badges,
            (SELECT COUNT(1) FROM points)      AS points,
            (SELECT COUNT(1) FROM user_levels) AS user_levels`

	var counts DiagnosticCounts
	if err := r.db.GetContext(ctx, &counts, q); err != nil {
		return nil, err
	}
	return &counts, nil
}
