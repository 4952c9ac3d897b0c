package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/revendehq/revende_api/internal/models"
	"github.com/revendehq/revende_api/internal/utils"
)

// ConsolidacionRepository handles consolidation batches.
type ConsolidacionRepository struct {
	db *sqlx.DB
}

// NewConsolidacionRepository creates a new ConsolidacionRepository.
func NewConsolidacionRepository(db *sqlx.DB) *ConsolidacionRepository {
	return &ConsolidacionRepository{db: db}
}

// CreateForUser batches every completed, unconsolidated pedido of the user
// into one consolidación. The select, the insert and the pedido updates run
// in a single transaction; completed pedidos are locked to keep a concurrent
// batch from claiming them twice.
func (r *ConsolidacionRepository) CreateForUser(ctx context.Context, userID int, referencia string) (*models.Consolidacion, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const selectPedidos = `
        SELECT id, total_venta, ganancia FROM pedidos
        WHERE user_id = $1 AND status = 'completado' AND consolidacion_id IS NULL
        FOR UPDATE`

	var pedidos []struct {
		ID         int `db:"id"`
		TotalVenta int `db:"total_venta"`
		Ganancia   int `db:"ganancia"`
	}
	if err := tx.SelectContext(ctx, &pedidos, selectPedidos, userID); err != nil {
		return nil, err
	}
	if len(pedidos) == 0 {
		return nil, utils.ErrNoCompletedPedidos
	}

	cons := models.Consolidacion{
		UserID:     userID,
		Referencia: referencia,
		NumPedidos: len(pedidos),
	}
	ids := make([]int, len(pedidos))
	for i, p := range pedidos {
		cons.TotalVenta += p.TotalVenta
		cons.Ganancia += p.Ganancia
		ids[i] = p.ID
	}

	const insert = `
        INSERT INTO consolidaciones (user_id, referencia, num_pedidos, total_venta, ganancia, enviada_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        RETURNING id, enviada_at, created_at`

	err = tx.QueryRowxContext(ctx, insert,
		cons.UserID, cons.Referencia, cons.NumPedidos, cons.TotalVenta, cons.Ganancia,
	).Scan(&cons.ID, &cons.EnviadaAt, &cons.CreatedAt)
	if err != nil {
		return nil, err
	}

	query, args, err := sqlx.In(`UPDATE pedidos SET consolidacion_id = ? WHERE id IN (?)`, cons.ID, ids)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &cons, nil
}

// ListByUser returns the user's consolidaciones, newest first.
func (r *ConsolidacionRepository) ListByUser(ctx context.Context, userID int) ([]models.Consolidacion, error) {
	var items []models.Consolidacion
	err := r.db.SelectContext(ctx, &items,
		`SELECT * FROM consolidaciones WHERE user_id = $1 ORDER BY enviada_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return items, nil
}
