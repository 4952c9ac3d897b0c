package repository

import (
	"context"
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"github.com/revendehq/revende_api/internal/models"
)

// CatalogRepository handles the denormalized catalog cache table.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// UpsertAll writes one cache row per product in a single transaction,
// preserving the accumulated ventas_count on update. On error the
// transaction rolls back and the existing cache is left untouched.
func (r *CatalogRepository) UpsertAll(ctx context.Context, products []models.CatalogProduct) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const q = `
        INSERT INTO catalogo_cache (producto_id, data, ventas_count, updated_at)
        VALUES ($1, $2, 0, NOW())
        ON CONFLICT (producto_id) DO UPDATE SET
            data = EXCLUDED.data,
            updated_at = NOW()`

	for i := range products {
		blob, err := json.Marshal(&products[i])
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, q, products[i].ID, blob); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// List returns cache rows ordered by last update, capped at limit.
func (r *CatalogRepository) List(ctx context.Context, limit int) ([]models.CatalogRow, error) {
	var rows []models.CatalogRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM catalogo_cache ORDER BY updated_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListBestSellers returns cache rows sorted by descending sales count.
func (r *CatalogRepository) ListBestSellers(ctx context.Context, limit int) ([]models.CatalogRow, error) {
	var rows []models.CatalogRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM catalogo_cache ORDER BY ventas_count DESC, producto_id LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Wipe empties the cache table. The cache is rebuildable from the store API.
func (r *CatalogRepository) Wipe(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `TRUNCATE catalogo_cache`)
	return err
}

// Count returns the number of cached products.
func (r *CatalogRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(1) FROM catalogo_cache`)
	return n, err
}
