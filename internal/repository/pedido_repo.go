package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/revendehq/revende_api/internal/models"
	"github.com/revendehq/revende_api/internal/utils"
)

// PedidoRepository handles data access for pedidos and their lineas.
type PedidoRepository struct {
	db *sqlx.DB
}

// NewPedidoRepository creates a new PedidoRepository.
func NewPedidoRepository(db *sqlx.DB) *PedidoRepository {
	return &PedidoRepository{db: db}
}

// CreateWithLineas inserts the pedido and all its lineas in one transaction,
// so a failed line insert never leaves a headless order behind.
func (r *PedidoRepository) CreateWithLineas(ctx context.Context, pedido *models.Pedido, lineas []models.Linea) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const insertPedido = `
        INSERT INTO pedidos (user_id, cliente_nombre, cliente_telefono, cliente_direccion,
                             status, total_mayorista, total_venta, ganancia)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`

	err = tx.QueryRowxContext(ctx, insertPedido,
		pedido.UserID,
		pedido.ClienteNombre,
		pedido.ClienteTelefono,
		pedido.ClienteDireccion,
		pedido.Status,
		pedido.TotalMayorista,
		pedido.TotalVenta,
		pedido.Ganancia,
	).Scan(&pedido.ID, &pedido.CreatedAt, &pedido.UpdatedAt)
	if err != nil {
		return err
	}

	const insertLinea = `
        INSERT INTO lineas (pedido_id, producto_id, variante_id, nombre_producto,
                            atributos, cantidad, precio_mayorista, precio_venta)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at`

	for i := range lineas {
		l := &lineas[i]
		l.PedidoID = pedido.ID
		err = tx.QueryRowxContext(ctx, insertLinea,
			l.PedidoID,
			l.ProductoID,
			l.VarianteID,
			l.NombreProducto,
			l.Atributos,
			l.Cantidad,
			l.PrecioMayorista,
			l.PrecioVenta,
		).Scan(&l.ID, &l.CreatedAt)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	pedido.Lineas = lineas
	return nil
}

// GetByID returns a pedido with its lineas.
func (r *PedidoRepository) GetByID(ctx context.Context, id int) (*models.Pedido, error) {
	var pedido models.Pedido
	err := r.db.GetContext(ctx, &pedido, `SELECT * FROM pedidos WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrPedidoNotFound
		}
		return nil, err
	}

	if err := r.db.SelectContext(ctx, &pedido.Lineas,
		`SELECT * FROM lineas WHERE pedido_id = $1 ORDER BY id`, id); err != nil {
		return nil, err
	}
	return &pedido, nil
}

// ListByUser returns all pedidos for a user, newest first, with lineas.
func (r *PedidoRepository) ListByUser(ctx context.Context, userID int) ([]models.Pedido, error) {
	var pedidos []models.Pedido
	err := r.db.SelectContext(ctx, &pedidos,
		`SELECT * FROM pedidos WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	if len(pedidos) == 0 {
		return pedidos, nil
	}

	ids := make([]int, len(pedidos))
	index := make(map[int]*models.Pedido, len(pedidos))
	for i := range pedidos {
		ids[i] = pedidos[i].ID
		index[pedidos[i].ID] = &pedidos[i]
	}

	query, args, err := sqlx.In(`SELECT * FROM lineas WHERE pedido_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	var lineas []models.Linea
	if err := r.db.SelectContext(ctx, &lineas, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	for _, l := range lineas {
		p := index[l.PedidoID]
		p.Lineas = append(p.Lineas, l)
	}
	return pedidos, nil
}

// SetStatus transitions a pedido from one status to another. The guard is in
// the WHERE clause so a lost race or an illegal transition both come back as
// ErrInvalidTransition. Returns the updated pedido with lineas.
func (r *PedidoRepository) SetStatus(ctx context.Context, id, userID int, from, to models.PedidoStatus) (*models.Pedido, error) {
	const q = `
        UPDATE pedidos
        SET status = $4, updated_at = NOW()
        WHERE id = $1 AND user_id = $2 AND status = $3
        RETURNING id`

	var updatedID int
	err := r.db.QueryRowxContext(ctx, q, id, userID, from, to).Scan(&updatedID)
	if err == sql.ErrNoRows {
		// Distinguish a missing pedido from an illegal transition.
		var exists int
		if e := r.db.GetContext(ctx, &exists,
			`SELECT 1 FROM pedidos WHERE id = $1 AND user_id = $2`, id, userID); e == sql.ErrNoRows {
			return nil, utils.ErrPedidoNotFound
		} else if e != nil {
			return nil, e
		}
		return nil, utils.ErrInvalidTransition
	}
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// ListCompletadosSinConsolidar returns the user's completed pedidos that are
// not yet attached to a consolidación.
func (r *PedidoRepository) ListCompletadosSinConsolidar(ctx context.Context, userID int) ([]models.Pedido, error) {
	var pedidos []models.Pedido
	err := r.db.SelectContext(ctx, &pedidos,
		`SELECT * FROM pedidos WHERE user_id = $1 AND status = $2 AND consolidacion_id IS NULL ORDER BY created_at`,
		userID, models.PedidoCompletado)
	if err != nil {
		return nil, err
	}
	return pedidos, nil
}
