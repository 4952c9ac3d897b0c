package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/revendehq/revende_api/internal/models"
	"github.com/revendehq/revende_api/internal/utils"
)

// PedidoRepository is the data access surface the order service needs.
type PedidoRepository interface {
	CreateWithLineas(ctx context.Context, pedido *models.Pedido, lineas []models.Linea) error
	GetByID(ctx context.Context, id int) (*models.Pedido, error)
	ListByUser(ctx context.Context, userID int) ([]models.Pedido, error)
	SetStatus(ctx context.Context, id, userID int, from, to models.PedidoStatus) (*models.Pedido, error)
}

// PedidoService handles order creation and lifecycle transitions.
type PedidoService struct {
	repo         PedidoRepository
	users        UserRepository
	gamification *GamificationService
}

// NewPedidoService constructs a PedidoService.
func NewPedidoService(repo PedidoRepository, users UserRepository, gamification *GamificationService) *PedidoService {
	return &PedidoService{repo: repo, users: users, gamification: gamification}
}

// LineaInput is one requested order line. PrecioVenta may be zero, in which
// case it is derived from the wholesale price and the reseller's margin.
type LineaInput struct {
	ProductoID      int64    `json:"productoId"`
	VarianteID      int64    `json:"varianteId"`
	NombreProducto  string   `json:"nombreProducto"`
	Atributos       []string `json:"atributos"`
	Cantidad        int      `json:"cantidad"`
	PrecioMayorista int      `json:"precioMayorista"`
	PrecioVenta     int      `json:"precioVenta"`
}

// CrearInput carries an order creation request.
type CrearInput struct {
	ClienteNombre    string       `json:"clienteNombre"`
	ClienteTelefono  string       `json:"clienteTelefono"`
	ClienteDireccion string       `json:"clienteDireccion"`
	Lineas           []LineaInput `json:"lineas"`
}

// Crear validates and persists a new pedido with its lineas. Orders always
// start in pendiente; gamification effects are deferred until completion.
func (s *PedidoService) Crear(ctx context.Context, userID int, in CrearInput) (*models.Pedido, error) {
	if strings.TrimSpace(in.ClienteNombre) == "" || strings.TrimSpace(in.ClienteTelefono) == "" {
		return nil, utils.ErrMissingCliente
	}
	if len(in.Lineas) == 0 {
		return nil, utils.ErrEmptyLineas
	}
	for _, l := range in.Lineas {
		if l.Cantidad <= 0 || l.PrecioMayorista < 0 || l.PrecioVenta < 0 {
			return nil, utils.ErrInvalidLinea
		}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	pedido := &models.Pedido{
		UserID:           userID,
		ClienteNombre:    strings.TrimSpace(in.ClienteNombre),
		ClienteTelefono:  strings.TrimSpace(in.ClienteTelefono),
		ClienteDireccion: strings.TrimSpace(in.ClienteDireccion),
		Status:           models.PedidoPendiente,
	}

	lineas := make([]models.Linea, 0, len(in.Lineas))
	for _, l := range in.Lineas {
		precioVenta := l.PrecioVenta
		if precioVenta == 0 {
			precioVenta = PrecioVenta(l.PrecioMayorista, user.Margen)
		}
		lineas = append(lineas, models.Linea{
			ProductoID:      l.ProductoID,
			VarianteID:      l.VarianteID,
			NombreProducto:  l.NombreProducto,
			Atributos:       l.Atributos,
			Cantidad:        l.Cantidad,
			PrecioMayorista: l.PrecioMayorista,
			PrecioVenta:     precioVenta,
		})
		pedido.TotalMayorista += l.PrecioMayorista * l.Cantidad
		pedido.TotalVenta += precioVenta * l.Cantidad
	}
	pedido.Ganancia = pedido.TotalVenta - pedido.TotalMayorista

	if err := s.repo.CreateWithLineas(ctx, pedido, lineas); err != nil {
		return nil, err
	}

	log.Info().
		Int("user_id", userID).
		Int("pedido_id", pedido.ID).
		Int("lineas", len(lineas)).
		Int("total_venta", pedido.TotalVenta).
		Msg("Pedido created")
	return pedido, nil
}

// Listar returns all pedidos for a user.
func (s *PedidoService) Listar(ctx context.Context, userID int) ([]models.Pedido, error) {
	return s.repo.ListByUser(ctx, userID)
}

// CambiarStatus transitions a pedido. Only pendiente orders may move, to
// completado or cancelado. Completion routes through the gamification engine
// so the status flip and its rewards land in one transaction.
func (s *PedidoService) CambiarStatus(ctx context.Context, userID, pedidoID int, nuevo models.PedidoStatus) (*models.Pedido, error) {
	if !nuevo.Valid() || nuevo == models.PedidoPendiente {
		return nil, utils.ErrInvalidTransition
	}

	if nuevo == models.PedidoCancelado {
		return s.repo.SetStatus(ctx, pedidoID, userID, models.PedidoPendiente, models.PedidoCancelado)
	}

	pedido, err := s.repo.GetByID(ctx, pedidoID)
	if err != nil {
		return nil, err
	}
	if pedido.UserID != userID {
		return nil, utils.ErrPedidoNotFound
	}
	if pedido.Status != models.PedidoPendiente {
		return nil, utils.ErrInvalidTransition
	}

	if err := s.gamification.CompletarPedido(ctx, pedido); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, pedidoID)
}
