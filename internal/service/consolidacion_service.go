package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/revendehq/revende_api/internal/models"
)

// ConsolidacionRepository is the data access surface for consolidation batches.
type ConsolidacionRepository interface {
	CreateForUser(ctx context.Context, userID int, referencia string) (*models.Consolidacion, error)
	ListByUser(ctx context.Context, userID int) ([]models.Consolidacion, error)
}

// ConsolidablePedidos exposes the pedidos eligible for the next batch.
type ConsolidablePedidos interface {
	ListCompletadosSinConsolidar(ctx context.Context, userID int) ([]models.Pedido, error)
}

// ConsolidacionService batches completed pedidos into supplier submissions.
type ConsolidacionService struct {
	repo    ConsolidacionRepository
	pedidos ConsolidablePedidos
}

// NewConsolidacionService constructs a ConsolidacionService.
func NewConsolidacionService(repo ConsolidacionRepository, pedidos ConsolidablePedidos) *ConsolidacionService {
	return &ConsolidacionService{repo: repo, pedidos: pedidos}
}

// PendientesResumen previews what the next consolidación would contain.
type PendientesResumen struct {
	Pedidos    []models.Pedido `json:"pedidos"`
	NumPedidos int             `json:"numPedidos"`
	TotalVenta int             `json:"totalVenta"`
	Ganancia   int             `json:"ganancia"`
}

// Pendientes returns the user's completed, unconsolidated pedidos with their
// combined totals. Creating a consolidación afterwards batches exactly these,
// barring concurrent completions.
func (s *ConsolidacionService) Pendientes(ctx context.Context, userID int) (*PendientesResumen, error) {
	pedidos, err := s.pedidos.ListCompletadosSinConsolidar(ctx, userID)
	if err != nil {
		return nil, err
	}

	resumen := &PendientesResumen{
		Pedidos:    pedidos,
		NumPedidos: len(pedidos),
	}
	for _, p := range pedidos {
		resumen.TotalVenta += p.TotalVenta
		resumen.Ganancia += p.Ganancia
	}
	return resumen, nil
}

// Crear batches every completed, unconsolidated pedido of the user into one
// consolidación with computed totals and gain.
func (s *ConsolidacionService) Crear(ctx context.Context, userID int) (*models.Consolidacion, error) {
	referencia := "CONS-" + strings.ToUpper(uuid.New().String()[:8])

	cons, err := s.repo.CreateForUser(ctx, userID, referencia)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("user_id", userID).
		Str("referencia", cons.Referencia).
		Int("pedidos", cons.NumPedidos).
		Int("total_venta", cons.TotalVenta).
		Int("ganancia", cons.Ganancia).
		Msg("Consolidación created")
	return cons, nil
}

// Listar returns the user's consolidaciones.
func (s *ConsolidacionService) Listar(ctx context.Context, userID int) ([]models.Consolidacion, error) {
	return s.repo.ListByUser(ctx, userID)
}
