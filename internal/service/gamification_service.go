package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/revendehq/revende_api/internal/models"
	"github.com/revendehq/revende_api/internal/repository"
)

// Level ladder: XP required to hold each level.
const (
	NivelBronce   = "bronce"
	NivelPlata    = "plata"
	NivelOro      = "oro"
	NivelPlatino  = "platino"
	NivelDiamante = "diamante"
)

var nivelLadder = []struct {
	Nivel string
	MinXP int64
}{
	{NivelDiamante, 10000},
	{NivelPlatino, 4000},
	{NivelOro, 1500},
	{NivelPlata, 500},
	{NivelBronce, 0},
}

// NivelForXP returns the level label for an XP total.
func NivelForXP(xp int64) string {
	for _, step := range nivelLadder {
		if xp >= step.MinXP {
			return step.Nivel
		}
	}
	return NivelBronce
}

// CompletionPoints computes the points awarded for one completed pedido:
// a flat base plus one point per 1000 of total sale amount.
func CompletionPoints(totalVenta int) int {
	return 100 + totalVenta/1000
}

// EvaluateCondition reports whether the user's stats satisfy a badge
// condition. Unknown condition types never unlock.
func EvaluateCondition(cond models.BadgeCondition, stats models.UserStats) bool {
	switch cond.Tipo {
	case models.CondicionVentas:
		return stats.VentasTotales >= cond.Umbral
	case models.CondicionPuntos:
		return stats.PuntosTotales >= cond.Umbral
	case models.CondicionConsolidaciones:
		return stats.Consolidaciones >= cond.Umbral
	case models.CondicionRegistro:
		return true
	}
	return false
}

// GamificationRepository is the persistence surface of the scoring engine.
type GamificationRepository interface {
	EnsureLevel(ctx context.Context, userID int, defaultNivel string) (*models.UserLevel, error)
	SumPoints(ctx context.Context, userID int) (int64, error)
	CountConsolidaciones(ctx context.Context, userID int) (int64, error)
	ApplyCompletion(ctx context.Context, fx repository.CompletionEffects) error
	Diagnostics(ctx context.Context) (*repository.DiagnosticCounts, error)
}

// BadgeRepository is the badge catalog surface.
type BadgeRepository interface {
	ListAll(ctx context.Context) ([]models.Badge, error)
	SeedBySlug(ctx context.Context, badges []models.Badge) (int, error)
	UnlockedByUser(ctx context.Context, userID int) ([]models.UserBadge, error)
}

// GamificationService computes points, levels and badge unlocks tied to the
// order lifecycle.
type GamificationService struct {
	repo   GamificationRepository
	badges BadgeRepository
}

// NewGamificationService constructs a GamificationService.
func NewGamificationService(repo GamificationRepository, badges BadgeRepository) *GamificationService {
	return &GamificationService{repo: repo, badges: badges}
}

// Stats returns the per-user snapshot: level record (materialized lazily),
// total points, and the badge catalog annotated with unlock state.
func (s *GamificationService) Stats(ctx context.Context, userID int) (*models.GamificationStats, error) {
	level, err := s.repo.EnsureLevel(ctx, userID, NivelBronce)
	if err != nil {
		return nil, err
	}

	totalPoints, err := s.repo.SumPoints(ctx, userID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.badges.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	unlocks, err := s.badges.UnlockedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	unlockedAt := make(map[int]models.UserBadge, len(unlocks))
	for _, u := range unlocks {
		unlockedAt[u.BadgeID] = u
	}

	views := make([]models.BadgeView, 0, len(catalog))
	unlocked := 0
	for _, b := range catalog {
		view := models.BadgeView{Badge: b}
		if u, ok := unlockedAt[b.ID]; ok {
			view.Unlocked = true
			at := u.UnlockedAt
			view.UnlockedAt = &at
			unlocked++
		}
		views = append(views, view)
	}

	return &models.GamificationStats{
		Level:       *level,
		TotalPoints: totalPoints,
		Badges:      views,
		Unlocked:    unlocked,
	}, nil
}

// CompletarPedido applies every gamification effect of completing a pedido:
// point accrual, XP/level update, badge evaluation and catalog sales
// counters. Pending orders never reach this path; the repository transaction
// guards the pendiente → completado flip itself.
func (s *GamificationService) CompletarPedido(ctx context.Context, pedido *models.Pedido) error {
	level, err := s.repo.EnsureLevel(ctx, pedido.UserID, NivelBronce)
	if err != nil {
		return err
	}
	currentPoints, err := s.repo.SumPoints(ctx, pedido.UserID)
	if err != nil {
		return err
	}
	consolidaciones, err := s.repo.CountConsolidaciones(ctx, pedido.UserID)
	if err != nil {
		return err
	}

	puntos := CompletionPoints(pedido.TotalVenta)

	// Stats as they will look after this completion lands.
	stats := models.UserStats{
		VentasTotales:   int64(level.VentasTotales) + 1,
		PuntosTotales:   currentPoints + int64(puntos),
		Consolidaciones: consolidaciones,
	}

	awards, badgePoints, err := s.pendingUnlocks(ctx, pedido.UserID, stats)
	if err != nil {
		return err
	}

	xpGain := int64(puntos) + int64(badgePoints)
	nivel := NivelForXP(level.XP + xpGain)

	ventas := make([]repository.LineaVenta, 0, len(pedido.Lineas))
	for _, l := range pedido.Lineas {
		ventas = append(ventas, repository.LineaVenta{ProductoID: l.ProductoID, Cantidad: l.Cantidad})
	}

	fx := repository.CompletionEffects{
		UserID:   pedido.UserID,
		PedidoID: pedido.ID,
		Puntos:   puntos,
		XPGain:   xpGain,
		Nivel:    nivel,
		Badges:   awards,
		Ventas:   ventas,
	}
	if err := s.repo.ApplyCompletion(ctx, fx); err != nil {
		return err
	}

	log.Info().
		Int("user_id", pedido.UserID).
		Int("pedido_id", pedido.ID).
		Int("puntos", puntos).
		Int("badges", len(awards)).
		Str("nivel", nivel).
		Msg("Pedido completion rewards applied")
	return nil
}

// pendingUnlocks evaluates the badge catalog against stats and returns the
// badges the user is newly entitled to, plus their combined point value.
func (s *GamificationService) pendingUnlocks(ctx context.Context, userID int, stats models.UserStats) ([]repository.BadgeAward, int, error) {
	catalog, err := s.badges.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	unlocks, err := s.badges.UnlockedByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	have := make(map[int]bool, len(unlocks))
	for _, u := range unlocks {
		have[u.BadgeID] = true
	}

	var awards []repository.BadgeAward
	total := 0
	for _, b := range catalog {
		if have[b.ID] {
			continue
		}
		if EvaluateCondition(b.Condicion, stats) {
			awards = append(awards, repository.BadgeAward{BadgeID: b.ID, Slug: b.Slug, Puntos: b.Puntos})
			total += b.Puntos
		}
	}
	return awards, total, nil
}

// DefaultBadges is the seed catalog. Seeding is idempotent by slug.
func DefaultBadges() []models.Badge {
	return []models.Badge{
		{Slug: "bienvenida", Nombre: "Bienvenida", Descripcion: "Te uniste a la plataforma", Categoria: "comunidad", Rareza: "comun", Puntos: 10,
			Condicion: models.BadgeCondition{Tipo: models.CondicionRegistro, Umbral: 1}},
		{Slug: "primera-venta", Nombre: "Primera Venta", Descripcion: "Completaste tu primer pedido", Categoria: "ventas", Rareza: "comun", Puntos: 50,
			Condicion: models.BadgeCondition{Tipo: models.CondicionVentas, Umbral: 1}},
		{Slug: "cinco-ventas", Nombre: "En Racha", Descripcion: "Completaste 5 pedidos", Categoria: "ventas", Rareza: "comun", Puntos: 100,
			Condicion: models.BadgeCondition{Tipo: models.CondicionVentas, Umbral: 5}},
		{Slug: "diez-ventas", Nombre: "Vendedor Estrella", Descripcion: "Completaste 10 pedidos", Categoria: "ventas", Rareza: "raro", Puntos: 200,
			Condicion: models.BadgeCondition{Tipo: models.CondicionVentas, Umbral: 10}},
		{Slug: "cincuenta-ventas", Nombre: "Imparable", Descripcion: "Completaste 50 pedidos", Categoria: "ventas", Rareza: "epico", Puntos: 500,
			Condicion: models.BadgeCondition{Tipo: models.CondicionVentas, Umbral: 50}},
		{Slug: "quinientos-puntos", Nombre: "Coleccionista", Descripcion: "Acumulaste 500 puntos", Categoria: "puntos", Rareza: "raro", Puntos: 150,
			Condicion: models.BadgeCondition{Tipo: models.CondicionPuntos, Umbral: 500}},
		{Slug: "cinco-mil-puntos", Nombre: "Leyenda", Descripcion: "Acumulaste 5000 puntos", Categoria: "puntos", Rareza: "legendario", Puntos: 1000,
			Condicion: models.BadgeCondition{Tipo: models.CondicionPuntos, Umbral: 5000}},
		{Slug: "primera-consolidacion", Nombre: "Primer Envío", Descripcion: "Enviaste tu primera consolidación", Categoria: "envios", Rareza: "comun", Puntos: 100,
			Condicion: models.BadgeCondition{Tipo: models.CondicionConsolidaciones, Umbral: 1}},
	}
}

// SeedBadges inserts the default badge catalog, skipping existing slugs.
func (s *GamificationService) SeedBadges(ctx context.Context) (int, error) {
	return s.badges.SeedBySlug(ctx, DefaultBadges())
}

// Diagnostics returns aggregate row counts across gamification tables.
func (s *GamificationService) Diagnostics(ctx context.Context) (*repository.DiagnosticCounts, error) {
	return s.repo.Diagnostics(ctx)
}
