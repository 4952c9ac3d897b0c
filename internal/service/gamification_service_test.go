package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/revendehq/revende_api/internal/models"
)

func TestNivelForXP(t *testing.T) {
	cases := []struct {
		xp   int64
		want string
	}{
		{0, NivelBronce},
		{499, NivelBronce},
		{500, NivelPlata},
		{1499, NivelPlata},
		{1500, NivelOro},
		{3999, NivelOro},
		{4000, NivelPlatino},
		{9999, NivelPlatino},
		{10000, NivelDiamante},
		{500000, NivelDiamante},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, NivelForXP(tc.xp), "xp=%d", tc.xp)
	}
}

func TestCompletionPoints(t *testing.T) {
	require.Equal(t, 100, CompletionPoints(0))
	require.Equal(t, 100, CompletionPoints(999))
	require.Equal(t, 101, CompletionPoints(1000))
	require.Equal(t, 150, CompletionPoints(50000))
}

func TestEvaluateCondition(t *testing.T) {
	stats := models.UserStats{VentasTotales: 5, PuntosTotales: 300, Consolidaciones: 0}

	require.True(t, EvaluateCondition(models.BadgeCondition{Tipo: models.CondicionVentas, Umbral: 5}, stats))
	require.False(t, EvaluateCondition(models.BadgeCondition{Tipo: models.CondicionVentas, Umbral: 6}, stats))
	require.True(t, EvaluateCondition(models.BadgeCondition{Tipo: models.CondicionPuntos, Umbral: 300}, stats))
	require.False(t, EvaluateCondition(models.BadgeCondition{Tipo: models.CondicionPuntos, Umbral: 301}, stats))
	require.False(t, EvaluateCondition(models.BadgeCondition{Tipo: models.CondicionConsolidaciones, Umbral: 1}, stats))
	require.True(t, EvaluateCondition(models.BadgeCondition{Tipo: models.CondicionRegistro, Umbral: 1}, stats))
	require.False(t, EvaluateCondition(models.BadgeCondition{Tipo: "desconocido", Umbral: 1}, stats))
}

func TestStatsFreshUserIsAllZero(t *testing.T) {
	repo := newFakeGamificationRepo()
	badges := newFakeBadgeRepo()
	svc := NewGamificationService(repo, badges)

	_, err := badges.SeedBySlug(context.Background(), DefaultBadges())
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, NivelBronce, stats.Level.Nivel)
	require.Zero(t, stats.Level.XP)
	require.Zero(t, stats.Level.VentasTotales)
	require.Zero(t, stats.TotalPoints)
	require.Zero(t, stats.Unlocked)
	require.Len(t, stats.Badges, len(DefaultBadges()))
	for _, b := range stats.Badges {
		require.False(t, b.Unlocked)
		require.Nil(t, b.UnlockedAt)
	}
}

func TestSeedBadgesIsIdempotent(t *testing.T) {
	badges := newFakeBadgeRepo()
	svc := NewGamificationService(newFakeGamificationRepo(), badges)

	created, err := svc.SeedBadges(context.Background())
	require.NoError(t, err)
	require.Equal(t, len(DefaultBadges()), created)

	created, err = svc.SeedBadges(context.Background())
	require.NoError(t, err)
	require.Zero(t, created, "second seed run must create nothing")

	catalog, err := badges.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog, len(DefaultBadges()))
}

func TestCompletarPedidoAppliesEffects(t *testing.T) {
	repo := newFakeGamificationRepo()
	badges := newFakeBadgeRepo()
	svc := NewGamificationService(repo, badges)

	_, err := badges.SeedBySlug(context.Background(), DefaultBadges())
	require.NoError(t, err)

	pedido := &models.Pedido{
		ID:         42,
		UserID:     7,
		Status:     models.PedidoPendiente,
		TotalVenta: 35000,
		Lineas: []models.Linea{
			{ProductoID: 111, Cantidad: 2},
			{ProductoID: 222, Cantidad: 1},
		},
	}

	require.NoError(t, svc.CompletarPedido(context.Background(), pedido))
	require.Len(t, repo.applied, 1)

	fx := repo.applied[0]
	require.Equal(t, 7, fx.UserID)
	require.Equal(t, 42, fx.PedidoID)
	require.Equal(t, 135, fx.Puntos, "100 base + 35 from total venta")

	// First completion unlocks bienvenida (registro) and primera-venta.
	slugs := make([]string, 0, len(fx.Badges))
	badgePoints := 0
	for _, b := range fx.Badges {
		slugs = append(slugs, b.Slug)
		badgePoints += b.Puntos
	}
	require.Contains(t, slugs, "bienvenida")
	require.Contains(t, slugs, "primera-venta")
	require.Equal(t, int64(fx.Puntos+badgePoints), fx.XPGain)

	// Sales counters follow the lineas.
	require.Len(t, fx.Ventas, 2)
	require.Equal(t, int64(111), fx.Ventas[0].ProductoID)
	require.Equal(t, 2, fx.Ventas[0].Cantidad)
}

func TestCompletarPedidoLevelsUp(t *testing.T) {
	repo := newFakeGamificationRepo()
	badges := newFakeBadgeRepo()
	svc := NewGamificationService(repo, badges)

	// Existing user sitting just below the plata threshold.
	repo.levels[7] = &models.UserLevel{UserID: 7, Nivel: NivelBronce, XP: 450, VentasTotales: 3}

	pedido := &models.Pedido{ID: 1, UserID: 7, Status: models.PedidoPendiente, TotalVenta: 1000}
	require.NoError(t, svc.CompletarPedido(context.Background(), pedido))

	require.Len(t, repo.applied, 1)
	require.Equal(t, NivelPlata, repo.applied[0].Nivel, "450 + 101 XP crosses 500")
}
