package service

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/revendehq/revende_api/internal/cache"
	"github.com/revendehq/revende_api/internal/models"
	"github.com/revendehq/revende_api/internal/repository"
	"github.com/revendehq/revende_api/internal/utils"
	"github.com/revendehq/revende_api/pkg/tiendanube"
)

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users  map[int]*models.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int]*models.User{}, nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return utils.ErrEmailTaken
		}
		if u.Handle == user.Handle {
			return utils.ErrHandleTaken
		}
		if u.Cedula == user.Cedula {
			return utils.ErrCedulaTaken
		}
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) GetByHandle(_ context.Context, handle string) (*models.User, error) {
	for _, u := range f.users {
		if u.Handle == handle {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) ExistsByHandle(_ context.Context, handle string) (bool, error) {
	for _, u := range f.users {
		if u.Handle == handle {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) ExistsByCedula(_ context.Context, cedula string) (bool, error) {
	for _, u := range f.users {
		if u.Cedula == cedula {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) UpdatePerfil(_ context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) UpdateFotoURL(_ context.Context, id int, fotoURL string) error {
	if u, ok := f.users[id]; ok {
		u.FotoURL = fotoURL
		return nil
	}
	return sql.ErrNoRows
}

// fakePedidoRepo is an in-memory PedidoRepository.
type fakePedidoRepo struct {
	pedidos map[int]*models.Pedido
	nextID  int
}

func newFakePedidoRepo() *fakePedidoRepo {
	return &fakePedidoRepo{pedidos: map[int]*models.Pedido{}, nextID: 1}
}

func (f *fakePedidoRepo) CreateWithLineas(_ context.Context, pedido *models.Pedido, lineas []models.Linea) error {
	pedido.ID = f.nextID
	f.nextID++
	for i := range lineas {
		lineas[i].PedidoID = pedido.ID
	}
	pedido.Lineas = lineas
	cp := *pedido
	f.pedidos[pedido.ID] = &cp
	return nil
}

func (f *fakePedidoRepo) GetByID(_ context.Context, id int) (*models.Pedido, error) {
	if p, ok := f.pedidos[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, utils.ErrPedidoNotFound
}

func (f *fakePedidoRepo) ListByUser(_ context.Context, userID int) ([]models.Pedido, error) {
	var out []models.Pedido
	for _, p := range f.pedidos {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePedidoRepo) SetStatus(_ context.Context, id, userID int, from, to models.PedidoStatus) (*models.Pedido, error) {
	p, ok := f.pedidos[id]
	if !ok || p.UserID != userID {
		return nil, utils.ErrPedidoNotFound
	}
	if p.Status != from {
		return nil, utils.ErrInvalidTransition
	}
	p.Status = to
	cp := *p
	return &cp, nil
}

// fakeGamificationRepo records ApplyCompletion calls and serves in-memory
// level and point state.
type fakeGamificationRepo struct {
	levels          map[int]*models.UserLevel
	points          map[int]int64
	consolidaciones map[int]int64
	applied         []repository.CompletionEffects
	pedidos         *fakePedidoRepo
}

func newFakeGamificationRepo() *fakeGamificationRepo {
	return &fakeGamificationRepo{
		levels:          map[int]*models.UserLevel{},
		points:          map[int]int64{},
		consolidaciones: map[int]int64{},
	}
}

func (f *fakeGamificationRepo) EnsureLevel(_ context.Context, userID int, defaultNivel string) (*models.UserLevel, error) {
	if l, ok := f.levels[userID]; ok {
		cp := *l
		return &cp, nil
	}
	l := &models.UserLevel{ID: userID, UserID: userID, Nivel: defaultNivel}
	f.levels[userID] = l
	cp := *l
	return &cp, nil
}

func (f *fakeGamificationRepo) SumPoints(_ context.Context, userID int) (int64, error) {
	return f.points[userID], nil
}

func (f *fakeGamificationRepo) CountConsolidaciones(_ context.Context, userID int) (int64, error) {
	return f.consolidaciones[userID], nil
}

func (f *fakeGamificationRepo) ApplyCompletion(_ context.Context, fx repository.CompletionEffects) error {
	if f.pedidos != nil {
		p, ok := f.pedidos.pedidos[fx.PedidoID]
		if !ok || p.UserID != fx.UserID || p.Status != models.PedidoPendiente {
			return utils.ErrInvalidTransition
		}
		p.Status = models.PedidoCompletado
	}
	f.applied = append(f.applied, fx)
	f.points[fx.UserID] += int64(fx.Puntos)
	for _, b := range fx.Badges {
		f.points[fx.UserID] += int64(b.Puntos)
	}
	level := f.levels[fx.UserID]
	level.XP += fx.XPGain
	level.VentasTotales++
	level.Nivel = fx.Nivel
	return nil
}

func (f *fakeGamificationRepo) Diagnostics(_ context.Context) (*repository.DiagnosticCounts, error) {
	return &repository.DiagnosticCounts{}, nil
}

// fakeBadgeRepo is an in-memory BadgeRepository keyed by slug.
type fakeBadgeRepo struct {
	badges  []models.Badge
	unlocks map[int][]models.UserBadge
	nextID  int
}

func newFakeBadgeRepo() *fakeBadgeRepo {
	return &fakeBadgeRepo{unlocks: map[int][]models.UserBadge{}, nextID: 1}
}

func (f *fakeBadgeRepo) ListAll(_ context.Context) ([]models.Badge, error) {
	return append([]models.Badge(nil), f.badges...), nil
}

func (f *fakeBadgeRepo) SeedBySlug(_ context.Context, badges []models.Badge) (int, error) {
	created := 0
	for _, b := range badges {
		exists := false
		for _, have := range f.badges {
			if have.Slug == b.Slug {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		b.ID = f.nextID
		f.nextID++
		f.badges = append(f.badges, b)
		created++
	}
	return created, nil
}

func (f *fakeBadgeRepo) UnlockedByUser(_ context.Context, userID int) ([]models.UserBadge, error) {
	return append([]models.UserBadge(nil), f.unlocks[userID]...), nil
}

// fakeCatalogStore backs both the catalog reader and the sync writer.
type fakeCatalogStore struct {
	rows map[int64]models.CatalogRow
}

func newFakeCatalogStore() *fakeCatalogStore {
	return &fakeCatalogStore{rows: map[int64]models.CatalogRow{}}
}

func (f *fakeCatalogStore) UpsertAll(_ context.Context, products []models.CatalogProduct) error {
	for i := range products {
		blob, err := json.Marshal(&products[i])
		if err != nil {
			return err
		}
		row, ok := f.rows[products[i].ID]
		if !ok {
			row = models.CatalogRow{ProductoID: products[i].ID}
		}
		row.Data = blob
		f.rows[products[i].ID] = row
	}
	return nil
}

func (f *fakeCatalogStore) List(_ context.Context, limit int) ([]models.CatalogRow, error) {
	var out []models.CatalogRow
	for _, row := range f.rows {
		if len(out) == limit {
			break
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeCatalogStore) ListBestSellers(ctx context.Context, limit int) ([]models.CatalogRow, error) {
	return f.List(ctx, limit)
}

func (f *fakeCatalogStore) Wipe(_ context.Context) error {
	f.rows = map[int64]models.CatalogRow{}
	return nil
}

func (f *fakeCatalogStore) Count(_ context.Context) (int, error) {
	return len(f.rows), nil
}

// fakeStoreAPI serves canned store API payloads.
type fakeStoreAPI struct {
	products   []tiendanube.Product
	categories []tiendanube.Category
	err        error
}

func (f *fakeStoreAPI) GetAllProducts(_ context.Context) ([]tiendanube.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeStoreAPI) GetCategories(_ context.Context) ([]tiendanube.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.categories, nil
}

// fakeCategoryCache is an in-memory CategoryCache.
type fakeCategoryCache struct {
	entries []cache.CategoryEntry
}

func (f *fakeCategoryCache) Get(_ context.Context) ([]cache.CategoryEntry, error) {
	return f.entries, nil
}

func (f *fakeCategoryCache) Set(_ context.Context, entries []cache.CategoryEntry) error {
	f.entries = entries
	return nil
}

func (f *fakeCategoryCache) Invalidate(_ context.Context) error {
	f.entries = nil
	return nil
}
