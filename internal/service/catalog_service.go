package service

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/revendehq/revende_api/internal/cache"
	"github.com/revendehq/revende_api/internal/models"
	"github.com/revendehq/revende_api/pkg/tiendanube"
)

// Fixed page cap for catalog reads; the cache holds at most a few hundred rows.
const catalogPageSize = 100

// CatalogRepository is the cache-table surface for catalog reads.
type CatalogRepository interface {
	List(ctx context.Context, limit int) ([]models.CatalogRow, error)
	ListBestSellers(ctx context.Context, limit int) ([]models.CatalogRow, error)
	Wipe(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}

// StoreAPI is the external catalog provider surface.
type StoreAPI interface {
	GetAllProducts(ctx context.Context) ([]tiendanube.Product, error)
	GetCategories(ctx context.Context) ([]tiendanube.Category, error)
}

// CategoryCache is the Redis-backed cache for the store category list.
type CategoryCache interface {
	Get(ctx context.Context) ([]cache.CategoryEntry, error)
	Set(ctx context.Context, entries []cache.CategoryEntry) error
	Invalidate(ctx context.Context) error
}

// CatalogService serves cached catalog rows and categories.
type CatalogService struct {
	repo       CatalogRepository
	api        StoreAPI
	categories CategoryCache
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(repo CatalogRepository, api StoreAPI, categories CategoryCache) *CatalogService {
	return &CatalogService{repo: repo, api: api, categories: categories}
}

// ListProducts returns cached products. Each cached blob is deserialized
// independently; a malformed row is skipped and logged instead of failing
// the whole response.
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.CatalogProduct, error) {
	rows, err := s.repo.List(ctx, catalogPageSize)
	if err != nil {
		return nil, err
	}
	return decodeRows(rows), nil
}

// ListBestSellers returns cached products sorted by descending sales count.
func (s *CatalogService) ListBestSellers(ctx context.Context) ([]models.CatalogProduct, error) {
	rows, err := s.repo.ListBestSellers(ctx, catalogPageSize)
	if err != nil {
		return nil, err
	}
	return decodeRows(rows), nil
}

func decodeRows(rows []models.CatalogRow) []models.CatalogProduct {
	products := make([]models.CatalogProduct, 0, len(rows))
	for _, row := range rows {
		var p models.CatalogProduct
		if err := json.Unmarshal(row.Data, &p); err != nil {
			log.Warn().Err(err).Int64("producto_id", row.ProductoID).Msg("Skipping malformed catalog row")
			continue
		}
		p.VentasCount = row.VentasCount
		products = append(products, p)
	}
	return products
}

// Categories returns the store categories, served from Redis when fresh and
// refetched from the store API on a miss.
func (s *CatalogService) Categories(ctx context.Context) ([]cache.CategoryEntry, error) {
	if cached, err := s.categories.Get(ctx); err != nil {
		log.Warn().Err(err).Msg("Category cache read failed, falling back to store API")
	} else if cached != nil {
		return cached, nil
	}

	raw, err := s.api.GetCategories(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]cache.CategoryEntry, 0, len(raw))
	for _, c := range raw {
		entries = append(entries, cache.CategoryEntry{ID: c.ID, Nombre: c.Name.Es})
	}

	if err := s.categories.Set(ctx, entries); err != nil {
		log.Warn().Err(err).Msg("Category cache write failed")
	}
	return entries, nil
}

// LimpiarCache wipes the catalog cache table and the cached category list,
// returning how many product rows were dropped.
func (s *CatalogService) LimpiarCache(ctx context.Context) (int, error) {
	dropped, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.repo.Wipe(ctx); err != nil {
		return 0, err
	}
	if err := s.categories.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("Category cache invalidation failed")
	}
	return dropped, nil
}
