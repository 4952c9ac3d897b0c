package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/revendehq/revende_api/internal/cache"
	"github.com/revendehq/revende_api/internal/models"
	"github.com/revendehq/revende_api/pkg/tiendanube"
)

// CatalogWriter is the cache-table surface the sync job writes to.
type CatalogWriter interface {
	UpsertAll(ctx context.Context, products []models.CatalogProduct) error
}

// SyncService fetches the external catalog, normalizes it and replaces the
// local cache rows. A failed fetch leaves the existing cache untouched.
type SyncService struct {
	api        StoreAPI
	repo       CatalogWriter
	categories CategoryCache
}

// NewSyncService constructs a SyncService.
func NewSyncService(api StoreAPI, repo CatalogWriter, categories CategoryCache) *SyncService {
	return &SyncService{api: api, repo: repo, categories: categories}
}

// SyncResult summarizes one sync run.
type SyncResult struct {
	Products   int           `json:"products"`
	Skipped    int           `json:"skipped"`
	Categories int           `json:"categories"`
	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"durationMs"`
}

// SyncCatalog fetches all products and categories, flattens variants into
// normalized cache records keyed by product id and upserts them in one
// transaction.
func (s *SyncService) SyncCatalog(ctx context.Context) (*SyncResult, error) {
	start := time.Now()

	raw, err := s.api.GetAllProducts(ctx)
	if err != nil {
		return nil, err
	}

	normalized := make([]models.CatalogProduct, 0, len(raw))
	skipped := 0
	for i := range raw {
		p, ok := NormalizeProduct(&raw[i])
		if !ok {
			skipped++
			continue
		}
		normalized = append(normalized, p)
	}

	if err := s.repo.UpsertAll(ctx, normalized); err != nil {
		return nil, err
	}

	// Refresh the category cache alongside the product sync. Failure here is
	// non-fatal: reads fall back to the store API.
	categories := 0
	if rawCats, err := s.api.GetCategories(ctx); err != nil {
		log.Warn().Err(err).Msg("Category fetch failed during sync")
	} else {
		entries := make([]cache.CategoryEntry, 0, len(rawCats))
		for _, c := range rawCats {
			entries = append(entries, cache.CategoryEntry{ID: c.ID, Nombre: c.Name.Es})
		}
		if err := s.categories.Set(ctx, entries); err != nil {
			log.Warn().Err(err).Msg("Category cache write failed during sync")
		}
		categories = len(entries)
	}

	result := &SyncResult{
		Products:   len(normalized),
		Skipped:    skipped,
		Categories: categories,
		Duration:   time.Since(start),
	}
	result.DurationMS = result.Duration.Milliseconds()

	log.Info().
		Int("products", result.Products).
		Int("skipped", result.Skipped).
		Int("categories", result.Categories).
		Dur("duration", result.Duration).
		Msg("Catalog sync completed")
	return result, nil
}

// NormalizeProduct converts a raw store product into a cache record,
// flattening its variants. Unpublished products and products with no usable
// variant are skipped.
func NormalizeProduct(raw *tiendanube.Product) (models.CatalogProduct, bool) {
	if !raw.Published {
		return models.CatalogProduct{}, false
	}

	variantes := make([]models.CatalogVariant, 0, len(raw.Variants))
	for _, v := range raw.Variants {
		precio, err := ParsePrecio(v.Price)
		if err != nil {
			log.Warn().Int64("producto_id", raw.ID).Int64("variante_id", v.ID).Str("price", v.Price).
				Msg("Skipping variant with unparseable price")
			continue
		}
		atributos := make([]string, 0, len(v.Values))
		for _, val := range v.Values {
			if val.Es != "" {
				atributos = append(atributos, val.Es)
			}
		}
		variantes = append(variantes, models.CatalogVariant{
			ID:              v.ID,
			Atributos:       atributos,
			PrecioMayorista: precio,
			Stock:           v.Stock,
		})
	}
	if len(variantes) == 0 {
		return models.CatalogProduct{}, false
	}

	categorias := make([]string, 0, len(raw.Categories))
	for _, c := range raw.Categories {
		if c.Name.Es != "" {
			categorias = append(categorias, c.Name.Es)
		}
	}

	imagen := ""
	if len(raw.Images) > 0 {
		imagen = raw.Images[0].Src
	}

	return models.CatalogProduct{
		ID:          raw.ID,
		Nombre:      raw.Name.Es,
		Descripcion: raw.Description.Es,
		Categorias:  categorias,
		ImagenURL:   imagen,
		Variantes:   variantes,
	}, true
}

// ParsePrecio parses the store API's decimal price string into whole pesos.
// Fractions are dropped; wholesale prices are whole-peso amounts in practice.
func ParsePrecio(price string) (int, error) {
	price = strings.TrimSpace(price)
	f, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}
