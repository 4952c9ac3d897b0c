package tiendanube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:     srv.URL,
		StoreID:     "12345",
		AccessToken: "token-abc",
	})
}

func TestGetAllProductsPaginates(t *testing.T) {
	// Two full pages and one short page.
	total := perPage*2 + 3

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/12345/products", r.URL.Path)
		require.Equal(t, "bearer token-abc", r.Header.Get("Authentication"))

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		require.NoError(t, err)

		start := (page - 1) * perPage
		end := start + perPage
		if end > total {
			end = total
		}
		products := make([]Product, 0, end-start)
		for i := start; i < end; i++ {
			products = append(products, Product{
				ID:        int64(i + 1),
				Name:      LocalizedString{Es: fmt.Sprintf("Producto %d", i+1)},
				Published: true,
			})
		}
		_ = json.NewEncoder(w).Encode(products)
	})

	client := newTestClient(t, handler)
	products, err := client.GetAllProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, total)
	require.Equal(t, int64(1), products[0].ID)
	require.Equal(t, int64(total), products[total-1].ID)
}

func TestGetAllProductsStopsOnNotFoundPage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page > 1 {
			// Pages past the end come back 404 with an empty body.
			w.WriteHeader(http.StatusNotFound)
			return
		}
		products := make([]Product, perPage)
		for i := range products {
			products[i] = Product{ID: int64(i + 1), Published: true}
		}
		_ = json.NewEncoder(w).Encode(products)
	})

	client := newTestClient(t, handler)
	products, err := client.GetAllProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, perPage)
}

func TestGetCategories(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/12345/categories", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]Category{
			{ID: 1, Name: LocalizedString{Es: "Ropa"}},
			{ID: 2, Name: LocalizedString{Es: "Accesorios"}},
		})
	})

	client := newTestClient(t, handler)
	categories, err := client.GetCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	require.Equal(t, "Ropa", categories[0].Name.Es)
}

func TestServerErrorSurfaces(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	client := newTestClient(t, handler)
	_, err := client.GetAllProducts(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "500")
}
