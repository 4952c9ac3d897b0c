package tiendanube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const perPage = 200

// Client is a minimal HTTP client for the store catalog API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	storeID     string
	accessToken string
	debug       bool
}

// Config holds the credentials for one store.
type Config struct {
	BaseURL     string
	StoreID     string
	AccessToken string
}

// NewClient constructs a new store API client with sane defaults.
func NewClient(cfg Config) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     cfg.BaseURL,
		storeID:     cfg.StoreID,
		accessToken: cfg.AccessToken,
		debug:       os.Getenv("ENV") == "development",
	}
}

// GetAllProducts retrieves the full product list, following pagination until
// a short page is returned.
func (c *Client) GetAllProducts(ctx context.Context) ([]Product, error) {
	var all []Product
	for page := 1; ; page++ {
		batch, err := c.getProductsPage(ctx, page)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < perPage {
			break
		}
	}
	return all, nil
}

// GetCategories retrieves all store categories.
func (c *Client) GetCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.doRequest(ctx, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) getProductsPage(ctx context.Context, page int) ([]Product, error) {
	query := map[string]string{
		"page":      strconv.Itoa(page),
		"per_page":  strconv.Itoa(perPage),
		"published": "true",
	}
	var products []Product
	if err := c.doRequest(ctx, "/products", query, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// doRequest performs an authenticated GET against the store API and decodes
// the JSON response into result.
func (c *Client) doRequest(ctx context.Context, endpoint string, query map[string]string, result any) error {
	url := fmt.Sprintf("%s/%s%s", c.baseURL, c.storeID, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authentication", "bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "revende-api")

	if len(query) > 0 {
		q := req.URL.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			Int("bytes", len(respBody)).
			Msg("[TIENDA] Incoming response")
	}

	// The store API returns 404 with an empty body for pages past the end.
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("store API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
