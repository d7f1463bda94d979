// internal/domain/cart/catalog.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ErrProductNotFound is returned when the catalog has no such product
var ErrProductNotFound = errors.New("product not found")

// Catalog looks up product data for new cart lines
type Catalog interface {
	Product(ctx context.Context, productID string) (*ProductSnapshot, error)
}

// HTTPCatalog reads products from the catalog REST API
type HTTPCatalog struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPCatalog creates a catalog client. baseURL is the API root, e.g. http://host/api.
func NewHTTPCatalog(baseURL string, timeout time.Duration) *HTTPCatalog {
	return &HTTPCatalog{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// catalogProduct accepts both the catalog's own field names and lowercase aliases
type catalogProduct struct {
	ID            string   `json:"_id"`
	ProductName   string   `json:"Product_Name"`
	Name          string   `json:"name"`
	Price         *float64 `json:"Price"`
	PriceLower    *float64 `json:"price"`
	ProductImages []string `json:"Product_Images"`
}

// Product fetches GET {baseURL}/products/{id}
func (c *HTTPCatalog) Product(ctx context.Context, productID string) (*ProductSnapshot, error) {
	endpoint := fmt.Sprintf("%s/products/%s", c.baseURL, url.PathEscape(productID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var p catalogProduct
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode catalog product: %w", err)
	}

	return c.snapshot(productID, p), nil
}

func (c *HTTPCatalog) snapshot(productID string, p catalogProduct) *ProductSnapshot {
	name := p.ProductName
	if name == "" {
		name = p.Name
	}
	if name == "" {
		name = "Product"
	}

	var price float64
	switch {
	case p.Price != nil:
		price = *p.Price
	case p.PriceLower != nil:
		price = *p.PriceLower
	}

	var image string
	if len(p.ProductImages) > 0 {
		image = fmt.Sprintf("%s/uploads/%s", strings.TrimSuffix(c.baseURL, "/api"), p.ProductImages[0])
	}

	return &ProductSnapshot{
		ID:    productID,
		Name:  name,
		Price: price,
		Image: image,
	}
}
