package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"inventory-service/app/domain"
	"inventory-service/config"

	"github.com/shopspring/decimal"
)

// client is a read-only facade over the product service. The core never
// mutates catalog data.
type client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
}

func NewCatalogClient(cfg *config.Config) domain.CatalogClient {
	return &client{
		baseURL:    cfg.Catalog.BaseUrl,
		authHeader: cfg.InternalAuthHeader,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

type productResponse struct {
	Data domain.ProductDescriptor `json:"data"`
}

func (c *client) GetProduct(ctx context.Context, productID int64) (domain.ProductDescriptor, error) {
	url := fmt.Sprintf("%s/internal/product-service/products/%d", c.baseURL, productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		slog.ErrorContext(ctx, "[catalogClient] GetProduct", "newRequest", err)
		return domain.ProductDescriptor{}, err
	}
	req.Header.Set("X-Internal-Auth", c.authHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.ErrorContext(ctx, "[catalogClient] GetProduct", "do", err)
		return domain.ProductDescriptor{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return domain.ProductDescriptor{}, domain.ErrNotFound
	default:
		slog.ErrorContext(ctx, "[catalogClient] GetProduct", "status", resp.StatusCode)
		return domain.ProductDescriptor{}, fmt.Errorf("%w: product service returned %d", domain.ErrInternal, resp.StatusCode)
	}

	var body productResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		slog.ErrorContext(ctx, "[catalogClient] GetProduct", "decode", err)
		return domain.ProductDescriptor{}, err
	}

	return body.Data, nil
}

func (c *client) GetUnitCost(ctx context.Context, productID int64) (decimal.Decimal, error) {
	product, err := c.GetProduct(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	return product.UnitCost, nil
}
