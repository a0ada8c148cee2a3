package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// ProductDescriptor is read-only reference data owned by the product
// service.
type ProductDescriptor struct {
	ID       int64           `json:"id"`
	SKU      string          `json:"sku"`
	Name     string          `json:"name"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

type CatalogClient interface {
	GetProduct(ctx context.Context, productID int64) (ProductDescriptor, error)
	GetUnitCost(ctx context.Context, productID int64) (decimal.Decimal, error)
}
