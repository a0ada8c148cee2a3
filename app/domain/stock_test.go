package domain_test

import (
	"testing"

	"inventory-service/app/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStockRecordAvailableQuantity(t *testing.T) {
	stock := domain.StockRecord{Quantity: 100, ReservedQuantity: 30}
	assert.Equal(t, int64(70), stock.AvailableQuantity())
}

func TestStockRecordNeedsReorder(t *testing.T) {
	assert.True(t, domain.StockRecord{Quantity: 5, ReorderLevel: 5}.NeedsReorder())
	assert.True(t, domain.StockRecord{Quantity: 4, ReorderLevel: 5}.NeedsReorder())
	assert.False(t, domain.StockRecord{Quantity: 6, ReorderLevel: 5}.NeedsReorder())
}

func TestStockRecordUnderstocked(t *testing.T) {
	assert.True(t, domain.StockRecord{Quantity: 4, MinStock: 5}.Understocked())
	assert.False(t, domain.StockRecord{Quantity: 5, MinStock: 5}.Understocked())
}

func TestStockRecordOverstocked(t *testing.T) {
	assert.True(t, domain.StockRecord{Quantity: 11, MaxStock: 10}.Overstocked())
	assert.False(t, domain.StockRecord{Quantity: 10, MaxStock: 10}.Overstocked())
	// zero max stock means no ceiling
	assert.False(t, domain.StockRecord{Quantity: 1000, MaxStock: 0}.Overstocked())
}

func TestDamageRecordTotalDamageValue(t *testing.T) {
	record := domain.DamageRecord{
		DamagedQuantity: 3,
		UnitCost:        decimal.RequireFromString("12.50"),
	}
	assert.True(t, record.TotalDamageValue().Equal(decimal.RequireFromString("37.50")))
}
