package domain

import (
	"context"
	"database/sql"
	"time"
)

// StockRecord is the authoritative per-(shop, product) quantity record.
// It is created lazily the first time a shop stocks a product and is never
// hard-deleted; zero-quantity records remain for history.
type StockRecord struct {
	ID               int64     `json:"id"`
	ShopID           int64     `json:"shop_id"`
	ProductID        int64     `json:"product_id"`
	Quantity         int64     `json:"quantity"`
	ReservedQuantity int64     `json:"reserved_quantity"`
	ReorderLevel     int64     `json:"reorder_level"`
	MinStock         int64     `json:"min_stock"`
	MaxStock         int64     `json:"max_stock"`
	Version          int64     `json:"version"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (s StockRecord) AvailableQuantity() int64 {
	return s.Quantity - s.ReservedQuantity
}

func (s StockRecord) NeedsReorder() bool {
	return s.Quantity <= s.ReorderLevel
}

func (s StockRecord) Understocked() bool {
	return s.Quantity < s.MinStock
}

func (s StockRecord) Overstocked() bool {
	return s.MaxStock > 0 && s.Quantity > s.MaxStock
}

// InventoryTotal is a derived read-side mirror of a stock record. It is
// recomputed inside the same transaction as every ledger mutation and is
// never authoritative.
type InventoryTotal struct {
	ShopID            int64     `json:"shop_id"`
	ProductID         int64     `json:"product_id"`
	Quantity          int64     `json:"quantity"`
	AvailableQuantity int64     `json:"available_quantity"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type StockAdjustRequest struct {
	ShopID       int64        `json:"shop_id" validate:"required"`
	ProductID    int64        `json:"product_id" validate:"required"`
	Delta        int64        `json:"delta" validate:"required"`
	MovementType MovementType `json:"movement_type" validate:"required,oneof=addition reduction adjustment"`
	Notes        string       `json:"notes"`
}

type StockReservationRequest struct {
	ShopID    int64 `json:"shop_id" validate:"required"`
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int64 `json:"quantity" validate:"required,gt=0"`
}

type StockLevelsRequest struct {
	ShopID       int64 `json:"shop_id" validate:"required"`
	ProductID    int64 `json:"product_id" validate:"required"`
	ReorderLevel int64 `json:"reorder_level" validate:"gte=0"`
	MinStock     int64 `json:"min_stock" validate:"gte=0"`
	MaxStock     int64 `json:"max_stock" validate:"gte=0"`
}

type GetListStockRequest struct {
	ProductID int64  `query:"product_id"`
	Page      int64  `query:"page"`
	Limit     int64  `query:"limit"`
	SortOrder string `query:"sort_order"`
	SortBy    string `query:"sort_by"`
}

type Metadata struct {
	TotalData int64  `json:"total_data"`
	TotalPage int64  `json:"total_page"`
	Page      int64  `json:"page"`
	Limit     int64  `json:"limit"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
}

type StockRepository interface {
	Create(ctx context.Context, stock *StockRecord) error
	GetByID(ctx context.Context, id int64) (StockRecord, error)
	GetByShopAndProduct(ctx context.Context, shopID, productID int64) (StockRecord, error)
	// LockForUpdate acquires the exclusive per-(shop, product) section. The
	// lock is held until the surrounding transaction ends; acquisition is
	// bounded by the session lock timeout and fails with ErrLockTimeout.
	LockForUpdate(ctx context.Context, shopID, productID int64, tx *sql.Tx) (StockRecord, error)
	// UpdateQuantities compares-and-swaps on version and fails with
	// ErrVersionMismatch when the record changed underneath the caller.
	UpdateQuantities(ctx context.Context, id, quantity, reserved, version int64, tx *sql.Tx) error
	UpdateLevels(ctx context.Context, id, reorderLevel, minStock, maxStock int64) error
	GetListStock(ctx context.Context, shopID int64, param GetListStockRequest) ([]StockRecord, error)
	GetListStockCount(ctx context.Context, shopID int64, param GetListStockRequest) (int64, error)
	GetLowStock(ctx context.Context, shopID int64) ([]StockRecord, error)
	GetOverstocked(ctx context.Context, shopID int64) ([]StockRecord, error)
	UpsertTotal(ctx context.Context, total InventoryTotal, tx *sql.Tx) error
	GetTotal(ctx context.Context, shopID, productID int64) (InventoryTotal, error)

	WithTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error
}

type StockLedger interface {
	GetOrCreate(ctx context.Context, shopID, productID int64) (StockRecord, error)
	Adjust(ctx context.Context, req StockAdjustRequest) (StockRecord, error)
	Reserve(ctx context.Context, req StockReservationRequest) (StockRecord, error)
	Release(ctx context.Context, req StockReservationRequest) (StockRecord, error)
	SetLevels(ctx context.Context, req StockLevelsRequest) error
	SyncTotal(ctx context.Context, shopID, productID int64) (InventoryTotal, error)
	GetListStock(ctx context.Context, shopID int64, param GetListStockRequest) ([]StockRecord, Metadata, error)
	LowStockItems(ctx context.Context, shopID int64) ([]StockRecord, error)
	OverstockedItems(ctx context.Context, shopID int64) ([]StockRecord, error)
}
