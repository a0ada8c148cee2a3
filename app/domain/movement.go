package domain

import (
	"context"
	"database/sql"
	"time"
)

type MovementType string

const (
	MovementTypeAddition   MovementType = "addition"
	MovementTypeReduction  MovementType = "reduction"
	MovementTypeAdjustment MovementType = "adjustment"
)

// StockMovement is an append-only audit row. Quantity is signed by the
// movement type: negative for reductions, positive otherwise.
type StockMovement struct {
	ID           int64        `json:"id"`
	ShopID       int64        `json:"shop_id"`
	ProductID    int64        `json:"product_id"`
	Quantity     int64        `json:"quantity"`
	MovementType MovementType `json:"movement_type"`
	Notes        string       `json:"notes"`
	CreatedBy    int64        `json:"created_by"`
	CreatedAt    time.Time    `json:"created_at"`
}

// MovementHistoryRequest bounds a history query. From and To are parsed by
// the handler; zero values mean unbounded.
type MovementHistoryRequest struct {
	From      time.Time `query:"-"`
	To        time.Time `query:"-"`
	Page      int64     `query:"page"`
	Limit     int64     `query:"limit"`
	SortOrder string    `query:"sort_order"`
}

type StockMovementRepository interface {
	Append(ctx context.Context, movement *StockMovement, tx *sql.Tx) error
	GetHistory(ctx context.Context, shopID, productID int64, param MovementHistoryRequest) ([]StockMovement, error)
	GetHistoryCount(ctx context.Context, shopID, productID int64, param MovementHistoryRequest) (int64, error)
}

type MovementRecorder interface {
	History(ctx context.Context, shopID, productID int64, param MovementHistoryRequest) ([]StockMovement, Metadata, error)
}
