package domain

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusApproved  TransferStatus = "approved"
	TransferStatusInTransit TransferStatus = "in_transit"
	TransferStatusReceived  TransferStatus = "received"
	TransferStatusCompleted TransferStatus = "completed"
	TransferStatusCancelled TransferStatus = "cancelled"
)

// IsActive reports whether the transfer can still be cancelled. Once goods
// are fully reconciled (received) or the transfer is closed, cancellation is
// no longer a legal escape.
func (s TransferStatus) IsActive() bool {
	switch s {
	case TransferStatusPending, TransferStatusApproved, TransferStatusInTransit:
		return true
	}
	return false
}

func (s TransferStatus) IsTerminal() bool {
	return s == TransferStatusCompleted || s == TransferStatusCancelled
}

// CanTransitionTo encodes the forward-only status machine. The universal
// escape to cancelled is handled by IsActive.
func (s TransferStatus) CanTransitionTo(next TransferStatus) bool {
	if next == TransferStatusCancelled {
		return s.IsActive()
	}
	switch s {
	case TransferStatusPending:
		return next == TransferStatusApproved
	case TransferStatusApproved:
		return next == TransferStatusInTransit
	case TransferStatusInTransit:
		return next == TransferStatusReceived
	case TransferStatusReceived:
		return next == TransferStatusCompleted
	}
	return false
}

type TransferPriority string

const (
	TransferPriorityLow      TransferPriority = "low"
	TransferPriorityNormal   TransferPriority = "normal"
	TransferPriorityHigh     TransferPriority = "high"
	TransferPriorityUrgent   TransferPriority = "urgent"
	TransferPriorityCritical TransferPriority = "critical"
)

type TransferType string

const (
	TransferTypeReplenishment TransferType = "replenishment"
	TransferTypeRebalancing   TransferType = "rebalancing"
	TransferTypeEmergency     TransferType = "emergency"
	TransferTypeReturn        TransferType = "return"
	TransferTypeExpired       TransferType = "expired"
	TransferTypeDamaged       TransferType = "damaged"
	TransferTypeSeasonal      TransferType = "seasonal"
	TransferTypePromotion     TransferType = "promotion"
)

// Transfer is the aggregate root of an inter-shop stock movement. It
// exclusively owns its lines.
type Transfer struct {
	ID          int64            `json:"id"`
	FromShopID  int64            `json:"from_shop_id"`
	ToShopID    int64            `json:"to_shop_id"`
	Status      TransferStatus   `json:"status"`
	Priority    TransferPriority `json:"priority"`
	Type        TransferType     `json:"type"`
	Notes       string           `json:"notes"`
	RequestedBy int64            `json:"requested_by"`
	ApprovedBy  *int64           `json:"approved_by,omitempty"`
	Lines       []TransferLine   `json:"lines"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// AllLinesReconciled reports whether every shipped unit has been accounted
// for as received or damaged.
func (t Transfer) AllLinesReconciled() bool {
	for _, line := range t.Lines {
		if line.OutstandingQuantity() != 0 {
			return false
		}
	}
	return true
}

func (t Transfer) HasDiscrepancy() bool {
	for _, line := range t.Lines {
		if line.HasDiscrepancy() {
			return true
		}
	}
	return false
}

func (t Transfer) LineByID(lineID int64) (TransferLine, bool) {
	for _, line := range t.Lines {
		if line.ID == lineID {
			return line, true
		}
	}
	return TransferLine{}, false
}

// TransferLine is one product's quantity record within a transfer, unique
// per (transfer, product). RequestedQuantity is immutable after creation;
// the other quantities accumulate across partial ship/receive calls.
type TransferLine struct {
	ID                int64           `json:"id"`
	TransferID        int64           `json:"transfer_id"`
	ProductID         int64           `json:"product_id"`
	RequestedQuantity int64           `json:"requested_quantity"`
	ShippedQuantity   int64           `json:"shipped_quantity"`
	ReceivedQuantity  int64           `json:"received_quantity"`
	DamagedQuantity   int64           `json:"damaged_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// PendingQuantity is what is still shippable.
func (l TransferLine) PendingQuantity() int64 {
	return l.RequestedQuantity - l.ShippedQuantity
}

// OutstandingQuantity is shipped but not yet reconciled as received or
// damaged.
func (l TransferLine) OutstandingQuantity() int64 {
	return l.ShippedQuantity - l.ReceivedQuantity - l.DamagedQuantity
}

// HasDiscrepancy reports unexplained loss. Damaged units are accounted for,
// not discrepant.
func (l TransferLine) HasDiscrepancy() bool {
	return l.ReceivedQuantity+l.DamagedQuantity != l.ShippedQuantity
}

// Ship accumulates shipped quantity, bounded by the requested quantity.
func (l *TransferLine) Ship(quantity int64) error {
	if quantity <= 0 || quantity > l.PendingQuantity() {
		return ErrInvalidQuantity
	}
	l.ShippedQuantity += quantity
	return nil
}

// Receive accumulates received and damaged quantities, bounded by what has
// been shipped and not yet reconciled.
func (l *TransferLine) Receive(goodQuantity, damagedQuantity int64) error {
	if goodQuantity < 0 || damagedQuantity < 0 || goodQuantity+damagedQuantity == 0 {
		return ErrInvalidQuantity
	}
	if goodQuantity+damagedQuantity > l.OutstandingQuantity() {
		return ErrInvalidQuantity
	}
	l.ReceivedQuantity += goodQuantity
	l.DamagedQuantity += damagedQuantity
	return nil
}

type TransferLineRequest struct {
	ProductID int64           `json:"product_id" validate:"required"`
	Quantity  int64           `json:"quantity" validate:"required,gt=0"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

type TransferCreateRequest struct {
	FromShopID int64                 `json:"from_shop_id" validate:"required"`
	ToShopID   int64                 `json:"to_shop_id" validate:"required"`
	Priority   TransferPriority      `json:"priority" validate:"omitempty,oneof=low normal high urgent critical"`
	Type       TransferType          `json:"type" validate:"omitempty,oneof=replenishment rebalancing emergency return expired damaged seasonal promotion"`
	Notes      string                `json:"notes"`
	Lines      []TransferLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type ShipLineRequest struct {
	LineID   int64 `json:"line_id" validate:"required"`
	Quantity int64 `json:"quantity" validate:"required,gt=0"`
}

type TransferShipRequest struct {
	Lines []ShipLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type ReceiveLineRequest struct {
	LineID          int64          `json:"line_id" validate:"required"`
	GoodQuantity    int64          `json:"good_quantity" validate:"gte=0"`
	DamagedQuantity int64          `json:"damaged_quantity" validate:"gte=0"`
	DamageSeverity  DamageSeverity `json:"damage_severity" validate:"omitempty,oneof=minor moderate severe total_loss"`
	DamageReason    string         `json:"damage_reason"`
	Repairable      bool           `json:"repairable"`
}

type TransferReceiveRequest struct {
	Lines []ReceiveLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type TransferCancelRequest struct {
	Reason string `json:"reason"`
}

type GetListTransferRequest struct {
	Page      int64  `query:"page"`
	Limit     int64  `query:"limit"`
	SortBy    string `query:"sort_by"`
	SortOrder string `query:"sort_order"`
	Status    string `query:"status"`
}

type TransferRepository interface {
	Create(ctx context.Context, transfer *Transfer) error
	GetByID(ctx context.Context, id int64) (Transfer, error)
	// LockForUpdate serializes workflow calls on one transfer: it locks the
	// transfer row and its line rows until the transaction ends.
	LockForUpdate(ctx context.Context, id int64, tx *sql.Tx) (Transfer, error)
	UpdateStatus(ctx context.Context, transfer Transfer, tx *sql.Tx) error
	UpdateLineQuantities(ctx context.Context, line TransferLine, tx *sql.Tx) error
	GetListTransfer(ctx context.Context, shopID int64, param GetListTransferRequest) ([]Transfer, error)
	GetListTransferCount(ctx context.Context, shopID int64, param GetListTransferRequest) (int64, error)

	WithTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error
}

type TransferWorkflow interface {
	CreateTransfer(ctx context.Context, req TransferCreateRequest) (*Transfer, error)
	Approve(ctx context.Context, id int64) (Transfer, error)
	Ship(ctx context.Context, id int64, req TransferShipRequest) (Transfer, error)
	Receive(ctx context.Context, id int64, req TransferReceiveRequest) (Transfer, error)
	Complete(ctx context.Context, id int64) (Transfer, error)
	Cancel(ctx context.Context, id int64, req TransferCancelRequest) (Transfer, error)
	GetTransferByID(ctx context.Context, id int64, shopID *int64) (Transfer, error)
	GetListTransfer(ctx context.Context, shopID int64, param GetListTransferRequest) ([]Transfer, Metadata, error)
}
