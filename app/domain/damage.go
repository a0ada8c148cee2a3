package domain

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type DamageSeverity string

const (
	DamageSeverityMinor     DamageSeverity = "minor"
	DamageSeverityModerate  DamageSeverity = "moderate"
	DamageSeveritySevere    DamageSeverity = "severe"
	DamageSeverityTotalLoss DamageSeverity = "total_loss"
)

// DamageRecord captures damaged units discovered while receiving a transfer.
// It references the transfer but does not own it, and is immutable once
// created except for the insurance-claim fields.
type DamageRecord struct {
	ID                   int64           `json:"id"`
	TransferID           int64           `json:"transfer_id"`
	ProductID            int64           `json:"product_id"`
	DamagedQuantity      int64           `json:"damaged_quantity"`
	UnitCost             decimal.Decimal `json:"unit_cost"`
	Severity             DamageSeverity  `json:"severity"`
	Repairable           bool            `json:"repairable"`
	Reason               string          `json:"reason"`
	InsuranceClaimed     bool            `json:"insurance_claimed"`
	InsuranceClaimNumber *string         `json:"insurance_claim_number,omitempty"`
	ReportedBy           int64           `json:"reported_by"`
	IdentifiedAt         time.Time       `json:"identified_at"`
	CreatedAt            time.Time       `json:"created_at"`
}

func (d DamageRecord) TotalDamageValue() decimal.Decimal {
	return d.UnitCost.Mul(decimal.NewFromInt(d.DamagedQuantity))
}

type InsuranceClaimRequest struct {
	ClaimNumber string `json:"claim_number" validate:"required"`
}

type DamageRecordRepository interface {
	Create(ctx context.Context, record *DamageRecord, tx *sql.Tx) error
	GetByID(ctx context.Context, id int64) (DamageRecord, error)
	GetByTransferID(ctx context.Context, transferID int64) ([]DamageRecord, error)
	UpdateInsuranceClaim(ctx context.Context, id int64, claimNumber string) error
}

type DamageTracker interface {
	FileInsuranceClaim(ctx context.Context, id int64, req InsuranceClaimRequest) (DamageRecord, error)
	GetByTransferID(ctx context.Context, transferID int64) ([]DamageRecord, error)
	TotalDamageValue(ctx context.Context, transferID int64) (decimal.Decimal, error)
}
