package db

import (
	"context"
	"database/sql"
	"log/slog"

	"inventory-service/app/domain"
)

type damageRecordRepository struct {
	conn *sql.DB
}

func NewDamageRecordRepository(db *sql.DB) domain.DamageRecordRepository {
	return &damageRecordRepository{db}
}

func (r *damageRecordRepository) Create(ctx context.Context, record *domain.DamageRecord, tx *sql.Tx) error {
	query := `INSERT INTO damage_records (transfer_id, product_id, damaged_quantity, unit_cost, severity, repairable, reason, reported_by, identified_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	Returning id, created_at`

	err := tx.QueryRowContext(ctx, query, record.TransferID, record.ProductID,
		record.DamagedQuantity, record.UnitCost, record.Severity, record.Repairable,
		record.Reason, record.ReportedBy, record.IdentifiedAt).
		Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		slog.ErrorContext(ctx, "[damageRecordRepository] Create", "queryRowContext", err)
		return err
	}
	return nil
}

const damageColumns = `id, transfer_id, product_id, damaged_quantity, unit_cost, severity, repairable, reason, insurance_claimed, insurance_claim_number, reported_by, identified_at, created_at`

func (r *damageRecordRepository) GetByID(ctx context.Context, id int64) (domain.DamageRecord, error) {
	query := `SELECT ` + damageColumns + ` FROM damage_records WHERE id = $1`

	var record domain.DamageRecord
	err := r.conn.QueryRowContext(ctx, query, id).Scan(&record.ID, &record.TransferID,
		&record.ProductID, &record.DamagedQuantity, &record.UnitCost, &record.Severity,
		&record.Repairable, &record.Reason, &record.InsuranceClaimed, &record.InsuranceClaimNumber,
		&record.ReportedBy, &record.IdentifiedAt, &record.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return record, domain.ErrNotFound
		}
		slog.ErrorContext(ctx, "[damageRecordRepository] GetByID", "queryRowContext", err)
		return record, err
	}

	return record, nil
}

func (r *damageRecordRepository) GetByTransferID(ctx context.Context, transferID int64) ([]domain.DamageRecord, error) {
	query := `SELECT ` + damageColumns + ` FROM damage_records WHERE transfer_id = $1 ORDER BY created_at DESC`

	rows, err := r.conn.QueryContext(ctx, query, transferID)
	if err != nil {
		slog.ErrorContext(ctx, "[damageRecordRepository] GetByTransferID", "queryContext", err)
		return nil, err
	}
	defer rows.Close()

	var records []domain.DamageRecord
	for rows.Next() {
		var record domain.DamageRecord
		if err := rows.Scan(&record.ID, &record.TransferID, &record.ProductID,
			&record.DamagedQuantity, &record.UnitCost, &record.Severity, &record.Repairable,
			&record.Reason, &record.InsuranceClaimed, &record.InsuranceClaimNumber,
			&record.ReportedBy, &record.IdentifiedAt, &record.CreatedAt); err != nil {
			slog.ErrorContext(ctx, "[damageRecordRepository] GetByTransferID", "scan", err)
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		slog.ErrorContext(ctx, "[damageRecordRepository] GetByTransferID", "rowError", err)
		return nil, err
	}

	return records, nil
}

func (r *damageRecordRepository) UpdateInsuranceClaim(ctx context.Context, id int64, claimNumber string) error {
	query := `UPDATE damage_records SET insurance_claimed = TRUE, insurance_claim_number = $1 WHERE id = $2`
	_, err := r.conn.ExecContext(ctx, query, claimNumber, id)
	if err != nil {
		slog.ErrorContext(ctx, "[damageRecordRepository] UpdateInsuranceClaim", "execContext", err)
		return err
	}
	return nil
}
