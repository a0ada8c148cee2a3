package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"inventory-service/app/domain"
)

type transferRepository struct {
	conn          *sql.DB
	lockTimeoutMs int64
}

func NewTransferRepository(db *sql.DB, lockTimeoutMs int64) domain.TransferRepository {
	return &transferRepository{db, lockTimeoutMs}
}

func (r *transferRepository) Create(ctx context.Context, transfer *domain.Transfer) error {
	return r.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		query := `INSERT INTO transfers (from_shop, to_shop, status, priority, type, notes, requested_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		Returning id, created_at, updated_at`

		err := tx.QueryRowContext(ctx, query, transfer.FromShopID, transfer.ToShopID,
			transfer.Status, transfer.Priority, transfer.Type, transfer.Notes, transfer.RequestedBy).
			Scan(&transfer.ID, &transfer.CreatedAt, &transfer.UpdatedAt)
		if err != nil {
			slog.ErrorContext(ctx, "[transferRepository] Create", "insertTransfer", err)
			return err
		}

		valuePlaceholders := []string{}
		valueArgs := []interface{}{}
		for i, line := range transfer.Lines {
			valuePlaceholders = append(valuePlaceholders,
				fmt.Sprintf("($%d, $%d, $%d, $%d)", i*4+1, i*4+2, i*4+3, i*4+4))
			valueArgs = append(valueArgs, transfer.ID, line.ProductID, line.RequestedQuantity, line.UnitCost)
		}

		lineQuery := fmt.Sprintf(`INSERT INTO transfer_lines (transfer_id, product_id, requested_quantity, unit_cost)
		VALUES %s Returning id`, strings.Join(valuePlaceholders, ", "))

		rows, err := tx.QueryContext(ctx, lineQuery, valueArgs...)
		if err != nil {
			slog.ErrorContext(ctx, "[transferRepository] Create", "insertLines", err)
			return err
		}
		defer rows.Close()

		i := 0
		for rows.Next() {
			if err := rows.Scan(&transfer.Lines[i].ID); err != nil {
				slog.ErrorContext(ctx, "[transferRepository] Create", "scanLineID", err)
				return err
			}
			transfer.Lines[i].TransferID = transfer.ID
			i++
		}
		return rows.Err()
	})
}

const transferColumns = `id, from_shop, to_shop, status, priority, type, notes, requested_by, approved_by, created_at, updated_at`

func scanTransfer(row interface{ Scan(...any) error }, t *domain.Transfer) error {
	return row.Scan(&t.ID, &t.FromShopID, &t.ToShopID, &t.Status, &t.Priority,
		&t.Type, &t.Notes, &t.RequestedBy, &t.ApprovedBy, &t.CreatedAt, &t.UpdatedAt)
}

func (r *transferRepository) GetByID(ctx context.Context, id int64) (domain.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1`

	var transfer domain.Transfer
	err := scanTransfer(r.conn.QueryRowContext(ctx, query, id), &transfer)
	if err != nil {
		if err == sql.ErrNoRows {
			return transfer, domain.ErrNotFound
		}
		slog.ErrorContext(ctx, "[transferRepository] GetByID", "queryRowContext", err)
		return transfer, err
	}

	lines, err := r.getLines(ctx, r.conn.QueryContext, id, false)
	if err != nil {
		return transfer, err
	}
	transfer.Lines = lines

	return transfer, nil
}

func (r *transferRepository) LockForUpdate(ctx context.Context, id int64, tx *sql.Tx) (domain.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1 FOR UPDATE`

	var transfer domain.Transfer
	err := scanTransfer(tx.QueryRowContext(ctx, query, id), &transfer)
	if err != nil {
		if err == sql.ErrNoRows {
			return transfer, domain.ErrNotFound
		}
		slog.ErrorContext(ctx, "[transferRepository] LockForUpdate", "queryRowContext", err)
		return transfer, mapLockError(err)
	}

	lines, err := r.getLines(ctx, tx.QueryContext, id, true)
	if err != nil {
		return transfer, mapLockError(err)
	}
	transfer.Lines = lines

	return transfer, nil
}

type queryFn func(ctx context.Context, query string, args ...any) (*sql.Rows, error)

func (r *transferRepository) getLines(ctx context.Context, query queryFn, transferID int64, forUpdate bool) ([]domain.TransferLine, error) {
	q := `SELECT id, transfer_id, product_id, requested_quantity, shipped_quantity, received_quantity, damaged_quantity, unit_cost, created_at, updated_at
	FROM transfer_lines WHERE transfer_id = $1 ORDER BY id`
	if forUpdate {
		q += ` FOR UPDATE`
	}

	rows, err := query(ctx, q, transferID)
	if err != nil {
		slog.ErrorContext(ctx, "[transferRepository] getLines", "queryContext", err)
		return nil, err
	}
	defer rows.Close()

	var lines []domain.TransferLine
	for rows.Next() {
		var line domain.TransferLine
		if err := rows.Scan(&line.ID, &line.TransferID, &line.ProductID,
			&line.RequestedQuantity, &line.ShippedQuantity, &line.ReceivedQuantity,
			&line.DamagedQuantity, &line.UnitCost, &line.CreatedAt, &line.UpdatedAt); err != nil {
			slog.ErrorContext(ctx, "[transferRepository] getLines", "scan", err)
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		slog.ErrorContext(ctx, "[transferRepository] getLines", "rowError", err)
		return nil, err
	}
	return lines, nil
}

func (r *transferRepository) UpdateStatus(ctx context.Context, transfer domain.Transfer, tx *sql.Tx) error {
	query := `UPDATE transfers SET status = $1, notes = $2, approved_by = $3, updated_at = now() WHERE id = $4`
	_, err := tx.ExecContext(ctx, query, transfer.Status, transfer.Notes, transfer.ApprovedBy, transfer.ID)
	if err != nil {
		slog.ErrorContext(ctx, "[transferRepository] UpdateStatus", "execContext", err)
		return err
	}
	return nil
}

func (r *transferRepository) UpdateLineQuantities(ctx context.Context, line domain.TransferLine, tx *sql.Tx) error {
	query := `UPDATE transfer_lines
	SET shipped_quantity = $1, received_quantity = $2, damaged_quantity = $3, updated_at = now()
	WHERE id = $4`
	_, err := tx.ExecContext(ctx, query, line.ShippedQuantity, line.ReceivedQuantity, line.DamagedQuantity, line.ID)
	if err != nil {
		slog.ErrorContext(ctx, "[transferRepository] UpdateLineQuantities", "execContext", err)
		return err
	}
	return nil
}

func (r *transferRepository) GetListTransfer(ctx context.Context, shopID int64, param domain.GetListTransferRequest) ([]domain.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE (from_shop = $1 OR to_shop = $1)`
	args := []interface{}{shopID}
	placeholder := 2

	if param.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", placeholder)
		args = append(args, param.Status)
		placeholder++
	}

	if param.SortBy != "" {
		query += fmt.Sprintf(" ORDER BY %s", param.SortBy)
		if param.SortOrder != "" {
			query += fmt.Sprintf(" %s", param.SortOrder)
		}
	} else {
		query += ` ORDER BY created_at DESC`
	}

	offset := (param.Page - 1) * param.Limit
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", placeholder, placeholder+1)
	args = append(args, param.Limit, offset)

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		slog.ErrorContext(ctx, "[transferRepository] GetListTransfer", "queryContext", err)
		return nil, err
	}
	defer rows.Close()

	var transfers []domain.Transfer
	for rows.Next() {
		var transfer domain.Transfer
		if err := scanTransfer(rows, &transfer); err != nil {
			slog.ErrorContext(ctx, "[transferRepository] GetListTransfer", "scan", err)
			return nil, err
		}
		transfers = append(transfers, transfer)
	}
	if err := rows.Err(); err != nil {
		slog.ErrorContext(ctx, "[transferRepository] GetListTransfer", "rowError", err)
		return nil, err
	}
	return transfers, nil
}

func (r *transferRepository) GetListTransferCount(ctx context.Context, shopID int64, param domain.GetListTransferRequest) (int64, error) {
	query := `SELECT COUNT(*) FROM transfers WHERE (from_shop = $1 OR to_shop = $1)`
	args := []interface{}{shopID}
	placeholder := 2

	if param.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", placeholder)
		args = append(args, param.Status)
	}

	var count int64
	err := r.conn.QueryRowContext(ctx, query, args...).Scan(&count)
	if err != nil {
		slog.ErrorContext(ctx, "[transferRepository] GetListTransferCount", "queryRowContext", err)
		return 0, err
	}
	return count, nil
}

func (r *transferRepository) WithTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		slog.ErrorContext(ctx, "[transferRepository] WithTransaction", "beginTx", err)
		return err
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL lock_timeout = %d", r.lockTimeoutMs)); err != nil {
		slog.ErrorContext(ctx, "[transferRepository] WithTransaction", "setLockTimeout", err)
		tx.Rollback()
		return err
	}

	if err := fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			slog.ErrorContext(ctx, "[transferRepository] WithTransaction", "rollback", rollbackErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		slog.ErrorContext(ctx, "[transferRepository] WithTransaction", "commit", err)
		return err
	}

	return nil
}
