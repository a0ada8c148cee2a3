package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"inventory-service/app/domain"
)

type stockMovementRepository struct {
	conn *sql.DB
}

func NewStockMovementRepository(db *sql.DB) domain.StockMovementRepository {
	return &stockMovementRepository{db}
}

func (r *stockMovementRepository) Append(ctx context.Context, movement *domain.StockMovement, tx *sql.Tx) error {
	query := `INSERT INTO stock_movements (shop_id, product_id, quantity, movement_type, notes, created_by)
	VALUES ($1, $2, $3, $4, $5, $6)
	Returning id, created_at`

	err := tx.QueryRowContext(ctx, query, movement.ShopID, movement.ProductID,
		movement.Quantity, movement.MovementType, movement.Notes, movement.CreatedBy).
		Scan(&movement.ID, &movement.CreatedAt)
	if err != nil {
		slog.ErrorContext(ctx, "[stockMovementRepository] Append", "queryRowContext", err)
		return err
	}
	return nil
}

func (r *stockMovementRepository) GetHistory(ctx context.Context, shopID, productID int64, param domain.MovementHistoryRequest) ([]domain.StockMovement, error) {
	query := `SELECT id, shop_id, product_id, quantity, movement_type, notes, created_by, created_at
	FROM stock_movements WHERE shop_id = $1 AND product_id = $2`
	args := []interface{}{shopID, productID}
	placeholder := 3

	if !param.From.IsZero() {
		query += fmt.Sprintf(" AND created_at >= $%d", placeholder)
		args = append(args, param.From)
		placeholder++
	}
	if !param.To.IsZero() {
		query += fmt.Sprintf(" AND created_at <= $%d", placeholder)
		args = append(args, param.To)
		placeholder++
	}

	// Newest first; id breaks ties so re-queries observe a stable order.
	query += ` ORDER BY created_at DESC, id DESC`

	offset := (param.Page - 1) * param.Limit
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", placeholder, placeholder+1)
	args = append(args, param.Limit, offset)

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		slog.ErrorContext(ctx, "[stockMovementRepository] GetHistory", "queryContext", err)
		return nil, err
	}
	defer rows.Close()

	var movements []domain.StockMovement
	for rows.Next() {
		var movement domain.StockMovement
		if err := rows.Scan(&movement.ID, &movement.ShopID, &movement.ProductID,
			&movement.Quantity, &movement.MovementType, &movement.Notes,
			&movement.CreatedBy, &movement.CreatedAt); err != nil {
			slog.ErrorContext(ctx, "[stockMovementRepository] GetHistory", "scan", err)
			return nil, err
		}
		movements = append(movements, movement)
	}

	if err := rows.Err(); err != nil {
		slog.ErrorContext(ctx, "[stockMovementRepository] GetHistory", "rowError", err)
		return nil, err
	}

	return movements, nil
}

func (r *stockMovementRepository) GetHistoryCount(ctx context.Context, shopID, productID int64, param domain.MovementHistoryRequest) (int64, error) {
	query := `SELECT COUNT(*) FROM stock_movements WHERE shop_id = $1 AND product_id = $2`
	args := []interface{}{shopID, productID}
	placeholder := 3

	if !param.From.IsZero() {
		query += fmt.Sprintf(" AND created_at >= $%d", placeholder)
		args = append(args, param.From)
		placeholder++
	}
	if !param.To.IsZero() {
		query += fmt.Sprintf(" AND created_at <= $%d", placeholder)
		args = append(args, param.To)
	}

	var count int64
	err := r.conn.QueryRowContext(ctx, query, args...).Scan(&count)
	if err != nil {
		slog.ErrorContext(ctx, "[stockMovementRepository] GetHistoryCount", "queryRowContext", err)
		return 0, err
	}
	return count, nil
}
