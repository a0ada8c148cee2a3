package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"inventory-service/app/domain"
)

type stockRepository struct {
	conn          *sql.DB
	lockTimeoutMs int64
}

func NewStockRepository(db *sql.DB, lockTimeoutMs int64) domain.StockRepository {
	return &stockRepository{db, lockTimeoutMs}
}

func (r *stockRepository) Create(ctx context.Context, stock *domain.StockRecord) error {
	query := `INSERT INTO stock_records (shop_id, product_id, quantity, reserved_quantity, reorder_level, min_stock, max_stock)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	Returning id, version, created_at, updated_at`

	err := r.conn.QueryRowContext(ctx, query, stock.ShopID, stock.ProductID,
		stock.Quantity, stock.ReservedQuantity, stock.ReorderLevel, stock.MinStock, stock.MaxStock).
		Scan(&stock.ID, &stock.Version, &stock.CreatedAt, &stock.UpdatedAt)
	if err != nil {
		slog.ErrorContext(ctx, "[stockRepository] Create", "queryRowContext", err)
		return err
	}

	return nil
}

func (r *stockRepository) GetByID(ctx context.Context, id int64) (domain.StockRecord, error) {
	query := `SELECT id, shop_id, product_id, quantity, reserved_quantity, reorder_level, min_stock, max_stock, version, created_at, updated_at
	FROM stock_records WHERE id = $1`

	var stock domain.StockRecord
	err := r.conn.QueryRowContext(ctx, query, id).Scan(&stock.ID, &stock.ShopID,
		&stock.ProductID, &stock.Quantity, &stock.ReservedQuantity, &stock.ReorderLevel,
		&stock.MinStock, &stock.MaxStock, &stock.Version, &stock.CreatedAt, &stock.UpdatedAt)
	if err != nil {
		slog.ErrorContext(ctx, "[stockRepository] GetByID", "queryRowContext", err)
		if err == sql.ErrNoRows {
			return stock, domain.ErrNotFound
		}
		return stock, err
	}

	return stock, nil
}

func (r *stockRepository) GetByShopAndProduct(ctx context.Context, shopID, productID int64) (domain.StockRecord, error) {
	query := `SELECT id, shop_id, product_id, quantity, reserved_quantity, reorder_level, min_stock, max_stock, version, created_at, updated_at
	FROM stock_records WHERE shop_id = $1 AND product_id = $2`

	var stock domain.StockRecord
	err := r.conn.QueryRowContext(ctx, query, shopID, productID).Scan(&stock.ID, &stock.ShopID,
		&stock.ProductID, &stock.Quantity, &stock.ReservedQuantity, &stock.ReorderLevel,
		&stock.MinStock, &stock.MaxStock, &stock.Version, &stock.CreatedAt, &stock.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return stock, domain.ErrNotFound
		}
		slog.ErrorContext(ctx, "[stockRepository] GetByShopAndProduct", "queryRowContext", err)
		return stock, err
	}

	return stock, nil
}

func (r *stockRepository) LockForUpdate(ctx context.Context, shopID, productID int64, tx *sql.Tx) (domain.StockRecord, error) {
	query := `SELECT id, shop_id, product_id, quantity, reserved_quantity, reorder_level, min_stock, max_stock, version, created_at, updated_at
	FROM stock_records WHERE shop_id = $1 AND product_id = $2 FOR UPDATE`

	var stock domain.StockRecord
	err := tx.QueryRowContext(ctx, query, shopID, productID).Scan(&stock.ID, &stock.ShopID,
		&stock.ProductID, &stock.Quantity, &stock.ReservedQuantity, &stock.ReorderLevel,
		&stock.MinStock, &stock.MaxStock, &stock.Version, &stock.CreatedAt, &stock.UpdatedAt)
	if err != nil {
		slog.ErrorContext(ctx, "[stockRepository] LockForUpdate", "queryRowContext", err)
		if err == sql.ErrNoRows {
			return stock, domain.ErrNotFound
		}
		return stock, mapLockError(err)
	}

	return stock, nil
}

func (r *stockRepository) UpdateQuantities(ctx context.Context, id, quantity, reserved, version int64, tx *sql.Tx) error {
	query := `UPDATE stock_records
	SET quantity = $1, reserved_quantity = $2, version = version + 1, updated_at = now()
	WHERE id = $3 AND version = $4`

	res, err := tx.ExecContext(ctx, query, quantity, reserved, id, version)
	if err != nil {
		slog.ErrorContext(ctx, "[stockRepository] UpdateQuantities", "execContext", err)
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		slog.ErrorContext(ctx, "[stockRepository] UpdateQuantities", "rowsAffected", err)
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrVersionMismatch
	}

	return nil
}

func (r *stockRepository) UpdateLevels(ctx context.Context, id, reorderLevel, minStock, maxStock int64) error {
	query := `UPDATE stock_records
	SET reorder_level = $1, min_stock = $2, max_stock = $3, updated_at = now()
	WHERE id = $4`

	_, err := r.conn.ExecContext(ctx, query, reorderLevel, minStock, maxStock, id)
	if err != nil {
		slog.ErrorContext(ctx, "[stockRepository] UpdateLevels", "execContext", err)
		return err
	}
	return nil
}

func (r *stockRepository) GetListStock(ctx context.Context, shopID int64, param domain.GetListStockRequest) ([]domain.StockRecord, error) {
	query := `SELECT id, shop_id, product_id, quantity, reserved_quantity, reorder_level, min_stock, max_stock, version, created_at, updated_at
	FROM stock_records WHERE shop_id = $1`

	args := []any{shopID}
	placeholder := 2

	if param.ProductID != 0 {
		query += fmt.Sprintf(" AND product_id = $%d", placeholder)
		args = append(args, param.ProductID)
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

	if param.Page > 0 && param.Limit > 0 {
		offset := (param.Page - 1) * param.Limit
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", param.Limit, offset)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		slog.ErrorContext(ctx, "[stockRepository] GetListStock", "queryContext", err)
		return nil, err
	}
	defer rows.Close()

	var stocks []domain.StockRecord
	for rows.Next() {
		var stock domain.StockRecord
		if err := rows.Scan(&stock.ID, &stock.ShopID, &stock.ProductID, &stock.Quantity,
			&stock.ReservedQuantity, &stock.ReorderLevel, &stock.MinStock, &stock.MaxStock,
			&stock.Version, &stock.CreatedAt, &stock.UpdatedAt); err != nil {
			slog.ErrorContext(ctx, "[stockRepository] GetListStock", "scan", err)
			return nil, err
		}
		stocks = append(stocks, stock)
	}

	if err := rows.Err(); err != nil {
		slog.ErrorContext(ctx, "[stockRepository] GetListStock", "rowError", err)
		return nil, err
	}

	return stocks, nil
}

func (r *stockRepository) GetListStockCount(ctx context.Context, shopID int64, param domain.GetListStockRequest) (int64, error) {
	query := `SELECT COUNT(*) FROM stock_records WHERE shop_id = $1`

	args := []any{shopID}
	placeholder := 2

	if param.ProductID != 0 {
		query += fmt.Sprintf(" AND product_id = $%d", placeholder)
		args = append(args, param.ProductID)
	}

	var count int64
	err := r.conn.QueryRowContext(ctx, query, args...).Scan(&count)
	if err != nil {
		slog.ErrorContext(ctx, "[stockRepository] GetListStockCount", "queryRowContext", err)
		return 0, err
	}

	return count, nil
}

func (r *stockRepository) GetLowStock(ctx context.Context, shopID int64) ([]domain.StockRecord, error) {
	query := `SELECT id, shop_id, product_id, quantity, reserved_quantity, reorder_level, min_stock, max_stock, version, created_at, updated_at
	FROM stock_records WHERE shop_id = $1 AND quantity <= reorder_level
	ORDER BY quantity ASC`

	return r.queryStocks(ctx, "GetLowStock", query, shopID)
}

func (r *stockRepository) GetOverstocked(ctx context.Context, shopID int64) ([]domain.StockRecord, error) {
	query := `SELECT id, shop_id, product_id, quantity, reserved_quantity, reorder_level, min_stock, max_stock, version, created_at, updated_at
	FROM stock_records WHERE shop_id = $1 AND max_stock > 0 AND quantity > max_stock
	ORDER BY quantity DESC`

	return r.queryStocks(ctx, "GetOverstocked", query, shopID)
}

func (r *stockRepository) queryStocks(ctx context.Context, method, query string, args ...any) ([]domain.StockRecord, error) {
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		slog.ErrorContext(ctx, "[stockRepository] "+method, "queryContext", err)
		return nil, err
	}
	defer rows.Close()

	var stocks []domain.StockRecord
	for rows.Next() {
		var stock domain.StockRecord
		if err := rows.Scan(&stock.ID, &stock.ShopID, &stock.ProductID, &stock.Quantity,
			&stock.ReservedQuantity, &stock.ReorderLevel, &stock.MinStock, &stock.MaxStock,
			&stock.Version, &stock.CreatedAt, &stock.UpdatedAt); err != nil {
			slog.ErrorContext(ctx, "[stockRepository] "+method, "scan", err)
			return nil, err
		}
		stocks = append(stocks, stock)
	}

	if err := rows.Err(); err != nil {
		slog.ErrorContext(ctx, "[stockRepository] "+method, "rowError", err)
		return nil, err
	}

	return stocks, nil
}

func (r *stockRepository) UpsertTotal(ctx context.Context, total domain.InventoryTotal, tx *sql.Tx) error {
	query := `INSERT INTO inventory_totals (shop_id, product_id, quantity, available_quantity, updated_at)
	VALUES ($1, $2, $3, $4, now())
	ON CONFLICT (shop_id, product_id)
	DO UPDATE SET quantity = EXCLUDED.quantity, available_quantity = EXCLUDED.available_quantity, updated_at = now()`

	_, err := tx.ExecContext(ctx, query, total.ShopID, total.ProductID, total.Quantity, total.AvailableQuantity)
	if err != nil {
		slog.ErrorContext(ctx, "[stockRepository] UpsertTotal", "execContext", err)
		return err
	}
	return nil
}

func (r *stockRepository) GetTotal(ctx context.Context, shopID, productID int64) (domain.InventoryTotal, error) {
	query := `SELECT shop_id, product_id, quantity, available_quantity, updated_at
	FROM inventory_totals WHERE shop_id = $1 AND product_id = $2`

	var total domain.InventoryTotal
	err := r.conn.QueryRowContext(ctx, query, shopID, productID).Scan(&total.ShopID,
		&total.ProductID, &total.Quantity, &total.AvailableQuantity, &total.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return total, domain.ErrNotFound
		}
		slog.ErrorContext(ctx, "[stockRepository] GetTotal", "queryRowContext", err)
		return total, err
	}

	return total, nil
}

func (r *stockRepository) WithTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		slog.ErrorContext(ctx, "[stockRepository] WithTransaction", "beginTx", err)
		return err
	}

	// Bound FOR UPDATE waits so a contended key fails fast instead of
	// blocking the caller indefinitely.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL lock_timeout = %d", r.lockTimeoutMs)); err != nil {
		slog.ErrorContext(ctx, "[stockRepository] WithTransaction", "setLockTimeout", err)
		tx.Rollback()
		return err
	}

	if err := fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			slog.ErrorContext(ctx, "[stockRepository] WithTransaction", "rollback", rollbackErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		slog.ErrorContext(ctx, "[stockRepository] WithTransaction", "commit", err)
		return err
	}

	return nil
}
