package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"inventory-service/app/domain"
)

type shopRepository struct {
	conn *sql.DB
}

func NewShopRepository(db *sql.DB) domain.ShopRepository {
	return &shopRepository{db}
}

func (r *shopRepository) Create(ctx context.Context, shop *domain.Shop) error {
	query := `INSERT INTO shops (name, location, active)
	VALUES ($1, $2, $3)
	Returning id, created_at, updated_at
	`

	err := r.conn.QueryRowContext(ctx, query, shop.Name, shop.Location, shop.Active).
		Scan(
			&shop.ID,
			&shop.CreatedAt,
			&shop.UpdatedAt,
		)
	if err != nil {
		slog.ErrorContext(ctx, "[shopRepository] Create", "queryRowContext", err)
		return err
	}
	return nil
}

func (r *shopRepository) GetByID(ctx context.Context, id int64) (domain.Shop, error) {
	query := `SELECT id, name, location, active, created_at, updated_at
	FROM shops WHERE id = $1`

	var shop domain.Shop
	err := r.conn.QueryRowContext(ctx, query, id).Scan(&shop.ID, &shop.Name,
		&shop.Location, &shop.Active, &shop.CreatedAt, &shop.UpdatedAt)
	if err != nil {
		slog.ErrorContext(ctx, "[shopRepository] GetByID", "queryRowContext", err)
		if err == sql.ErrNoRows {
			return shop, domain.ErrNotFound
		}
		return shop, err
	}

	return shop, nil
}

func (r *shopRepository) GetListShop(ctx context.Context, param domain.GetListShopRequest) ([]domain.Shop, error) {
	query := `SELECT id, name, location, active, created_at, updated_at FROM shops WHERE 1=1`
	args := []interface{}{}
	placeholder := 1

	if param.Active {
		query += fmt.Sprintf(" AND active = $%d", placeholder)
		args = append(args, param.Active)
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
		slog.ErrorContext(ctx, "[shopRepository] GetListShop", "queryContext", err)
		return nil, err
	}
	defer rows.Close()

	var shops []domain.Shop
	for rows.Next() {
		var shop domain.Shop
		if err := rows.Scan(&shop.ID, &shop.Name, &shop.Location, &shop.Active,
			&shop.CreatedAt, &shop.UpdatedAt); err != nil {
			slog.ErrorContext(ctx, "[shopRepository] GetListShop", "scan", err)
			return nil, err
		}
		shops = append(shops, shop)
	}
	if err := rows.Err(); err != nil {
		slog.ErrorContext(ctx, "[shopRepository] GetListShop", "rowError", err)
		return nil, err
	}
	return shops, nil
}

func (r *shopRepository) GetListShopCount(ctx context.Context, param domain.GetListShopRequest) (int64, error) {
	query := `SELECT COUNT(*) FROM shops WHERE 1=1`
	args := []interface{}{}
	placeholder := 1

	if param.Active {
		query += fmt.Sprintf(" AND active = $%d", placeholder)
		args = append(args, param.Active)
	}

	var count int64
	err := r.conn.QueryRowContext(ctx, query, args...).Scan(&count)
	if err != nil {
		slog.ErrorContext(ctx, "[shopRepository] GetListShopCount", "queryRowContext", err)
		return 0, err
	}
	return count, nil
}
