package domain

import (
	"context"
	"time"
)

type Shop struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Location  *string   `json:"location"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ShopCreateRequest struct {
	Name     string  `json:"name" validate:"required"`
	Location *string `json:"location"`
}

type GetListShopRequest struct {
	Active    bool   `query:"active"`
	Page      int64  `query:"page"`
	Limit     int64  `query:"limit"`
	SortBy    string `query:"sort_by"`
	SortOrder string `query:"sort_order"`
}

type ShopRepository interface {
	Create(ctx context.Context, shop *Shop) error
	GetByID(ctx context.Context, id int64) (Shop, error)
	GetListShop(ctx context.Context, param GetListShopRequest) ([]Shop, error)
	GetListShopCount(ctx context.Context, param GetListShopRequest) (int64, error)
}

type ShopService interface {
	Create(ctx context.Context, req *ShopCreateRequest) (*Shop, error)
	GetByID(ctx context.Context, id int64) (Shop, error)
	GetListShop(ctx context.Context, param GetListShopRequest) ([]Shop, Metadata, error)
}
