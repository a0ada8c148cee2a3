package usecase

import (
	"context"
	"log/slog"

	"inventory-service/app/domain"
)

type shopUsecase struct {
	shopRepo domain.ShopRepository
}

func NewShopUsecase(shopRepo domain.ShopRepository) domain.ShopService {
	return &shopUsecase{shopRepo}
}

func (u *shopUsecase) Create(ctx context.Context, req *domain.ShopCreateRequest) (*domain.Shop, error) {
	shop := &domain.Shop{
		Name:     req.Name,
		Location: req.Location,
		Active:   true,
	}

	err := u.shopRepo.Create(ctx, shop)
	if err != nil {
		slog.ErrorContext(ctx, "[shopUsecase] Create", "createShop", err)
		return nil, err
	}

	return shop, nil
}

func (u *shopUsecase) GetByID(ctx context.Context, id int64) (domain.Shop, error) {
	shop, err := u.shopRepo.GetByID(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "[shopUsecase] GetByID", "getShop", err)
		return shop, err
	}
	return shop, nil
}

func (u *shopUsecase) GetListShop(ctx context.Context, param domain.GetListShopRequest) ([]domain.Shop, domain.Metadata, error) {
	shops, err := u.shopRepo.GetListShop(ctx, param)
	if err != nil {
		slog.ErrorContext(ctx, "[shopUsecase] GetListShop", "getListShop", err)
		return nil, domain.Metadata{}, err
	}

	count, err := u.shopRepo.GetListShopCount(ctx, param)
	if err != nil {
		slog.ErrorContext(ctx, "[shopUsecase] GetListShop", "getListShopCount", err)
		return nil, domain.Metadata{}, err
	}

	metadata := domain.Metadata{
		TotalData: count,
		TotalPage: (count + param.Limit - 1) / param.Limit,
		Page:      param.Page,
		Limit:     param.Limit,
		SortBy:    param.SortBy,
		SortOrder: param.SortOrder,
	}

	return shops, metadata, nil
}
