package usecase

import (
	"context"
	"log/slog"

	"inventory-service/app/domain"
)

type movementUsecase struct {
	movementRepo domain.StockMovementRepository
}

func NewMovementUsecase(movementRepo domain.StockMovementRepository) domain.MovementRecorder {
	return &movementUsecase{movementRepo}
}

func (u *movementUsecase) History(ctx context.Context, shopID, productID int64, param domain.MovementHistoryRequest) ([]domain.StockMovement, domain.Metadata, error) {
	movements, err := u.movementRepo.GetHistory(ctx, shopID, productID, param)
	if err != nil {
		slog.ErrorContext(ctx, "[movementUsecase] History", "getHistory", err)
		return nil, domain.Metadata{}, err
	}

	count, err := u.movementRepo.GetHistoryCount(ctx, shopID, productID, param)
	if err != nil {
		slog.ErrorContext(ctx, "[movementUsecase] History", "getHistoryCount", err)
		return nil, domain.Metadata{}, err
	}

	metadata := domain.Metadata{
		TotalData: count,
		TotalPage: (count + param.Limit - 1) / param.Limit,
		Page:      param.Page,
		Limit:     param.Limit,
		SortBy:    "created_at",
		SortOrder: "desc",
	}

	return movements, metadata, nil
}
