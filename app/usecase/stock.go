package usecase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"inventory-service/app/domain"
	"inventory-service/config"
	"inventory-service/pkg/ctxutil"
)

type stockUsecase struct {
	stockRepo          domain.StockRepository
	shopRepo           domain.ShopRepository
	movementRepo       domain.StockMovementRepository
	stockPublishBroker domain.BrokerPublisher
	cfg                *config.Config
}

func NewStockUsecase(stockRepo domain.StockRepository, shopRepo domain.ShopRepository,
	movementRepo domain.StockMovementRepository, stockPublishBroker domain.BrokerPublisher,
	cfg *config.Config) domain.StockLedger {
	return &stockUsecase{stockRepo, shopRepo, movementRepo, stockPublishBroker, cfg}
}

func (u *stockUsecase) GetOrCreate(ctx context.Context, shopID, productID int64) (domain.StockRecord, error) {
	stock, err := u.stockRepo.GetByShopAndProduct(ctx, shopID, productID)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		slog.ErrorContext(ctx, "[stockUsecase] GetOrCreate", "getStock", err)
		return stock, err
	}

	if _, err := u.shopRepo.GetByID(ctx, shopID); err != nil {
		slog.ErrorContext(ctx, "[stockUsecase] GetOrCreate", "getShop", err)
		return domain.StockRecord{}, err
	}

	stock = domain.StockRecord{
		ShopID:    shopID,
		ProductID: productID,
	}
	if err := u.stockRepo.Create(ctx, &stock); err != nil {
		slog.ErrorContext(ctx, "[stockUsecase] GetOrCreate", "createStock", err)
		return stock, err
	}

	slog.InfoContext(ctx, "[stockUsecase] GetOrCreate", "created", stock.ID)
	return stock, nil
}

func (u *stockUsecase) Adjust(ctx context.Context, req domain.StockAdjustRequest) (domain.StockRecord, error) {
	if req.Delta == 0 {
		return domain.StockRecord{}, fmt.Errorf("%w: delta must be non-zero", domain.ErrInvalidQuantity)
	}
	switch req.MovementType {
	case domain.MovementTypeReduction:
		if req.Delta > 0 {
			return domain.StockRecord{}, fmt.Errorf("%w: reduction requires a negative delta", domain.ErrInvalidRequest)
		}
	case domain.MovementTypeAddition:
		if req.Delta < 0 {
			return domain.StockRecord{}, fmt.Errorf("%w: addition requires a positive delta", domain.ErrInvalidRequest)
		}
	}

	if _, err := u.GetOrCreate(ctx, req.ShopID, req.ProductID); err != nil {
		return domain.StockRecord{}, err
	}

	actor, _ := ctxutil.GetUserIDCtx(ctx)

	var updated domain.StockRecord
	if err := u.stockRepo.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		stock, err := applyStockDelta(ctx, u.stockRepo, u.movementRepo, tx,
			req.ShopID, req.ProductID, req.Delta, req.MovementType, req.Notes, actor)
		if err != nil {
			slog.ErrorContext(ctx, "[stockUsecase] Adjust", "applyStockDelta", err)
			return err
		}
		updated = stock

		if err := u.stockPublishBroker.PublishStockAvailable(ctx, domain.StockMessage{
			ShopID:    stock.ShopID,
			ProductID: stock.ProductID,
			Quantity:  stock.Quantity,
			Available: stock.AvailableQuantity(),
		}); err != nil {
			slog.ErrorContext(ctx, "[stockUsecase] Adjust", "publishStockAvailable", err)
			return err
		}
		return nil
	}); err != nil {
		return domain.StockRecord{}, err
	}

	if updated.NeedsReorder() {
		slog.WarnContext(ctx, "[stockUsecase] Adjust", "needsReorder",
			fmt.Sprintf("shop %d product %d quantity %d at or below reorder level %d",
				updated.ShopID, updated.ProductID, updated.Quantity, updated.ReorderLevel))
	}

	slog.InfoContext(ctx, "[stockUsecase] Adjust", "delta", req.Delta)
	return updated, nil
}

func (u *stockUsecase) Reserve(ctx context.Context, req domain.StockReservationRequest) (domain.StockRecord, error) {
	return u.updateReservation(ctx, req, req.Quantity)
}

func (u *stockUsecase) Release(ctx context.Context, req domain.StockReservationRequest) (domain.StockRecord, error) {
	return u.updateReservation(ctx, req, -req.Quantity)
}

// updateReservation moves reservedQuantity without touching quantity, so no
// movement is recorded; only the derived total changes.
func (u *stockUsecase) updateReservation(ctx context.Context, req domain.StockReservationRequest, delta int64) (domain.StockRecord, error) {
	var updated domain.StockRecord
	if err := u.stockRepo.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		stock, err := u.stockRepo.LockForUpdate(ctx, req.ShopID, req.ProductID, tx)
		if err != nil {
			slog.ErrorContext(ctx, "[stockUsecase] updateReservation", "lockForUpdate", err)
			return err
		}

		newReserved := stock.ReservedQuantity + delta
		if delta > 0 && delta > stock.AvailableQuantity() {
			return fmt.Errorf("%w: requested %d, available %d", domain.ErrInsufficientStock, delta, stock.AvailableQuantity())
		}
		if newReserved < 0 {
			return fmt.Errorf("%w: release %d exceeds reserved %d", domain.ErrInvalidQuantity, -delta, stock.ReservedQuantity)
		}

		if err := u.stockRepo.UpdateQuantities(ctx, stock.ID, stock.Quantity, newReserved, stock.Version, tx); err != nil {
			slog.ErrorContext(ctx, "[stockUsecase] updateReservation", "updateQuantities", err)
			return err
		}

		stock.ReservedQuantity = newReserved
		stock.Version++
		updated = stock

		if err := u.stockRepo.UpsertTotal(ctx, domain.InventoryTotal{
			ShopID:            stock.ShopID,
			ProductID:         stock.ProductID,
			Quantity:          stock.Quantity,
			AvailableQuantity: stock.AvailableQuantity(),
		}, tx); err != nil {
			slog.ErrorContext(ctx, "[stockUsecase] updateReservation", "upsertTotal", err)
			return err
		}

		if err := u.stockPublishBroker.PublishStockAvailable(ctx, domain.StockMessage{
			ShopID:    stock.ShopID,
			ProductID: stock.ProductID,
			Quantity:  stock.Quantity,
			Available: stock.AvailableQuantity(),
		}); err != nil {
			slog.ErrorContext(ctx, "[stockUsecase] updateReservation", "publishStockAvailable", err)
			return err
		}
		return nil
	}); err != nil {
		return domain.StockRecord{}, err
	}

	return updated, nil
}

func (u *stockUsecase) SetLevels(ctx context.Context, req domain.StockLevelsRequest) error {
	if req.MaxStock > 0 && req.MinStock > req.MaxStock {
		return fmt.Errorf("%w: min stock exceeds max stock", domain.ErrInvalidRequest)
	}

	stock, err := u.GetOrCreate(ctx, req.ShopID, req.ProductID)
	if err != nil {
		return err
	}

	if err := u.stockRepo.UpdateLevels(ctx, stock.ID, req.ReorderLevel, req.MinStock, req.MaxStock); err != nil {
		slog.ErrorContext(ctx, "[stockUsecase] SetLevels", "updateLevels", err)
		return err
	}
	return nil
}

func (u *stockUsecase) SyncTotal(ctx context.Context, shopID, productID int64) (domain.InventoryTotal, error) {
	stock, err := u.stockRepo.GetByShopAndProduct(ctx, shopID, productID)
	if err != nil {
		slog.ErrorContext(ctx, "[stockUsecase] SyncTotal", "getStock", err)
		return domain.InventoryTotal{}, err
	}

	total := domain.InventoryTotal{
		ShopID:            stock.ShopID,
		ProductID:         stock.ProductID,
		Quantity:          stock.Quantity,
		AvailableQuantity: stock.AvailableQuantity(),
	}

	if err := u.stockRepo.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return u.stockRepo.UpsertTotal(ctx, total, tx)
	}); err != nil {
		slog.ErrorContext(ctx, "[stockUsecase] SyncTotal", "upsertTotal", err)
		return domain.InventoryTotal{}, err
	}

	return total, nil
}

func (u *stockUsecase) GetListStock(ctx context.Context, shopID int64, param domain.GetListStockRequest) ([]domain.StockRecord, domain.Metadata, error) {
	var metadata domain.Metadata

	stocks, err := u.stockRepo.GetListStock(ctx, shopID, param)
	if err != nil {
		slog.ErrorContext(ctx, "[stockUsecase] GetListStock", "getListStock", err)
		return nil, metadata, err
	}

	count, err := u.stockRepo.GetListStockCount(ctx, shopID, param)
	if err != nil {
		slog.ErrorContext(ctx, "[stockUsecase] GetListStock", "getListStockCount", err)
		return nil, metadata, err
	}

	metadata = domain.Metadata{
		TotalData: count,
		TotalPage: (count + param.Limit - 1) / param.Limit,
		Page:      param.Page,
		Limit:     param.Limit,
		SortBy:    param.SortBy,
		SortOrder: param.SortOrder,
	}

	return stocks, metadata, nil
}

func (u *stockUsecase) LowStockItems(ctx context.Context, shopID int64) ([]domain.StockRecord, error) {
	stocks, err := u.stockRepo.GetLowStock(ctx, shopID)
	if err != nil {
		slog.ErrorContext(ctx, "[stockUsecase] LowStockItems", "getLowStock", err)
		return nil, err
	}
	return stocks, nil
}

func (u *stockUsecase) OverstockedItems(ctx context.Context, shopID int64) ([]domain.StockRecord, error) {
	stocks, err := u.stockRepo.GetOverstocked(ctx, shopID)
	if err != nil {
		slog.ErrorContext(ctx, "[stockUsecase] OverstockedItems", "getOverstocked", err)
		return nil, err
	}
	return stocks, nil
}
