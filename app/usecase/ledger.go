package usecase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"inventory-service/app/domain"
)

// applyStockDelta performs the paired ledger effects for one (shop, product)
// key inside an open transaction: acquire the row lock, apply the quantity
// change, append the audit movement, and resync the inventory total. The
// three effects commit or roll back together.
//
// delta carries the sign: negative for reductions, positive for additions.
func applyStockDelta(ctx context.Context, stockRepo domain.StockRepository, movementRepo domain.StockMovementRepository,
	tx *sql.Tx, shopID, productID, delta int64, movementType domain.MovementType, notes string, actor int64) (domain.StockRecord, error) {

	stock, err := stockRepo.LockForUpdate(ctx, shopID, productID, tx)
	if errors.Is(err, domain.ErrNotFound) {
		// First credit of this product at this shop creates the record.
		created := domain.StockRecord{ShopID: shopID, ProductID: productID}
		if err := stockRepo.Create(ctx, &created); err != nil {
			return created, err
		}
		stock, err = stockRepo.LockForUpdate(ctx, shopID, productID, tx)
	}
	if err != nil {
		return stock, err
	}

	newQuantity := stock.Quantity + delta
	if newQuantity < stock.ReservedQuantity {
		return stock, fmt.Errorf("%w: requested %d, available %d", domain.ErrInsufficientStock, -delta, stock.AvailableQuantity())
	}

	if err := stockRepo.UpdateQuantities(ctx, stock.ID, newQuantity, stock.ReservedQuantity, stock.Version, tx); err != nil {
		return stock, err
	}

	movement := domain.StockMovement{
		ShopID:       shopID,
		ProductID:    productID,
		Quantity:     delta,
		MovementType: movementType,
		Notes:        notes,
		CreatedBy:    actor,
	}
	if err := movementRepo.Append(ctx, &movement, tx); err != nil {
		return stock, err
	}

	stock.Quantity = newQuantity
	stock.Version++

	total := domain.InventoryTotal{
		ShopID:            shopID,
		ProductID:         productID,
		Quantity:          stock.Quantity,
		AvailableQuantity: stock.AvailableQuantity(),
	}
	if err := stockRepo.UpsertTotal(ctx, total, tx); err != nil {
		return stock, err
	}

	return stock, nil
}
