package usecase

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"inventory-service/app/domain"
	"inventory-service/pkg/ctxutil"
)

type transferUsecase struct {
	transferRepo       domain.TransferRepository
	shopRepo           domain.ShopRepository
	stockRepo          domain.StockRepository
	movementRepo       domain.StockMovementRepository
	damageRepo         domain.DamageRecordRepository
	catalogClient      domain.CatalogClient
	stockPublishBroker domain.BrokerPublisher
	now                func() time.Time
}

func NewTransferUsecase(transferRepo domain.TransferRepository,
	shopRepo domain.ShopRepository,
	stockRepo domain.StockRepository,
	movementRepo domain.StockMovementRepository,
	damageRepo domain.DamageRecordRepository,
	catalogClient domain.CatalogClient,
	stockPublishBroker domain.BrokerPublisher) domain.TransferWorkflow {
	return &transferUsecase{transferRepo, shopRepo, stockRepo, movementRepo,
		damageRepo, catalogClient, stockPublishBroker, time.Now}
}

func (u *transferUsecase) CreateTransfer(ctx context.Context, req domain.TransferCreateRequest) (*domain.Transfer, error) {
	actor, err := ctxutil.GetUserIDCtx(ctx)
	if err != nil {
		return nil, err
	}

	if req.FromShopID == req.ToShopID {
		return nil, fmt.Errorf("%w: source and destination shop must differ", domain.ErrInvalidRequest)
	}
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: transfer requires at least one line", domain.ErrInvalidRequest)
	}

	fromShop, err := u.shopRepo.GetByID(ctx, req.FromShopID)
	if err != nil {
		slog.ErrorContext(ctx, "[transferUsecase] CreateTransfer", "getFromShop", err)
		return nil, err
	}
	toShop, err := u.shopRepo.GetByID(ctx, req.ToShopID)
	if err != nil {
		slog.ErrorContext(ctx, "[transferUsecase] CreateTransfer", "getToShop", err)
		return nil, err
	}
	if !fromShop.Active || !toShop.Active {
		return nil, fmt.Errorf("%w: both shops must be active", domain.ErrInvalidRequest)
	}

	seen := make(map[int64]bool, len(req.Lines))
	lines := make([]domain.TransferLine, 0, len(req.Lines))
	for _, lineReq := range req.Lines {
		if seen[lineReq.ProductID] {
			return nil, fmt.Errorf("%w: duplicate product %d", domain.ErrInvalidRequest, lineReq.ProductID)
		}
		seen[lineReq.ProductID] = true

		if lineReq.Quantity <= 0 {
			return nil, fmt.Errorf("%w: requested quantity must be positive", domain.ErrInvalidQuantity)
		}

		stock, err := u.stockRepo.GetByShopAndProduct(ctx, req.FromShopID, lineReq.ProductID)
		if err != nil {
			slog.ErrorContext(ctx, "[transferUsecase] CreateTransfer", "getFromShopStock", err)
			return nil, err
		}
		if stock.AvailableQuantity() < lineReq.Quantity {
			return nil, fmt.Errorf("%w: product %d requested %d, available %d",
				domain.ErrInsufficientStock, lineReq.ProductID, lineReq.Quantity, stock.AvailableQuantity())
		}

		unitCost := lineReq.UnitCost
		if unitCost.IsZero() {
			unitCost, err = u.catalogClient.GetUnitCost(ctx, lineReq.ProductID)
			if err != nil {
				slog.ErrorContext(ctx, "[transferUsecase] CreateTransfer", "getUnitCost", err)
				return nil, err
			}
		}

		lines = append(lines, domain.TransferLine{
			ProductID:         lineReq.ProductID,
			RequestedQuantity: lineReq.Quantity,
			UnitCost:          unitCost,
		})
	}

	priority := req.Priority
	if priority == "" {
		priority = domain.TransferPriorityNormal
	}
	transferType := req.Type
	if transferType == "" {
		transferType = domain.TransferTypeReplenishment
	}

	transfer := &domain.Transfer{
		FromShopID:  req.FromShopID,
		ToShopID:    req.ToShopID,
		Status:      domain.TransferStatusPending,
		Priority:    priority,
		Type:        transferType,
		Notes:       req.Notes,
		RequestedBy: actor,
		Lines:       lines,
	}

	if err := u.transferRepo.Create(ctx, transfer); err != nil {
		slog.ErrorContext(ctx, "[transferUsecase] CreateTransfer", "createTransfer", err)
		return nil, err
	}

	slog.InfoContext(ctx, "[transferUsecase] CreateTransfer", "transfer", transfer.ID)
	return transfer, nil
}

func (u *transferUsecase) Approve(ctx context.Context, id int64) (domain.Transfer, error) {
	actor, err := ctxutil.GetUserIDCtx(ctx)
	if err != nil {
		return domain.Transfer{}, err
	}

	var updated domain.Transfer
	if err := u.transferRepo.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		transfer, err := u.transferRepo.LockForUpdate(ctx, id, tx)
		if err != nil {
			slog.ErrorContext(ctx, "[transferUsecase] Approve", "lockTransfer", err)
			return err
		}

		if !transfer.Status.CanTransitionTo(domain.TransferStatusApproved) {
			return fmt.Errorf("%w: cannot approve a %s transfer", domain.ErrInvalidTransition, transfer.Status)
		}

		transfer.Status = domain.TransferStatusApproved
		transfer.ApprovedBy = &actor
		if err := u.transferRepo.UpdateStatus(ctx, transfer, tx); err != nil {
			slog.ErrorContext(ctx, "[transferUsecase] Approve", "updateStatus", err)
			return err
		}

		updated = transfer
		return nil
	}); err != nil {
		return domain.Transfer{}, err
	}

	slog.InfoContext(ctx, "[transferUsecase] Approve", "transfer", id)
	return updated, nil
}

// Ship debits the source shop for each shipped line and moves the transfer
// in transit. Partial shipments accumulate across calls. Only source-side
// stock keys are locked; the destination side is untouched until receipt.
func (u *transferUsecase) Ship(ctx context.Context, id int64, req domain.TransferShipRequest) (domain.Transfer, error) {
	actor, err := ctxutil.GetUserIDCtx(ctx)
	if err != nil {
		return domain.Transfer{}, err
	}

	var updated domain.Transfer
	if err := u.transferRepo.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		transfer, err := u.transferRepo.LockForUpdate(ctx, id, tx)
		if err != nil {
			slog.ErrorContext(ctx, "[transferUsecase] Ship", "lockTransfer", err)
			return err
		}

		if err := u.authorizeShop(ctx, transfer.FromShopID); err != nil {
			return err
		}

		if transfer.Status != domain.TransferStatusApproved && transfer.Status != domain.TransferStatusInTransit {
			return fmt.Errorf("%w: cannot ship a %s transfer", domain.ErrInvalidTransition, transfer.Status)
		}

		for _, lineReq := range req.Lines {
			idx, err := lineIndex(transfer.Lines, lineReq.LineID)
			if err != nil {
				return err
			}
			line := &transfer.Lines[idx]

			if lineReq.Quantity > line.PendingQuantity() {
				return fmt.Errorf("%w: ship %d exceeds pending %d on line %d",
					domain.ErrInvalidQuantity, lineReq.Quantity, line.PendingQuantity(), line.ID)
			}
			if err := line.Ship(lineReq.Quantity); err != nil {
				return err
			}

			stock, err := applyStockDelta(ctx, u.stockRepo, u.movementRepo, tx,
				transfer.FromShopID, line.ProductID, -lineReq.Quantity, domain.MovementTypeReduction,
				fmt.Sprintf("transfer %d shipment", transfer.ID), actor)
			if err != nil {
				slog.ErrorContext(ctx, "[transferUsecase] Ship", "applyStockDelta", err)
				return err
			}

			if err := u.transferRepo.UpdateLineQuantities(ctx, *line, tx); err != nil {
				slog.ErrorContext(ctx, "[transferUsecase] Ship", "updateLine", err)
				return err
			}

			if err := u.publishStock(ctx, stock); err != nil {
				return err
			}
		}

		if transfer.Status == domain.TransferStatusApproved {
			transfer.Status = domain.TransferStatusInTransit
			if err := u.transferRepo.UpdateStatus(ctx, transfer, tx); err != nil {
				slog.ErrorContext(ctx, "[transferUsecase] Ship", "updateStatus", err)
				return err
			}
		}

		updated = transfer
		return nil
	}); err != nil {
		return domain.Transfer{}, err
	}

	slog.InfoContext(ctx, "[transferUsecase] Ship", "transfer", id)
	return updated, nil
}

// Receive credits the destination shop for good units and records damage
// records for damaged units. The transfer advances to received once every
// line is fully reconciled. Only destination-side stock keys are locked.
func (u *transferUsecase) Receive(ctx context.Context, id int64, req domain.TransferReceiveRequest) (domain.Transfer, error) {
	actor, err := ctxutil.GetUserIDCtx(ctx)
	if err != nil {
		return domain.Transfer{}, err
	}

	var updated domain.Transfer
	if err := u.transferRepo.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		transfer, err := u.transferRepo.LockForUpdate(ctx, id, tx)
		if err != nil {
			slog.ErrorContext(ctx, "[transferUsecase] Receive", "lockTransfer", err)
			return err
		}

		if err := u.authorizeShop(ctx, transfer.ToShopID); err != nil {
			return err
		}

		if transfer.Status != domain.TransferStatusInTransit {
			return fmt.Errorf("%w: cannot receive a %s transfer", domain.ErrInvalidTransition, transfer.Status)
		}

		for _, lineReq := range req.Lines {
			idx, err := lineIndex(transfer.Lines, lineReq.LineID)
			if err != nil {
				return err
			}
			line := &transfer.Lines[idx]

			if lineReq.GoodQuantity+lineReq.DamagedQuantity > line.OutstandingQuantity() {
				return fmt.Errorf("%w: receive %d exceeds outstanding %d on line %d",
					domain.ErrInvalidQuantity, lineReq.GoodQuantity+lineReq.DamagedQuantity,
					line.OutstandingQuantity(), line.ID)
			}
			if err := line.Receive(lineReq.GoodQuantity, lineReq.DamagedQuantity); err != nil {
				return err
			}

			if lineReq.GoodQuantity > 0 {
				stock, err := applyStockDelta(ctx, u.stockRepo, u.movementRepo, tx,
					transfer.ToShopID, line.ProductID, lineReq.GoodQuantity, domain.MovementTypeAddition,
					fmt.Sprintf("transfer %d receipt", transfer.ID), actor)
				if err != nil {
					slog.ErrorContext(ctx, "[transferUsecase] Receive", "applyStockDelta", err)
					return err
				}
				if err := u.publishStock(ctx, stock); err != nil {
					return err
				}
			}

			if lineReq.DamagedQuantity > 0 {
				if lineReq.DamageSeverity == "" {
					return fmt.Errorf("%w: damage severity required when reporting damaged units", domain.ErrInvalidRequest)
				}
				record := domain.DamageRecord{
					TransferID:      transfer.ID,
					ProductID:       line.ProductID,
					DamagedQuantity: lineReq.DamagedQuantity,
					UnitCost:        line.UnitCost,
					Severity:        lineReq.DamageSeverity,
					Repairable:      lineReq.Repairable,
					Reason:          lineReq.DamageReason,
					ReportedBy:      actor,
					IdentifiedAt:    u.now(),
				}
				if err := u.damageRepo.Create(ctx, &record, tx); err != nil {
					slog.ErrorContext(ctx, "[transferUsecase] Receive", "createDamageRecord", err)
					return err
				}
			}

			if err := u.transferRepo.UpdateLineQuantities(ctx, *line, tx); err != nil {
				slog.ErrorContext(ctx, "[transferUsecase] Receive", "updateLine", err)
				return err
			}
		}

		if transfer.AllLinesReconciled() {
			transfer.Status = domain.TransferStatusReceived
			if err := u.transferRepo.UpdateStatus(ctx, transfer, tx); err != nil {
				slog.ErrorContext(ctx, "[transferUsecase] Receive", "updateStatus", err)
				return err
			}
		}

		updated = transfer
		return nil
	}); err != nil {
		return domain.Transfer{}, err
	}

	slog.InfoContext(ctx, "[transferUsecase] Receive", "transfer", id)
	return updated, nil
}

func (u *transferUsecase) Complete(ctx context.Context, id int64) (domain.Transfer, error) {
	if _, err := ctxutil.GetUserIDCtx(ctx); err != nil {
		return domain.Transfer{}, err
	}

	var updated domain.Transfer
	if err := u.transferRepo.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		transfer, err := u.transferRepo.LockForUpdate(ctx, id, tx)
		if err != nil {
			slog.ErrorContext(ctx, "[transferUsecase] Complete", "lockTransfer", err)
			return err
		}

		if !transfer.Status.CanTransitionTo(domain.TransferStatusCompleted) {
			return fmt.Errorf("%w: cannot complete a %s transfer", domain.ErrInvalidTransition, transfer.Status)
		}
		if transfer.HasDiscrepancy() {
			return fmt.Errorf("%w: unresolved discrepancy on transfer %d", domain.ErrInvalidTransition, transfer.ID)
		}

		transfer.Status = domain.TransferStatusCompleted
		if err := u.transferRepo.UpdateStatus(ctx, transfer, tx); err != nil {
			slog.ErrorContext(ctx, "[transferUsecase] Complete", "updateStatus", err)
			return err
		}

		updated = transfer
		return nil
	}); err != nil {
		return domain.Transfer{}, err
	}

	slog.InfoContext(ctx, "[transferUsecase] Complete", "transfer", id)
	return updated, nil
}

// Cancel is a compensating transaction: any quantity shipped but not yet
// reconciled is credited back to the source shop before the transfer is
// closed.
func (u *transferUsecase) Cancel(ctx context.Context, id int64, req domain.TransferCancelRequest) (domain.Transfer, error) {
	actor, err := ctxutil.GetUserIDCtx(ctx)
	if err != nil {
		return domain.Transfer{}, err
	}

	var updated domain.Transfer
	if err := u.transferRepo.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		transfer, err := u.transferRepo.LockForUpdate(ctx, id, tx)
		if err != nil {
			slog.ErrorContext(ctx, "[transferUsecase] Cancel", "lockTransfer", err)
			return err
		}

		if err := u.authorizeShop(ctx, transfer.FromShopID); err != nil {
			return err
		}

		if !transfer.Status.IsActive() {
			return fmt.Errorf("%w: cannot cancel a %s transfer", domain.ErrInvalidTransition, transfer.Status)
		}

		for i := range transfer.Lines {
			line := &transfer.Lines[i]
			outstanding := line.OutstandingQuantity()
			if outstanding == 0 {
				continue
			}

			stock, err := applyStockDelta(ctx, u.stockRepo, u.movementRepo, tx,
				transfer.FromShopID, line.ProductID, outstanding, domain.MovementTypeAddition,
				fmt.Sprintf("transfer %d cancellation reversal", transfer.ID), actor)
			if err != nil {
				slog.ErrorContext(ctx, "[transferUsecase] Cancel", "applyStockDelta", err)
				return err
			}
			if err := u.publishStock(ctx, stock); err != nil {
				return err
			}
		}

		transfer.Status = domain.TransferStatusCancelled
		if req.Reason != "" {
			transfer.Notes = req.Reason
		}
		if err := u.transferRepo.UpdateStatus(ctx, transfer, tx); err != nil {
			slog.ErrorContext(ctx, "[transferUsecase] Cancel", "updateStatus", err)
			return err
		}

		updated = transfer
		return nil
	}); err != nil {
		return domain.Transfer{}, err
	}

	slog.InfoContext(ctx, "[transferUsecase] Cancel", "transfer", id)
	return updated, nil
}

func (u *transferUsecase) GetTransferByID(ctx context.Context, id int64, shopID *int64) (domain.Transfer, error) {
	transfer, err := u.transferRepo.GetByID(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "[transferUsecase] GetTransferByID", "getTransfer", err)
		return transfer, err
	}

	if shopID != nil && *shopID != transfer.FromShopID && *shopID != transfer.ToShopID {
		slog.ErrorContext(ctx, "[transferUsecase] GetTransferByID", "invalidShopID", *shopID)
		return domain.Transfer{}, domain.ErrInvalidRequest
	}

	return transfer, nil
}

func (u *transferUsecase) GetListTransfer(ctx context.Context, shopID int64, param domain.GetListTransferRequest) ([]domain.Transfer, domain.Metadata, error) {
	transfers, err := u.transferRepo.GetListTransfer(ctx, shopID, param)
	if err != nil {
		slog.ErrorContext(ctx, "[transferUsecase] GetListTransfer", "getListTransfer", err)
		return nil, domain.Metadata{}, err
	}

	count, err := u.transferRepo.GetListTransferCount(ctx, shopID, param)
	if err != nil {
		slog.ErrorContext(ctx, "[transferUsecase] GetListTransfer", "getListTransferCount", err)
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

	return transfers, metadata, nil
}

// authorizeShop enforces shop scope when the caller carries one; internal
// service calls carry no shop claim and are trusted.
func (u *transferUsecase) authorizeShop(ctx context.Context, shopID int64) error {
	claimShopID, err := ctxutil.GetShopIDCtx(ctx)
	if err != nil {
		return nil
	}
	if claimShopID != shopID {
		return domain.ErrUnauthorized
	}
	return nil
}

func (u *transferUsecase) publishStock(ctx context.Context, stock domain.StockRecord) error {
	if err := u.stockPublishBroker.PublishStockAvailable(ctx, domain.StockMessage{
		ShopID:    stock.ShopID,
		ProductID: stock.ProductID,
		Quantity:  stock.Quantity,
		Available: stock.AvailableQuantity(),
	}); err != nil {
		slog.ErrorContext(ctx, "[transferUsecase] publishStock", "publishStockAvailable", err)
		return err
	}
	return nil
}

func lineIndex(lines []domain.TransferLine, lineID int64) (int, error) {
	for i := range lines {
		if lines[i].ID == lineID {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: transfer line %d", domain.ErrNotFound, lineID)
}
