package usecase_test

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"inventory-service/app/domain"

	"github.com/shopspring/decimal"
)

type stockKey struct {
	shopID    int64
	productID int64
}

// fakeStore backs every fake repository with one in-memory dataset. txMu
// serializes WithTransaction callers the way row locks do; mu guards the
// maps themselves.
type fakeStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	shops       map[int64]domain.Shop
	stocks      map[int64]*domain.StockRecord
	stockSeq    int64
	totals      map[stockKey]domain.InventoryTotal
	movements   []domain.StockMovement
	movementSeq int64
	transfers   map[int64]*domain.Transfer
	transferSeq int64
	lineSeq     int64
	damages     map[int64]*domain.DamageRecord
	damageSeq   int64

	clock time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		shops:     make(map[int64]domain.Shop),
		stocks:    make(map[int64]*domain.StockRecord),
		totals:    make(map[stockKey]domain.InventoryTotal),
		transfers: make(map[int64]*domain.Transfer),
		damages:   make(map[int64]*domain.DamageRecord),
		clock:     time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (s *fakeStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *fakeStore) seedShop(id int64, name string, active bool) {
	s.shops[id] = domain.Shop{ID: id, Name: name, Active: active, CreatedAt: s.tick()}
}

func (s *fakeStore) seedStock(shopID, productID, quantity, reserved int64) *domain.StockRecord {
	s.stockSeq++
	stock := &domain.StockRecord{
		ID:               s.stockSeq,
		ShopID:           shopID,
		ProductID:        productID,
		Quantity:         quantity,
		ReservedQuantity: reserved,
		Version:          1,
		CreatedAt:        s.tick(),
	}
	s.stocks[stock.ID] = stock
	return stock
}

func (s *fakeStore) seedTransfer(transfer domain.Transfer) *domain.Transfer {
	s.transferSeq++
	transfer.ID = s.transferSeq
	for i := range transfer.Lines {
		s.lineSeq++
		transfer.Lines[i].ID = s.lineSeq
		transfer.Lines[i].TransferID = transfer.ID
	}
	transfer.CreatedAt = s.tick()
	s.transfers[transfer.ID] = &transfer
	return &transfer
}

func (s *fakeStore) stockByKey(shopID, productID int64) *domain.StockRecord {
	for _, stock := range s.stocks {
		if stock.ShopID == shopID && stock.ProductID == productID {
			return stock
		}
	}
	return nil
}

func copyTransfer(t *domain.Transfer) domain.Transfer {
	out := *t
	out.Lines = make([]domain.TransferLine, len(t.Lines))
	copy(out.Lines, t.Lines)
	if t.ApprovedBy != nil {
		approvedBy := *t.ApprovedBy
		out.ApprovedBy = &approvedBy
	}
	return out
}

// --- shop repository ---

type fakeShopRepo struct{ store *fakeStore }

func (r *fakeShopRepo) Create(_ context.Context, shop *domain.Shop) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	shop.ID = int64(len(r.store.shops) + 1)
	shop.CreatedAt = r.store.tick()
	r.store.shops[shop.ID] = *shop
	return nil
}

func (r *fakeShopRepo) GetByID(_ context.Context, id int64) (domain.Shop, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	shop, ok := r.store.shops[id]
	if !ok {
		return domain.Shop{}, domain.ErrNotFound
	}
	return shop, nil
}

func (r *fakeShopRepo) GetListShop(_ context.Context, _ domain.GetListShopRequest) ([]domain.Shop, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	shops := make([]domain.Shop, 0, len(r.store.shops))
	for _, shop := range r.store.shops {
		shops = append(shops, shop)
	}
	sort.Slice(shops, func(i, j int) bool { return shops[i].ID < shops[j].ID })
	return shops, nil
}

func (r *fakeShopRepo) GetListShopCount(_ context.Context, _ domain.GetListShopRequest) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.store.shops)), nil
}

// --- stock repository ---

type fakeStockRepo struct{ store *fakeStore }

func (r *fakeStockRepo) Create(_ context.Context, stock *domain.StockRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.stockSeq++
	stock.ID = r.store.stockSeq
	stock.Version = 1
	stock.CreatedAt = r.store.tick()
	record := *stock
	r.store.stocks[stock.ID] = &record
	return nil
}

func (r *fakeStockRepo) GetByID(_ context.Context, id int64) (domain.StockRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stock, ok := r.store.stocks[id]
	if !ok {
		return domain.StockRecord{}, domain.ErrNotFound
	}
	return *stock, nil
}

func (r *fakeStockRepo) GetByShopAndProduct(_ context.Context, shopID, productID int64) (domain.StockRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if stock := r.store.stockByKey(shopID, productID); stock != nil {
		return *stock, nil
	}
	return domain.StockRecord{}, domain.ErrNotFound
}

func (r *fakeStockRepo) LockForUpdate(_ context.Context, shopID, productID int64, _ *sql.Tx) (domain.StockRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if stock := r.store.stockByKey(shopID, productID); stock != nil {
		return *stock, nil
	}
	return domain.StockRecord{}, domain.ErrNotFound
}

func (r *fakeStockRepo) UpdateQuantities(_ context.Context, id, quantity, reserved, version int64, _ *sql.Tx) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stock, ok := r.store.stocks[id]
	if !ok {
		return domain.ErrNotFound
	}
	if stock.Version != version {
		return domain.ErrVersionMismatch
	}
	stock.Quantity = quantity
	stock.ReservedQuantity = reserved
	stock.Version++
	stock.UpdatedAt = r.store.tick()
	return nil
}

func (r *fakeStockRepo) UpdateLevels(_ context.Context, id, reorderLevel, minStock, maxStock int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stock, ok := r.store.stocks[id]
	if !ok {
		return domain.ErrNotFound
	}
	stock.ReorderLevel = reorderLevel
	stock.MinStock = minStock
	stock.MaxStock = maxStock
	return nil
}

func (r *fakeStockRepo) GetListStock(_ context.Context, shopID int64, _ domain.GetListStockRequest) ([]domain.StockRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var stocks []domain.StockRecord
	for _, stock := range r.store.stocks {
		if stock.ShopID == shopID {
			stocks = append(stocks, *stock)
		}
	}
	sort.Slice(stocks, func(i, j int) bool { return stocks[i].ID < stocks[j].ID })
	return stocks, nil
}

func (r *fakeStockRepo) GetListStockCount(ctx context.Context, shopID int64, param domain.GetListStockRequest) (int64, error) {
	stocks, err := r.GetListStock(ctx, shopID, param)
	return int64(len(stocks)), err
}

func (r *fakeStockRepo) GetLowStock(_ context.Context, shopID int64) ([]domain.StockRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var stocks []domain.StockRecord
	for _, stock := range r.store.stocks {
		if stock.ShopID == shopID && stock.NeedsReorder() {
			stocks = append(stocks, *stock)
		}
	}
	return stocks, nil
}

func (r *fakeStockRepo) GetOverstocked(_ context.Context, shopID int64) ([]domain.StockRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var stocks []domain.StockRecord
	for _, stock := range r.store.stocks {
		if stock.ShopID == shopID && stock.Overstocked() {
			stocks = append(stocks, *stock)
		}
	}
	return stocks, nil
}

func (r *fakeStockRepo) UpsertTotal(_ context.Context, total domain.InventoryTotal, _ *sql.Tx) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	total.UpdatedAt = r.store.tick()
	r.store.totals[stockKey{total.ShopID, total.ProductID}] = total
	return nil
}

func (r *fakeStockRepo) GetTotal(_ context.Context, shopID, productID int64) (domain.InventoryTotal, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	total, ok := r.store.totals[stockKey{shopID, productID}]
	if !ok {
		return domain.InventoryTotal{}, domain.ErrNotFound
	}
	return total, nil
}

func (r *fakeStockRepo) WithTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error {
	r.store.txMu.Lock()
	defer r.store.txMu.Unlock()
	return fn(ctx, nil)
}

// --- movement repository ---

type fakeMovementRepo struct{ store *fakeStore }

func (r *fakeMovementRepo) Append(_ context.Context, movement *domain.StockMovement, _ *sql.Tx) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.movementSeq++
	movement.ID = r.store.movementSeq
	movement.CreatedAt = r.store.tick()
	r.store.movements = append(r.store.movements, *movement)
	return nil
}

func (r *fakeMovementRepo) GetHistory(_ context.Context, shopID, productID int64, param domain.MovementHistoryRequest) ([]domain.StockMovement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var movements []domain.StockMovement
	for _, m := range r.store.movements {
		if m.ShopID != shopID || m.ProductID != productID {
			continue
		}
		if !param.From.IsZero() && m.CreatedAt.Before(param.From) {
			continue
		}
		if !param.To.IsZero() && m.CreatedAt.After(param.To) {
			continue
		}
		movements = append(movements, m)
	}
	asc := param.SortOrder == "asc"
	sort.Slice(movements, func(i, j int) bool {
		if asc {
			return movements[i].ID < movements[j].ID
		}
		return movements[i].ID > movements[j].ID
	})
	return movements, nil
}

func (r *fakeMovementRepo) GetHistoryCount(ctx context.Context, shopID, productID int64, param domain.MovementHistoryRequest) (int64, error) {
	movements, err := r.GetHistory(ctx, shopID, productID, param)
	return int64(len(movements)), err
}

// --- transfer repository ---

type fakeTransferRepo struct{ store *fakeStore }

func (r *fakeTransferRepo) Create(_ context.Context, transfer *domain.Transfer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.transferSeq++
	transfer.ID = r.store.transferSeq
	transfer.CreatedAt = r.store.tick()
	for i := range transfer.Lines {
		r.store.lineSeq++
		transfer.Lines[i].ID = r.store.lineSeq
		transfer.Lines[i].TransferID = transfer.ID
	}
	stored := copyTransfer(transfer)
	r.store.transfers[transfer.ID] = &stored
	return nil
}

func (r *fakeTransferRepo) GetByID(_ context.Context, id int64) (domain.Transfer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	transfer, ok := r.store.transfers[id]
	if !ok {
		return domain.Transfer{}, domain.ErrNotFound
	}
	return copyTransfer(transfer), nil
}

func (r *fakeTransferRepo) LockForUpdate(ctx context.Context, id int64, _ *sql.Tx) (domain.Transfer, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeTransferRepo) UpdateStatus(_ context.Context, transfer domain.Transfer, _ *sql.Tx) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.transfers[transfer.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Status = transfer.Status
	stored.Notes = transfer.Notes
	stored.ApprovedBy = transfer.ApprovedBy
	stored.UpdatedAt = r.store.tick()
	return nil
}

func (r *fakeTransferRepo) UpdateLineQuantities(_ context.Context, line domain.TransferLine, _ *sql.Tx) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, transfer := range r.store.transfers {
		for i := range transfer.Lines {
			if transfer.Lines[i].ID == line.ID {
				transfer.Lines[i].ShippedQuantity = line.ShippedQuantity
				transfer.Lines[i].ReceivedQuantity = line.ReceivedQuantity
				transfer.Lines[i].DamagedQuantity = line.DamagedQuantity
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

func (r *fakeTransferRepo) GetListTransfer(_ context.Context, shopID int64, param domain.GetListTransferRequest) ([]domain.Transfer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var transfers []domain.Transfer
	for _, transfer := range r.store.transfers {
		if transfer.FromShopID != shopID && transfer.ToShopID != shopID {
			continue
		}
		if param.Status != "" && string(transfer.Status) != param.Status {
			continue
		}
		transfers = append(transfers, copyTransfer(transfer))
	}
	sort.Slice(transfers, func(i, j int) bool { return transfers[i].ID < transfers[j].ID })
	return transfers, nil
}

func (r *fakeTransferRepo) GetListTransferCount(ctx context.Context, shopID int64, param domain.GetListTransferRequest) (int64, error) {
	transfers, err := r.GetListTransfer(ctx, shopID, param)
	return int64(len(transfers)), err
}

func (r *fakeTransferRepo) WithTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error {
	r.store.txMu.Lock()
	defer r.store.txMu.Unlock()
	return fn(ctx, nil)
}

// --- damage repository ---

type fakeDamageRepo struct{ store *fakeStore }

func (r *fakeDamageRepo) Create(_ context.Context, record *domain.DamageRecord, _ *sql.Tx) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.damageSeq++
	record.ID = r.store.damageSeq
	record.CreatedAt = r.store.tick()
	stored := *record
	r.store.damages[record.ID] = &stored
	return nil
}

func (r *fakeDamageRepo) GetByID(_ context.Context, id int64) (domain.DamageRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	record, ok := r.store.damages[id]
	if !ok {
		return domain.DamageRecord{}, domain.ErrNotFound
	}
	return *record, nil
}

func (r *fakeDamageRepo) GetByTransferID(_ context.Context, transferID int64) ([]domain.DamageRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var records []domain.DamageRecord
	for _, record := range r.store.damages {
		if record.TransferID == transferID {
			records = append(records, *record)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

func (r *fakeDamageRepo) UpdateInsuranceClaim(_ context.Context, id int64, claimNumber string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	record, ok := r.store.damages[id]
	if !ok {
		return domain.ErrNotFound
	}
	record.InsuranceClaimed = true
	record.InsuranceClaimNumber = &claimNumber
	return nil
}

// --- broker and catalog ---

type fakeBroker struct {
	mu       sync.Mutex
	messages []domain.StockMessage
}

func (b *fakeBroker) PublishStockAvailable(_ context.Context, data domain.StockMessage) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, data)
	return nil
}

func (b *fakeBroker) published() []domain.StockMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.StockMessage, len(b.messages))
	copy(out, b.messages)
	return out
}

type fakeCatalog struct {
	unitCosts map[int64]decimal.Decimal
}

func (c *fakeCatalog) GetProduct(_ context.Context, productID int64) (domain.ProductDescriptor, error) {
	cost, ok := c.unitCosts[productID]
	if !ok {
		return domain.ProductDescriptor{}, domain.ErrNotFound
	}
	return domain.ProductDescriptor{ID: productID, UnitCost: cost}, nil
}

func (c *fakeCatalog) GetUnitCost(_ context.Context, productID int64) (decimal.Decimal, error) {
	cost, ok := c.unitCosts[productID]
	if !ok {
		return decimal.Zero, domain.ErrNotFound
	}
	return cost, nil
}
