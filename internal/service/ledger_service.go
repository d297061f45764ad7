package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/entity"
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/metrics"
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/repository"
)

// LedgerService is the single writer for stock and capacity state. Every
// mutation locks the affected rows, appends transaction records and updates
// the item and warehouse aggregates in one database transaction. CurrentStock
// and UsedCapacity are never written anywhere else.
type LedgerService struct {
	invRepo *repository.InventoryRepository
	whRepo  *repository.WarehouseRepository
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewLedgerService(invRepo *repository.InventoryRepository, whRepo *repository.WarehouseRepository, rdb *redis.Client, logger *zap.Logger) *LedgerService {
	return &LedgerService{invRepo: invRepo, whRepo: whRepo, rdb: rdb, logger: logger}
}

// LedgerResult is returned by every successful operation: the updated
// aggregates plus the transaction record(s) just written.
type LedgerResult struct {
	Item          *entity.InventoryItem     `json:"item"`
	DestItem      *entity.InventoryItem     `json:"dest_item,omitempty"`
	Warehouse     *entity.Warehouse         `json:"warehouse,omitempty"`
	DestWarehouse *entity.Warehouse         `json:"dest_warehouse,omitempty"`
	Transactions  []entity.StockTransaction `json:"transactions"`
}

type ReceiveRequest struct {
	ItemID        string  `json:"item_id" binding:"required"`
	Quantity      float64 `json:"quantity" binding:"required"`
	ReferenceType string  `json:"reference_type"`
	ReferenceID   string  `json:"reference_id"`
	Notes         string  `json:"notes"`
}

type IssueRequest struct {
	ItemID        string  `json:"item_id" binding:"required"`
	Quantity      float64 `json:"quantity" binding:"required"`
	ReferenceType string  `json:"reference_type"`
	ReferenceID   string  `json:"reference_id"`
	Notes         string  `json:"notes"`
}

type AdjustRequest struct {
	ItemID        string  `json:"item_id" binding:"required"`
	NewStockLevel float64 `json:"new_stock_level"`
	Reason        string  `json:"reason" binding:"required"`
}

type TransferRequest struct {
	ItemID          string  `json:"item_id" binding:"required"`
	FromWarehouseID string  `json:"from_warehouse_id" binding:"required"`
	ToWarehouseID   string  `json:"to_warehouse_id" binding:"required"`
	Quantity        float64 `json:"quantity" binding:"required"`
	Notes           string  `json:"notes"`
}

// Receive books incoming stock onto an item and its warehouse.
func (s *LedgerService) Receive(ctx context.Context, req ReceiveRequest, performedBy string) (*LedgerResult, error) {
	if req.Quantity <= 0 {
		return s.reject("receive", &ValidationError{Field: "quantity", Reason: "must be positive"})
	}
	res, err := s.applyDelta(ctx, req.ItemID, req.Quantity, entity.TxTypeReceive,
		req.ReferenceType, req.ReferenceID, req.Notes, performedBy)
	return s.finish(ctx, "receive", res, err)
}

// Issue books outgoing stock. Fails with InsufficientStockError when the
// balance would go negative; nothing is persisted in that case.
func (s *LedgerService) Issue(ctx context.Context, req IssueRequest, performedBy string) (*LedgerResult, error) {
	if req.Quantity <= 0 {
		return s.reject("issue", &ValidationError{Field: "quantity", Reason: "must be positive"})
	}
	res, err := s.applyDelta(ctx, req.ItemID, -req.Quantity, entity.TxTypeIssue,
		req.ReferenceType, req.ReferenceID, req.Notes, performedBy)
	return s.finish(ctx, "issue", res, err)
}

// Adjust reconciles the recorded balance with a physical count. The target is
// absolute; the implicit delta is recorded as adjustment_in or adjustment_out.
func (s *LedgerService) Adjust(ctx context.Context, req AdjustRequest, performedBy string) (*LedgerResult, error) {
	if req.NewStockLevel < 0 {
		return s.reject("adjust", &ValidationError{Field: "new_stock_level", Reason: "must not be negative"})
	}
	var res *LedgerResult
	err := s.invRepo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.lockItem(tx, req.ItemID)
		if err != nil {
			return err
		}
		delta := req.NewStockLevel - item.CurrentStock
		if delta == 0 {
			res = &LedgerResult{Item: item, Transactions: []entity.StockTransaction{}}
			return nil
		}
		txType := entity.TxTypeAdjustmentIn
		if delta < 0 {
			txType = entity.TxTypeAdjustmentOut
		}
		r, err := s.mutate(tx, item, delta, txType, "ADJUST", "", req.Reason, performedBy)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	return s.finish(ctx, "adjust", res, err)
}

// InitialStock posts the opening balance of a freshly created item. Called by
// the item service inside item creation.
func (s *LedgerService) InitialStock(ctx context.Context, itemID string, quantity float64, performedBy string) (*LedgerResult, error) {
	if quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	res, err := s.applyDelta(ctx, itemID, quantity, entity.TxTypeInitialStock,
		"MANUAL", "", "opening balance", performedBy)
	return s.finish(ctx, "initial_stock", res, err)
}

// Transfer moves stock of one SKU between two warehouses: an issue against
// the source row, a receive into the destination row (created on first
// transfer), and capacity bookkeeping on both sides. All six writes commit
// together or not at all.
func (s *LedgerService) Transfer(ctx context.Context, req TransferRequest, performedBy string) (*LedgerResult, error) {
	if req.Quantity <= 0 {
		return s.reject("transfer", &ValidationError{Field: "quantity", Reason: "must be positive"})
	}
	if req.FromWarehouseID == req.ToWarehouseID {
		return s.reject("transfer", &ValidationError{Field: "to_warehouse_id", Reason: "source and destination must differ"})
	}

	var res *LedgerResult
	err := s.invRepo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		src, err := s.lockItem(tx, req.ItemID)
		if err != nil {
			return err
		}
		if src.WarehouseID == nil || *src.WarehouseID != req.FromWarehouseID {
			return &ValidationError{Field: "from_warehouse_id", Reason: "item is not located in the source warehouse"}
		}
		if req.Quantity > src.CurrentStock {
			return &InsufficientStockError{ItemID: src.ID, Requested: req.Quantity, Available: src.CurrentStock}
		}

		// Lock warehouses in ID order so two opposite transfers cannot deadlock.
		ids := []string{req.FromWarehouseID, req.ToWarehouseID}
		sort.Strings(ids)
		locked := make(map[string]*entity.Warehouse, 2)
		for _, id := range ids {
			wh, err := s.whRepo.GetForUpdate(tx, id)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{Entity: "warehouse", ID: id}
				}
				return err
			}
			locked[id] = wh
		}
		fromWh := locked[req.FromWarehouseID]
		toWh := locked[req.ToWarehouseID]

		if toWh.Remaining() < req.Quantity {
			return &CapacityExceededError{WarehouseID: toWh.ID, Requested: req.Quantity, Remaining: toWh.Remaining()}
		}

		dest, err := s.invRepo.GetBySKUAndWarehouseForUpdate(tx, src.SKU, req.ToWarehouseID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			dest = cloneForWarehouse(src, req.ToWarehouseID)
			if err := tx.Create(dest).Error; err != nil {
				return err
			}
		}

		now := time.Now()

		srcPrev := src.CurrentStock
		src.CurrentStock -= req.Quantity
		src.Status = src.DeriveStatus()
		fromWh.UsedCapacity -= req.Quantity
		if fromWh.UsedCapacity < 0 {
			fromWh.UsedCapacity = 0
		}
		if err := s.invRepo.Save(tx, src); err != nil {
			return err
		}

		destPrev := dest.CurrentStock
		dest.CurrentStock += req.Quantity
		dest.Status = dest.DeriveStatus()
		toWh.UsedCapacity += req.Quantity
		if err := s.invRepo.Save(tx, dest); err != nil {
			return err
		}

		if err := s.whRepo.Save(tx, fromWh); err != nil {
			return err
		}
		if err := s.whRepo.Save(tx, toWh); err != nil {
			return err
		}

		out := entity.StockTransaction{
			ID:              uuid.New().String(),
			ItemID:          src.ID,
			SKU:             src.SKU,
			ItemName:        src.Name,
			WarehouseID:     &fromWh.ID,
			TransactionType: entity.TxTypeTransferOut,
			Quantity:        req.Quantity,
			PreviousStock:   srcPrev,
			NewStock:        src.CurrentStock,
			ReferenceType:   "TRANSFER",
			ReferenceID:     toWh.ID,
			PerformedBy:     performedBy,
			Notes:           req.Notes,
			CreatedAt:       now,
		}
		in := entity.StockTransaction{
			ID:              uuid.New().String(),
			ItemID:          dest.ID,
			SKU:             dest.SKU,
			ItemName:        dest.Name,
			WarehouseID:     &toWh.ID,
			TransactionType: entity.TxTypeTransferIn,
			Quantity:        req.Quantity,
			PreviousStock:   destPrev,
			NewStock:        dest.CurrentStock,
			ReferenceType:   "TRANSFER",
			ReferenceID:     fromWh.ID,
			PerformedBy:     performedBy,
			Notes:           req.Notes,
			CreatedAt:       now,
		}
		if err := s.invRepo.CreateTransaction(tx, &out); err != nil {
			return err
		}
		if err := s.invRepo.CreateTransaction(tx, &in); err != nil {
			return err
		}

		fromWh.RemainingCapacity = fromWh.Remaining()
		toWh.RemainingCapacity = toWh.Remaining()
		res = &LedgerResult{
			Item:          src,
			DestItem:      dest,
			Warehouse:     fromWh,
			DestWarehouse: toWh,
			Transactions:  []entity.StockTransaction{out, in},
		}
		return nil
	})
	return s.finish(ctx, "transfer", res, err)
}

// applyDelta runs a single-item mutation in its own transaction.
func (s *LedgerService) applyDelta(ctx context.Context, itemID string, delta float64, txType, refType, refID, notes, performedBy string) (*LedgerResult, error) {
	var res *LedgerResult
	err := s.invRepo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.lockItem(tx, itemID)
		if err != nil {
			return err
		}
		r, err := s.mutate(tx, item, delta, txType, refType, refID, notes, performedBy)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	return res, err
}

// mutate applies a signed stock delta to a locked item, moves the capacity of
// its warehouse by the same delta and appends one transaction record.
func (s *LedgerService) mutate(tx *gorm.DB, item *entity.InventoryItem, delta float64, txType, refType, refID, notes, performedBy string) (*LedgerResult, error) {
	prev := item.CurrentStock
	next := prev + delta
	if next < 0 {
		return nil, &InsufficientStockError{ItemID: item.ID, Requested: -delta, Available: prev}
	}

	var wh *entity.Warehouse
	if item.WarehouseID != nil {
		var err error
		wh, err = s.whRepo.GetForUpdate(tx, *item.WarehouseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Entity: "warehouse", ID: *item.WarehouseID}
			}
			return nil, err
		}
		if delta > 0 && wh.Remaining() < delta {
			return nil, &CapacityExceededError{WarehouseID: wh.ID, Requested: delta, Remaining: wh.Remaining()}
		}
		wh.UsedCapacity += delta
		if wh.UsedCapacity < 0 {
			wh.UsedCapacity = 0
		}
		if err := s.whRepo.Save(tx, wh); err != nil {
			return nil, err
		}
		wh.RemainingCapacity = wh.Remaining()
	}

	item.CurrentStock = next
	item.Status = item.DeriveStatus()
	if err := s.invRepo.Save(tx, item); err != nil {
		return nil, err
	}

	qty := delta
	if qty < 0 {
		qty = -qty
	}
	record := entity.StockTransaction{
		ID:              uuid.New().String(),
		ItemID:          item.ID,
		SKU:             item.SKU,
		ItemName:        item.Name,
		WarehouseID:     item.WarehouseID,
		TransactionType: txType,
		Quantity:        qty,
		PreviousStock:   prev,
		NewStock:        next,
		ReferenceType:   refType,
		ReferenceID:     refID,
		PerformedBy:     performedBy,
		Notes:           notes,
		CreatedAt:       time.Now(),
	}
	if err := s.invRepo.CreateTransaction(tx, &record); err != nil {
		return nil, err
	}

	return &LedgerResult{
		Item:         item,
		Warehouse:    wh,
		Transactions: []entity.StockTransaction{record},
	}, nil
}

func (s *LedgerService) lockItem(tx *gorm.DB, id string) (*entity.InventoryItem, error) {
	item, err := s.invRepo.GetForUpdate(tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "item", ID: id}
		}
		return nil, err
	}
	return item, nil
}

func cloneForWarehouse(src *entity.InventoryItem, warehouseID string) *entity.InventoryItem {
	whID := warehouseID
	return &entity.InventoryItem{
		ID:           uuid.New().String(),
		SKU:          src.SKU,
		Name:         src.Name,
		Description:  src.Description,
		Category:     src.Category,
		Unit:         src.Unit,
		MinimumStock: src.MinimumStock,
		MaximumStock: src.MaximumStock,
		ReorderQty:   src.ReorderQty,
		UnitCost:     src.UnitCost,
		SellingPrice: src.SellingPrice,
		Status:       entity.ItemStatusOutOfStock,
		WarehouseID:  &whID,
		SupplierID:   src.SupplierID,
	}
}

// finish records metrics, invalidates read caches on success and logs the
// outcome.
func (s *LedgerService) finish(ctx context.Context, op string, res *LedgerResult, err error) (*LedgerResult, error) {
	switch {
	case err == nil:
		metrics.LedgerOps.WithLabelValues(op, "ok").Inc()
		s.invalidateCaches(ctx)
		if s.logger != nil && res != nil && res.Item != nil {
			s.logger.Info("ledger operation applied",
				zap.String("op", op),
				zap.String("item_id", res.Item.ID),
				zap.Float64("new_stock", res.Item.CurrentStock),
				zap.String("status", res.Item.Status),
			)
		}
		return res, nil
	case isRejection(err):
		metrics.LedgerOps.WithLabelValues(op, "rejected").Inc()
		return nil, err
	default:
		metrics.LedgerOps.WithLabelValues(op, "error").Inc()
		if s.logger != nil {
			s.logger.Error("ledger operation failed", zap.String("op", op), zap.Error(err))
		}
		return nil, err
	}
}

func (s *LedgerService) reject(op string, err error) (*LedgerResult, error) {
	metrics.LedgerOps.WithLabelValues(op, "rejected").Inc()
	return nil, err
}

func (s *LedgerService) invalidateCaches(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	s.rdb.Del(ctx, DashboardCacheKey, ReorderCacheKey)
}

func isRejection(err error) bool {
	var nf *NotFoundError
	var ve *ValidationError
	var is *InsufficientStockError
	var ce *CapacityExceededError
	return errors.As(err, &nf) || errors.As(err, &ve) || errors.As(err, &is) || errors.As(err, &ce)
}
