package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/entity"
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/repository"
)

// InventoryService owns item catalog CRUD and read-side queries. All stock
// mutations go through the LedgerService.
type InventoryService struct {
	repo   *repository.InventoryRepository
	whRepo *repository.WarehouseRepository
	ledger *LedgerService
}

func NewInventoryService(repo *repository.InventoryRepository, whRepo *repository.WarehouseRepository, ledger *LedgerService) *InventoryService {
	return &InventoryService{repo: repo, whRepo: whRepo, ledger: ledger}
}

type CreateItemRequest struct {
	SKU          string  `json:"sku" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Unit         string  `json:"unit"`
	MinimumStock float64 `json:"minimum_stock"`
	MaximumStock float64 `json:"maximum_stock"`
	ReorderQty   float64 `json:"reorder_qty"`
	UnitCost     string  `json:"unit_cost"`
	SellingPrice string  `json:"selling_price"`
	WarehouseID  *string `json:"warehouse_id"`
	ShelfRow     string  `json:"shelf_row"`
	SupplierID   *string `json:"supplier_id"`
	OpeningStock float64 `json:"opening_stock"`
}

func (s *InventoryService) Create(ctx context.Context, req CreateItemRequest, userID string) (*entity.InventoryItem, error) {
	if req.MinimumStock < 0 || req.MaximumStock < 0 || req.OpeningStock < 0 {
		return nil, &ValidationError{Field: "stock thresholds", Reason: "must not be negative"}
	}
	if req.WarehouseID != nil {
		if _, err := s.whRepo.GetByID(*req.WarehouseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Entity: "warehouse", ID: *req.WarehouseID}
			}
			return nil, err
		}
	}

	unit := req.Unit
	if unit == "" {
		unit = "kg"
	}
	item := &entity.InventoryItem{
		SKU:          req.SKU,
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Unit:         unit,
		MinimumStock: req.MinimumStock,
		MaximumStock: req.MaximumStock,
		ReorderQty:   req.ReorderQty,
		Status:       entity.ItemStatusOutOfStock,
		WarehouseID:  req.WarehouseID,
		ShelfRow:     req.ShelfRow,
		SupplierID:   req.SupplierID,
	}
	var err error
	if item.UnitCost, err = parseMoney(req.UnitCost, "unit_cost"); err != nil {
		return nil, err
	}
	if item.SellingPrice, err = parseMoney(req.SellingPrice, "selling_price"); err != nil {
		return nil, err
	}

	if err := s.repo.Create(item); err != nil {
		return nil, err
	}

	// Opening balance flows through the ledger so the history starts with an
	// initial_stock record.
	if req.OpeningStock > 0 {
		res, err := s.ledger.InitialStock(ctx, item.ID, req.OpeningStock, userID)
		if err != nil {
			return nil, err
		}
		item = res.Item
	}
	return item, nil
}

type UpdateItemRequest struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Unit         string  `json:"unit"`
	MinimumStock float64 `json:"minimum_stock"`
	MaximumStock float64 `json:"maximum_stock"`
	ReorderQty   float64 `json:"reorder_qty"`
	UnitCost     string  `json:"unit_cost"`
	SellingPrice string  `json:"selling_price"`
	ShelfRow     string  `json:"shelf_row"`
	SupplierID   *string `json:"supplier_id"`
}

// Update edits catalog fields. CurrentStock, Status and the warehouse
// assignment are not updatable here: stock moves only through ledger
// operations and relocation only through Transfer.
func (s *InventoryService) Update(id string, req UpdateItemRequest) (*entity.InventoryItem, error) {
	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		item.Name = req.Name
	}
	item.Description = req.Description
	item.Category = req.Category
	if req.Unit != "" {
		item.Unit = req.Unit
	}
	if req.MinimumStock < 0 || req.MaximumStock < 0 {
		return nil, &ValidationError{Field: "stock thresholds", Reason: "must not be negative"}
	}
	item.MinimumStock = req.MinimumStock
	item.MaximumStock = req.MaximumStock
	item.ReorderQty = req.ReorderQty
	item.ShelfRow = req.ShelfRow
	item.SupplierID = req.SupplierID
	if item.UnitCost, err = parseMoney(req.UnitCost, "unit_cost"); err != nil {
		return nil, err
	}
	if item.SellingPrice, err = parseMoney(req.SellingPrice, "selling_price"); err != nil {
		return nil, err
	}
	// Thresholds may have moved the derived status band.
	item.Status = item.DeriveStatus()
	if err := s.repo.Update(item); err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *InventoryService) Get(id string) (*entity.InventoryItem, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "item", ID: id}
		}
		return nil, err
	}
	return item, nil
}

func (s *InventoryService) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

func (s *InventoryService) List(params repository.ItemListParams) ([]entity.InventoryItem, int64, error) {
	return s.repo.List(params)
}

func (s *InventoryService) ListTransactions(params repository.TransactionListParams) ([]entity.StockTransaction, int64, error) {
	return s.repo.ListTransactions(params)
}

// ReorderItem is one row of the reorder list: an item below its threshold
// plus the suggested replenishment quantity.
type ReorderItem struct {
	Item         entity.InventoryItem `json:"item"`
	SuggestedQty float64              `json:"suggested_qty"`
}

func (s *InventoryService) ReorderList() ([]ReorderItem, error) {
	items, err := s.repo.ReorderList()
	if err != nil {
		return nil, err
	}
	out := make([]ReorderItem, 0, len(items))
	for _, item := range items {
		out = append(out, ReorderItem{Item: item, SuggestedQty: item.SuggestedReorderQty()})
	}
	return out, nil
}

func (s *InventoryService) TotalStockBySKU(sku string) (float64, error) {
	return s.repo.TotalStockBySKU(sku)
}
