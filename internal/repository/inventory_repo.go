package repository

import (
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// DB returns the underlying handle for ledger transactions.
func (r *InventoryRepository) DB() *gorm.DB {
	return r.db
}

func (r *InventoryRepository) GetByID(id string) (*entity.InventoryItem, error) {
	var item entity.InventoryItem
	err := r.db.Preload("Warehouse").Preload("Supplier").First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetForUpdate loads an item inside tx with a row lock, serializing
// concurrent ledger mutations against the same item.
func (r *InventoryRepository) GetForUpdate(tx *gorm.DB, id string) (*entity.InventoryItem, error) {
	var item entity.InventoryItem
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetBySKUAndWarehouseForUpdate locks the stock row of a SKU at one
// warehouse. Returns gorm.ErrRecordNotFound when no such row exists.
func (r *InventoryRepository) GetBySKUAndWarehouseForUpdate(tx *gorm.DB, sku, warehouseID string) (*entity.InventoryItem, error) {
	var item entity.InventoryItem
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("sku = ? AND warehouse_id = ?", sku, warehouseID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *InventoryRepository) Create(item *entity.InventoryItem) error {
	return r.db.Create(item).Error
}

func (r *InventoryRepository) Save(tx *gorm.DB, item *entity.InventoryItem) error {
	return tx.Save(item).Error
}

// Update persists catalog fields plus the status rederived from the new
// thresholds. Stock itself stays ledger-owned.
func (r *InventoryRepository) Update(item *entity.InventoryItem) error {
	return r.db.Model(item).Select(
		"name", "description", "category", "unit",
		"minimum_stock", "maximum_stock", "reorder_qty",
		"unit_cost", "selling_price", "shelf_row", "supplier_id", "status",
	).Updates(item).Error
}

func (r *InventoryRepository) Delete(id string) error {
	return r.db.Delete(&entity.InventoryItem{}, "id = ?", id).Error
}

func (r *InventoryRepository) CreateTransaction(tx *gorm.DB, record *entity.StockTransaction) error {
	return tx.Create(record).Error
}

type ItemListParams struct {
	WarehouseID string
	SupplierID  string
	Category    string
	Status      string
	Keyword     string
	Page        int
	Size        int
}

func (r *InventoryRepository) List(params ItemListParams) ([]entity.InventoryItem, int64, error) {
	query := r.db.Model(&entity.InventoryItem{})
	if params.WarehouseID != "" {
		query = query.Where("warehouse_id = ?", params.WarehouseID)
	}
	if params.SupplierID != "" {
		query = query.Where("supplier_id = ?", params.SupplierID)
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("sku ILIKE ? OR name ILIKE ?", kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var items []entity.InventoryItem
	err := query.Preload("Warehouse").Order("updated_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&items).Error
	return items, total, err
}

// ReorderList returns every item whose status is not in_stock.
func (r *InventoryRepository) ReorderList() ([]entity.InventoryItem, error) {
	var items []entity.InventoryItem
	err := r.db.Preload("Warehouse").Preload("Supplier").
		Where("status <> ?", entity.ItemStatusInStock).
		Order("current_stock ASC").
		Find(&items).Error
	return items, err
}

type TransactionListParams struct {
	ItemID          string
	SKU             string
	WarehouseID     string
	TransactionType string
	Page            int
	Size            int
}

func (r *InventoryRepository) ListTransactions(params TransactionListParams) ([]entity.StockTransaction, int64, error) {
	query := r.db.Model(&entity.StockTransaction{})
	if params.ItemID != "" {
		query = query.Where("item_id = ?", params.ItemID)
	}
	if params.SKU != "" {
		query = query.Where("sku = ?", params.SKU)
	}
	if params.WarehouseID != "" {
		query = query.Where("warehouse_id = ?", params.WarehouseID)
	}
	if params.TransactionType != "" {
		query = query.Where("transaction_type = ?", entity.NormalizeTransactionType(params.TransactionType))
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var txs []entity.StockTransaction
	err := query.Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&txs).Error
	return txs, total, err
}

// TotalStockBySKU sums the stock of one SKU across all warehouses.
func (r *InventoryRepository) TotalStockBySKU(sku string) (float64, error) {
	var result struct{ Total float64 }
	err := r.db.Raw(`
		SELECT COALESCE(SUM(current_stock), 0) AS total
		FROM inventory_items
		WHERE sku = ?
	`, sku).Scan(&result).Error
	return result.Total, err
}
