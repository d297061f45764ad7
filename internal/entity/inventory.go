package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock status, derived after every mutation.
const (
	ItemStatusInStock    = "in_stock"
	ItemStatusLowStock   = "low_stock"
	ItemStatusOutOfStock = "out_of_stock"
)

// Canonical transaction type tags (closed set).
const (
	TxTypeReceive       = "receive"
	TxTypeIssue         = "issue"
	TxTypeAdjustmentIn  = "adjustment_in"
	TxTypeAdjustmentOut = "adjustment_out"
	TxTypeInitialStock  = "initial_stock"
	TxTypeTransferIn    = "transfer_in"
	TxTypeTransferOut   = "transfer_out"
)

// NormalizeTransactionType maps legacy transaction type tags onto the
// canonical enum. Unknown values pass through unchanged.
func NormalizeTransactionType(t string) string {
	switch t {
	case "inbound":
		return TxTypeReceive
	case "outbound":
		return TxTypeIssue
	case "adjustment":
		return TxTypeAdjustmentIn
	default:
		return t
	}
}

// InventoryItem carries the stock figure for one SKU at one location.
// Stock figures are per (SKU, warehouse): a partial
// transfer materialises a sibling row for the same SKU at the destination.
type InventoryItem struct {
	ID           string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	SKU          string          `json:"sku" gorm:"size:64;not null;index:idx_items_sku_warehouse,unique"`
	Name         string          `json:"name" gorm:"size:128;not null"`
	Description  string          `json:"description" gorm:"type:text"`
	Category     string          `json:"category" gorm:"size:64;index"`
	Unit         string          `json:"unit" gorm:"size:20;not null;default:kg"`
	CurrentStock float64         `json:"current_stock" gorm:"type:decimal(12,4);not null;default:0"`
	MinimumStock float64         `json:"minimum_stock" gorm:"type:decimal(12,4);default:0"`
	MaximumStock float64         `json:"maximum_stock" gorm:"type:decimal(12,4);default:0"`
	ReorderQty   float64         `json:"reorder_qty" gorm:"type:decimal(12,4);default:0"` // 0 = use max - current
	UnitCost     decimal.Decimal `json:"unit_cost" gorm:"type:decimal(12,2);default:0"`
	SellingPrice decimal.Decimal `json:"selling_price" gorm:"type:decimal(12,2);default:0"`
	Status       string          `json:"status" gorm:"size:20;not null;default:out_of_stock"`
	WarehouseID  *string         `json:"warehouse_id" gorm:"type:uuid;index:idx_items_sku_warehouse,unique"`
	ShelfRow     string          `json:"shelf_row" gorm:"size:50"`
	SupplierID   *string         `json:"supplier_id" gorm:"type:uuid;index"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	Warehouse *Warehouse `json:"warehouse,omitempty" gorm:"foreignKey:WarehouseID"`
	Supplier  *Supplier  `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}

// DeriveStatus computes the stock status from the current balance. It is the
// only way Status is ever set.
func (i *InventoryItem) DeriveStatus() string {
	switch {
	case i.CurrentStock <= 0:
		return ItemStatusOutOfStock
	case i.CurrentStock <= i.MinimumStock:
		return ItemStatusLowStock
	default:
		return ItemStatusInStock
	}
}

// SuggestedReorderQty returns the configured reorder quantity, falling back
// to topping up to MaximumStock.
func (i *InventoryItem) SuggestedReorderQty() float64 {
	if i.ReorderQty > 0 {
		return i.ReorderQty
	}
	if q := i.MaximumStock - i.CurrentStock; q > 0 {
		return q
	}
	return 0
}

// StockTransaction is one immutable ledger entry. Rows are append-only.
type StockTransaction struct {
	ID              string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ItemID          string    `json:"item_id" gorm:"type:uuid;not null;index"`
	SKU             string    `json:"sku" gorm:"size:64;index"`
	ItemName        string    `json:"item_name" gorm:"size:128"`
	WarehouseID     *string   `json:"warehouse_id" gorm:"type:uuid;index"`
	TransactionType string    `json:"transaction_type" gorm:"size:20;not null"`
	Quantity        float64   `json:"quantity" gorm:"type:decimal(12,4);not null"` // magnitude; direction is in the type
	PreviousStock   float64   `json:"previous_stock" gorm:"type:decimal(12,4);not null"`
	NewStock        float64   `json:"new_stock" gorm:"type:decimal(12,4);not null"`
	ReferenceType   string    `json:"reference_type" gorm:"size:50"` // PO, DELIVERY, MANUAL
	ReferenceID     string    `json:"reference_id" gorm:"size:64"`
	PerformedBy     string    `json:"performed_by" gorm:"size:64;not null"`
	Notes           string    `json:"notes" gorm:"type:text"`
	CreatedAt       time.Time `json:"created_at"`
}

func (StockTransaction) TableName() string {
	return "stock_transactions"
}
