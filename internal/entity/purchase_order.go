package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	POStatusDraft             = "draft"
	POStatusOrdered           = "ordered"
	POStatusPartiallyReceived = "partially_received"
	POStatusReceived          = "received"
	POStatusCancelled         = "cancelled"
)

const (
	POLineStatusOpen     = "open"
	POLineStatusPartial  = "partial"
	POLineStatusReceived = "received"
)

type PurchaseOrder struct {
	ID           string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	POCode       string          `json:"po_code" gorm:"size:50;not null;uniqueIndex"`
	SupplierID   string          `json:"supplier_id" gorm:"type:uuid;not null;index"`
	Status       string          `json:"status" gorm:"size:20;not null;default:draft"`
	TotalAmount  decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);default:0"`
	Currency     string          `json:"currency" gorm:"size:10;not null;default:LKR"`
	OrderDate    *time.Time      `json:"order_date"`
	ExpectedDate *time.Time      `json:"expected_date"`
	ReceivedDate *time.Time      `json:"received_date"`
	Notes        string          `json:"notes" gorm:"type:text"`
	CreatedBy    string          `json:"created_by" gorm:"size:64;not null"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	Supplier *Supplier `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	Lines    []POLine  `json:"lines,omitempty" gorm:"foreignKey:POID"`
}

func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

type POLine struct {
	ID          string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	POID        string          `json:"po_id" gorm:"type:uuid;not null;index"`
	ItemID      string          `json:"item_id" gorm:"type:uuid;not null"`
	SKU         string          `json:"sku" gorm:"size:64"`
	ItemName    string          `json:"item_name" gorm:"size:128"`
	Quantity    float64         `json:"quantity" gorm:"type:decimal(12,4);not null"`
	Unit        string          `json:"unit" gorm:"size:20;not null;default:kg"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,2);not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	ReceivedQty float64         `json:"received_qty" gorm:"type:decimal(12,4);default:0"`
	Status      string          `json:"status" gorm:"size:20;not null;default:open"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (POLine) TableName() string {
	return "purchase_order_lines"
}
