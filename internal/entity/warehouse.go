package entity

import (
	"time"

	"gorm.io/gorm"
)

const (
	WarehouseStatusActive   = "ACTIVE"
	WarehouseStatusInactive = "INACTIVE"
)

// Warehouse capacity accounting: UsedCapacity is maintained exclusively by
// ledger operations and must never exceed Capacity.
type Warehouse struct {
	ID                string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Code              string    `json:"code" gorm:"size:50;not null;uniqueIndex"`
	Name              string    `json:"name" gorm:"size:100;not null"`
	Address           string    `json:"address" gorm:"size:500"`
	Manager           string    `json:"manager" gorm:"size:64"`
	Capacity          float64   `json:"capacity" gorm:"type:decimal(12,4);not null"`
	UsedCapacity      float64   `json:"used_capacity" gorm:"type:decimal(12,4);not null;default:0"`
	RemainingCapacity float64   `json:"remaining_capacity" gorm:"-"`
	Status            string    `json:"status" gorm:"size:20;not null;default:ACTIVE"`
	Notes             string    `json:"notes" gorm:"type:text"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (Warehouse) TableName() string {
	return "warehouses"
}

func (w *Warehouse) AfterFind(_ *gorm.DB) error {
	w.RemainingCapacity = w.Capacity - w.UsedCapacity
	return nil
}

// Remaining reports the free capacity without relying on the AfterFind hook.
func (w *Warehouse) Remaining() float64 {
	return w.Capacity - w.UsedCapacity
}
