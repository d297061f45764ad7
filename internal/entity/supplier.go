package entity

import (
	"time"
)

const (
	SupplierStatusActive   = "ACTIVE"
	SupplierStatusInactive = "INACTIVE"
)

// Supplier rating grades used on the procurement dashboard.
const (
	SupplierRatingA = "A"
	SupplierRatingB = "B"
	SupplierRatingC = "C"
)

type Supplier struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	SupplierCode string    `json:"supplier_code" gorm:"size:50;not null;uniqueIndex"`
	Name         string    `json:"name" gorm:"size:200;not null"`
	ContactName  string    `json:"contact_name" gorm:"size:100"`
	Phone        string    `json:"phone" gorm:"size:20"`
	Email        string    `json:"email" gorm:"size:128"`
	Address      string    `json:"address" gorm:"size:500"`
	Rating       string    `json:"rating" gorm:"size:2;default:B"`
	Status       string    `json:"status" gorm:"size:20;not null;default:ACTIVE"`
	Notes        string    `json:"notes" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Supplier) TableName() string {
	return "suppliers"
}
