package entity

import (
	"time"
)

const (
	DriverStatusAvailable = "available"
	DriverStatusOnRoute   = "on_route"
	DriverStatusInactive  = "inactive"
)

const (
	DeliveryStatusPending   = "pending"
	DeliveryStatusAssigned  = "assigned"
	DeliveryStatusInTransit = "in_transit"
	DeliveryStatusDelivered = "delivered"
	DeliveryStatusFailed    = "failed"
)

type Driver struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	Phone     string    `json:"phone" gorm:"size:20;not null"`
	LicenseNo string    `json:"license_no" gorm:"size:50;not null;uniqueIndex"`
	VehicleNo string    `json:"vehicle_no" gorm:"size:20"`
	Status    string    `json:"status" gorm:"size:20;not null;default:available"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Driver) TableName() string {
	return "drivers"
}

type Delivery struct {
	ID            string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Code          string     `json:"code" gorm:"size:50;not null;uniqueIndex"`
	OrderRef      string     `json:"order_ref" gorm:"size:64"`
	CustomerName  string     `json:"customer_name" gorm:"size:128;not null"`
	Address       string     `json:"address" gorm:"size:500;not null"`
	DriverID      *string    `json:"driver_id" gorm:"type:uuid;index"`
	Status        string     `json:"status" gorm:"size:20;not null;default:pending"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	DeliveredAt   *time.Time `json:"delivered_at"`
	ProofObject   string     `json:"proof_object" gorm:"size:512"` // object key in the POD bucket
	Notes         string     `json:"notes" gorm:"type:text"`
	CreatedBy     string     `json:"created_by" gorm:"size:64"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Driver *Driver `json:"driver,omitempty" gorm:"foreignKey:DriverID"`
}

func (Delivery) TableName() string {
	return "deliveries"
}
