package entity

import "gorm.io/gorm"

// AutoMigrate creates or updates all application tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},

		// Inventory & warehouse ledger
		&Warehouse{},
		&InventoryItem{},
		&StockTransaction{},

		// Procurement
		&Supplier{},
		&PurchaseOrder{},
		&POLine{},

		// Deliveries
		&Driver{},
		&Delivery{},

		// HR
		&Employee{},
		&Attendance{},
		&LeaveRequest{},
		&SalaryRecord{},
	)
}
