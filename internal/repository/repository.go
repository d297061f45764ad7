package repository

import "gorm.io/gorm"

// Repositories bundles all data access objects.
type Repositories struct {
	User      *UserRepository
	Inventory *InventoryRepository
	Warehouse *WarehouseRepository
	Supplier  *SupplierRepository
	Purchase  *PurchaseRepository
	Delivery  *DeliveryRepository
	HR        *HRRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:      NewUserRepository(db),
		Inventory: NewInventoryRepository(db),
		Warehouse: NewWarehouseRepository(db),
		Supplier:  NewSupplierRepository(db),
		Purchase:  NewPurchaseRepository(db),
		Delivery:  NewDeliveryRepository(db),
		HR:        NewHRRepository(db),
	}
}
