package repository

import (
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WarehouseRepository struct {
	db *gorm.DB
}

func NewWarehouseRepository(db *gorm.DB) *WarehouseRepository {
	return &WarehouseRepository{db: db}
}

func (r *WarehouseRepository) GetByID(id string) (*entity.Warehouse, error) {
	var wh entity.Warehouse
	err := r.db.First(&wh, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &wh, nil
}

func (r *WarehouseRepository) GetByCode(code string) (*entity.Warehouse, error) {
	var wh entity.Warehouse
	err := r.db.First(&wh, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &wh, nil
}

// GetForUpdate locks a warehouse row for capacity bookkeeping.
func (r *WarehouseRepository) GetForUpdate(tx *gorm.DB, id string) (*entity.Warehouse, error) {
	var wh entity.Warehouse
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&wh, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &wh, nil
}

func (r *WarehouseRepository) Create(wh *entity.Warehouse) error {
	return r.db.Create(wh).Error
}

func (r *WarehouseRepository) Save(tx *gorm.DB, wh *entity.Warehouse) error {
	return tx.Save(wh).Error
}

// Update persists admin-editable fields. UsedCapacity is ledger-owned and
// deliberately excluded.
func (r *WarehouseRepository) Update(wh *entity.Warehouse) error {
	return r.db.Model(wh).Select(
		"code", "name", "address", "manager", "capacity", "status", "notes",
	).Updates(wh).Error
}

func (r *WarehouseRepository) Delete(id string) error {
	return r.db.Delete(&entity.Warehouse{}, "id = ?", id).Error
}

func (r *WarehouseRepository) List() ([]entity.Warehouse, error) {
	var whs []entity.Warehouse
	err := r.db.Order("code ASC").Find(&whs).Error
	return whs, err
}

// ItemCount reports how many stock rows reference a warehouse.
func (r *WarehouseRepository) ItemCount(id string) (int64, error) {
	var count int64
	err := r.db.Model(&entity.InventoryItem{}).
		Where("warehouse_id = ?", id).Count(&count).Error
	return count, err
}
