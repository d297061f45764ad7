package repository

import (
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/entity"
	"gorm.io/gorm"
)

type SupplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

func (r *SupplierRepository) GetByID(id string) (*entity.Supplier, error) {
	var sup entity.Supplier
	err := r.db.First(&sup, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sup, nil
}

func (r *SupplierRepository) Create(sup *entity.Supplier) error {
	return r.db.Create(sup).Error
}

func (r *SupplierRepository) Update(sup *entity.Supplier) error {
	return r.db.Save(sup).Error
}

func (r *SupplierRepository) Delete(id string) error {
	return r.db.Delete(&entity.Supplier{}, "id = ?", id).Error
}

func (r *SupplierRepository) List(status, keyword string, page, size int) ([]entity.Supplier, int64, error) {
	query := r.db.Model(&entity.Supplier{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword != "" {
		kw := "%" + keyword + "%"
		query = query.Where("supplier_code ILIKE ? OR name ILIKE ?", kw, kw)
	}
	var total int64
	query.Count(&total)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	var sups []entity.Supplier
	err := query.Order("name ASC").Offset((page - 1) * size).Limit(size).Find(&sups).Error
	return sups, total, err
}
