package repository

import (
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

func (r *PurchaseRepository) DB() *gorm.DB {
	return r.db
}

func (r *PurchaseRepository) GetByID(id string) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := r.db.Preload("Supplier").Preload("Lines").First(&po, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *PurchaseRepository) GetLine(poID, lineID string) (*entity.POLine, error) {
	var line entity.POLine
	err := r.db.First(&line, "id = ? AND po_id = ?", lineID, poID).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// GetLineForUpdate locks a line row inside tx, serializing concurrent
// receives against the same line.
func (r *PurchaseRepository) GetLineForUpdate(tx *gorm.DB, poID, lineID string) (*entity.POLine, error) {
	var line entity.POLine
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&line, "id = ? AND po_id = ?", lineID, poID).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *PurchaseRepository) Create(po *entity.PurchaseOrder) error {
	return r.db.Create(po).Error
}

// Save persists header fields only; lines are written through SaveLine.
func (r *PurchaseRepository) Save(po *entity.PurchaseOrder) error {
	return r.db.Omit(clause.Associations).Save(po).Error
}

func (r *PurchaseRepository) SaveLine(tx *gorm.DB, line *entity.POLine) error {
	return tx.Save(line).Error
}

func (r *PurchaseRepository) List(status, supplierID string, page, size int) ([]entity.PurchaseOrder, int64, error) {
	query := r.db.Model(&entity.PurchaseOrder{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if supplierID != "" {
		query = query.Where("supplier_id = ?", supplierID)
	}
	var total int64
	query.Count(&total)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	var pos []entity.PurchaseOrder
	err := query.Preload("Supplier").Preload("Lines").Order("created_at DESC").
		Offset((page - 1) * size).Limit(size).Find(&pos).Error
	return pos, total, err
}

// CountOpen reports purchase orders that still expect stock.
func (r *PurchaseRepository) CountOpen() (int64, error) {
	var count int64
	err := r.db.Model(&entity.PurchaseOrder{}).
		Where("status IN ?", []string{entity.POStatusOrdered, entity.POStatusPartiallyReceived}).
		Count(&count).Error
	return count, err
}
