package repository

import (
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/entity"
	"gorm.io/gorm"
)

type DeliveryRepository struct {
	db *gorm.DB
}

func NewDeliveryRepository(db *gorm.DB) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

// --- Drivers ---

func (r *DeliveryRepository) GetDriver(id string) (*entity.Driver, error) {
	var d entity.Driver
	err := r.db.First(&d, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DeliveryRepository) CreateDriver(d *entity.Driver) error {
	return r.db.Create(d).Error
}

func (r *DeliveryRepository) SaveDriver(d *entity.Driver) error {
	return r.db.Save(d).Error
}

func (r *DeliveryRepository) ListDrivers(status string) ([]entity.Driver, error) {
	query := r.db.Model(&entity.Driver{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var drivers []entity.Driver
	err := query.Order("name ASC").Find(&drivers).Error
	return drivers, err
}

// --- Deliveries ---

func (r *DeliveryRepository) GetDelivery(id string) (*entity.Delivery, error) {
	var d entity.Delivery
	err := r.db.Preload("Driver").First(&d, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DeliveryRepository) CreateDelivery(d *entity.Delivery) error {
	return r.db.Create(d).Error
}

func (r *DeliveryRepository) SaveDelivery(d *entity.Delivery) error {
	return r.db.Save(d).Error
}

func (r *DeliveryRepository) ListDeliveries(status, driverID string, page, size int) ([]entity.Delivery, int64, error) {
	query := r.db.Model(&entity.Delivery{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if driverID != "" {
		query = query.Where("driver_id = ?", driverID)
	}
	var total int64
	query.Count(&total)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	var deliveries []entity.Delivery
	err := query.Preload("Driver").Order("created_at DESC").
		Offset((page - 1) * size).Limit(size).Find(&deliveries).Error
	return deliveries, total, err
}

func (r *DeliveryRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Delivery{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
