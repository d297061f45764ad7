package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/entity"
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/repository"
)

type WarehouseService struct {
	repo *repository.WarehouseRepository
}

func NewWarehouseService(repo *repository.WarehouseRepository) *WarehouseService {
	return &WarehouseService{repo: repo}
}

type WarehouseRequest struct {
	Code     string  `json:"code" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Address  string  `json:"address"`
	Manager  string  `json:"manager"`
	Capacity float64 `json:"capacity" binding:"required"`
	Status   string  `json:"status"`
	Notes    string  `json:"notes"`
}

func (s *WarehouseService) Create(req WarehouseRequest) (*entity.Warehouse, error) {
	if req.Capacity <= 0 {
		return nil, &ValidationError{Field: "capacity", Reason: "must be positive"}
	}
	status := req.Status
	if status == "" {
		status = entity.WarehouseStatusActive
	}
	wh := &entity.Warehouse{
		Code:     req.Code,
		Name:     req.Name,
		Address:  req.Address,
		Manager:  req.Manager,
		Capacity: req.Capacity,
		Status:   status,
		Notes:    req.Notes,
	}
	if err := s.repo.Create(wh); err != nil {
		return nil, err
	}
	wh.RemainingCapacity = wh.Remaining()
	return wh, nil
}

// Update edits warehouse master data. Capacity may not shrink below the
// current used capacity; UsedCapacity itself is ledger-owned and not
// editable here at all.
func (s *WarehouseService) Update(id string, req WarehouseRequest) (*entity.Warehouse, error) {
	wh, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if req.Capacity <= 0 {
		return nil, &ValidationError{Field: "capacity", Reason: "must be positive"}
	}
	if req.Capacity < wh.UsedCapacity {
		return nil, &ValidationError{Field: "capacity", Reason: "cannot be less than current used capacity"}
	}
	wh.Code = req.Code
	wh.Name = req.Name
	wh.Address = req.Address
	wh.Manager = req.Manager
	wh.Capacity = req.Capacity
	if req.Status != "" {
		wh.Status = req.Status
	}
	wh.Notes = req.Notes
	if err := s.repo.Update(wh); err != nil {
		return nil, err
	}
	wh.RemainingCapacity = wh.Remaining()
	return wh, nil
}

func (s *WarehouseService) Get(id string) (*entity.Warehouse, error) {
	wh, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "warehouse", ID: id}
		}
		return nil, err
	}
	return wh, nil
}

// Delete refuses while stock rows still reference the warehouse.
func (s *WarehouseService) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	count, err := s.repo.ItemCount(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &ConflictError{Reason: "warehouse still holds inventory items"}
	}
	return s.repo.Delete(id)
}

func (s *WarehouseService) List() ([]entity.Warehouse, error) {
	return s.repo.List()
}
