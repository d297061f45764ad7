package service

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/entity"
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/repository"
)

type SupplierService struct {
	repo *repository.SupplierRepository
}

func NewSupplierService(repo *repository.SupplierRepository) *SupplierService {
	return &SupplierService{repo: repo}
}

type SupplierRequest struct {
	SupplierCode string `json:"supplier_code"`
	Name         string `json:"name" binding:"required"`
	ContactName  string `json:"contact_name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	Rating       string `json:"rating"`
	Status       string `json:"status"`
	Notes        string `json:"notes"`
}

func (s *SupplierService) Create(req SupplierRequest) (*entity.Supplier, error) {
	code := req.SupplierCode
	if code == "" {
		code = fmt.Sprintf("SUP-%s%04d", time.Now().Format("20060102"), time.Now().UnixNano()%10000)
	}
	rating := req.Rating
	if rating == "" {
		rating = entity.SupplierRatingB
	}
	status := req.Status
	if status == "" {
		status = entity.SupplierStatusActive
	}
	sup := &entity.Supplier{
		SupplierCode: code,
		Name:         req.Name,
		ContactName:  req.ContactName,
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      req.Address,
		Rating:       rating,
		Status:       status,
		Notes:        req.Notes,
	}
	if err := s.repo.Create(sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *SupplierService) Update(id string, req SupplierRequest) (*entity.Supplier, error) {
	sup, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	sup.Name = req.Name
	sup.ContactName = req.ContactName
	sup.Phone = req.Phone
	sup.Email = req.Email
	sup.Address = req.Address
	if req.Rating != "" {
		sup.Rating = req.Rating
	}
	if req.Status != "" {
		sup.Status = req.Status
	}
	sup.Notes = req.Notes
	if err := s.repo.Update(sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *SupplierService) Get(id string) (*entity.Supplier, error) {
	sup, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "supplier", ID: id}
		}
		return nil, err
	}
	return sup, nil
}

func (s *SupplierService) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

func (s *SupplierService) List(status, keyword string, page, size int) ([]entity.Supplier, int64, error) {
	return s.repo.List(status, keyword, page, size)
}
