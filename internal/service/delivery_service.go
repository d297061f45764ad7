package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"

	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/entity"
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/repository"
)

// DeliveryService tracks drivers and deliveries. Proof-of-delivery files are
// stored in MinIO; the entity keeps only the object key.
type DeliveryService struct {
	repo        *repository.DeliveryRepository
	minioClient *minio.Client
	bucket      string
}

func NewDeliveryService(repo *repository.DeliveryRepository, minioClient *minio.Client, bucket string) *DeliveryService {
	return &DeliveryService{repo: repo, minioClient: minioClient, bucket: bucket}
}

// --- Drivers ---

type DriverRequest struct {
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	LicenseNo string `json:"license_no" binding:"required"`
	VehicleNo string `json:"vehicle_no"`
	Status    string `json:"status"`
}

func (s *DeliveryService) CreateDriver(req DriverRequest) (*entity.Driver, error) {
	status := req.Status
	if status == "" {
		status = entity.DriverStatusAvailable
	}
	d := &entity.Driver{
		Name:      req.Name,
		Phone:     req.Phone,
		LicenseNo: req.LicenseNo,
		VehicleNo: req.VehicleNo,
		Status:    status,
	}
	if err := s.repo.CreateDriver(d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DeliveryService) UpdateDriver(id string, req DriverRequest) (*entity.Driver, error) {
	d, err := s.getDriver(id)
	if err != nil {
		return nil, err
	}
	d.Name = req.Name
	d.Phone = req.Phone
	d.LicenseNo = req.LicenseNo
	d.VehicleNo = req.VehicleNo
	if req.Status != "" {
		d.Status = req.Status
	}
	if err := s.repo.SaveDriver(d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DeliveryService) ListDrivers(status string) ([]entity.Driver, error) {
	return s.repo.ListDrivers(status)
}

func (s *DeliveryService) getDriver(id string) (*entity.Driver, error) {
	d, err := s.repo.GetDriver(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "driver", ID: id}
		}
		return nil, err
	}
	return d, nil
}

// --- Deliveries ---

type DeliveryRequest struct {
	OrderRef      string `json:"order_ref"`
	CustomerName  string `json:"customer_name" binding:"required"`
	Address       string `json:"address" binding:"required"`
	ScheduledDate string `json:"scheduled_date"` // YYYY-MM-DD
	Notes         string `json:"notes"`
}

func (s *DeliveryService) CreateDelivery(req DeliveryRequest, userID string) (*entity.Delivery, error) {
	d := &entity.Delivery{
		Code:         fmt.Sprintf("DLV-%s%04d", time.Now().Format("20060102"), time.Now().UnixNano()%10000),
		OrderRef:     req.OrderRef,
		CustomerName: req.CustomerName,
		Address:      req.Address,
		Status:       entity.DeliveryStatusPending,
		Notes:        req.Notes,
		CreatedBy:    userID,
	}
	if req.ScheduledDate != "" {
		t, err := time.Parse("2006-01-02", req.ScheduledDate)
		if err != nil {
			return nil, &ValidationError{Field: "scheduled_date", Reason: "must be YYYY-MM-DD"}
		}
		d.ScheduledDate = &t
	}
	if err := s.repo.CreateDelivery(d); err != nil {
		return nil, err
	}
	return d, nil
}

// AssignDriver puts a pending delivery on a driver's route.
func (s *DeliveryService) AssignDriver(deliveryID, driverID string) (*entity.Delivery, error) {
	d, err := s.GetDelivery(deliveryID)
	if err != nil {
		return nil, err
	}
	if d.Status != entity.DeliveryStatusPending && d.Status != entity.DeliveryStatusAssigned {
		return nil, &ConflictError{Reason: "delivery is already dispatched"}
	}
	driver, err := s.getDriver(driverID)
	if err != nil {
		return nil, err
	}
	if driver.Status == entity.DriverStatusInactive {
		return nil, &ConflictError{Reason: "driver is inactive"}
	}
	d.DriverID = &driver.ID
	d.Status = entity.DeliveryStatusAssigned
	if err := s.repo.SaveDelivery(d); err != nil {
		return nil, err
	}
	return d, nil
}

// UpdateStatus advances the delivery lifecycle:
// pending -> assigned -> in_transit -> delivered | failed.
func (s *DeliveryService) UpdateStatus(id, status string) (*entity.Delivery, error) {
	d, err := s.GetDelivery(id)
	if err != nil {
		return nil, err
	}
	allowed := map[string][]string{
		entity.DeliveryStatusPending:   {entity.DeliveryStatusAssigned},
		entity.DeliveryStatusAssigned:  {entity.DeliveryStatusInTransit},
		entity.DeliveryStatusInTransit: {entity.DeliveryStatusDelivered, entity.DeliveryStatusFailed},
	}
	ok := false
	for _, next := range allowed[d.Status] {
		if next == status {
			ok = true
			break
		}
	}
	if !ok {
		return nil, &ConflictError{Reason: fmt.Sprintf("cannot move delivery from %s to %s", d.Status, status)}
	}
	d.Status = status
	if status == entity.DeliveryStatusDelivered {
		now := time.Now()
		d.DeliveredAt = &now
	}
	if err := s.repo.SaveDelivery(d); err != nil {
		return nil, err
	}
	return d, nil
}

// UploadProof stores a proof-of-delivery file and records its object key.
func (s *DeliveryService) UploadProof(ctx context.Context, id string, reader io.Reader, size int64, filename, contentType string) (*entity.Delivery, error) {
	if s.minioClient == nil {
		return nil, &ConflictError{Reason: "object storage is not configured"}
	}
	d, err := s.GetDelivery(id)
	if err != nil {
		return nil, err
	}
	objectKey := fmt.Sprintf("pod/%s/%s%s", d.Code, uuid.New().String(), filepath.Ext(filename))
	_, err = s.minioClient.PutObject(ctx, s.bucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store proof of delivery: %w", err)
	}
	d.ProofObject = objectKey
	if err := s.repo.SaveDelivery(d); err != nil {
		return nil, err
	}
	return d, nil
}

// ProofURL returns a short-lived download link for the stored POD.
func (s *DeliveryService) ProofURL(ctx context.Context, id string) (string, error) {
	if s.minioClient == nil {
		return "", &ConflictError{Reason: "object storage is not configured"}
	}
	d, err := s.GetDelivery(id)
	if err != nil {
		return "", err
	}
	if d.ProofObject == "" {
		return "", &NotFoundError{Entity: "proof of delivery", ID: id}
	}
	u, err := s.minioClient.PresignedGetObject(ctx, s.bucket, d.ProofObject, 15*time.Minute, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign proof object: %w", err)
	}
	return u.String(), nil
}

func (s *DeliveryService) GetDelivery(id string) (*entity.Delivery, error) {
	d, err := s.repo.GetDelivery(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "delivery", ID: id}
		}
		return nil, err
	}
	return d, nil
}

func (s *DeliveryService) ListDeliveries(status, driverID string, page, size int) ([]entity.Delivery, int64, error) {
	return s.repo.ListDeliveries(status, driverID, page, size)
}
