package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/entity"
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/repository"
)

// PurchaseService drives the PO lifecycle. Receiving a line is the only path
// that touches stock, and it does so through the ledger.
type PurchaseService struct {
	repo         *repository.PurchaseRepository
	supplierRepo *repository.SupplierRepository
	invRepo      *repository.InventoryRepository
	ledger       *LedgerService
}

func NewPurchaseService(repo *repository.PurchaseRepository, supplierRepo *repository.SupplierRepository, invRepo *repository.InventoryRepository, ledger *LedgerService) *PurchaseService {
	return &PurchaseService{repo: repo, supplierRepo: supplierRepo, invRepo: invRepo, ledger: ledger}
}

type CreatePOLine struct {
	ItemID    string  `json:"item_id" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"required,gt=0"`
	UnitPrice string  `json:"unit_price" binding:"required"`
}

type CreatePORequest struct {
	SupplierID   string         `json:"supplier_id" binding:"required"`
	ExpectedDate string         `json:"expected_date"` // YYYY-MM-DD
	Currency     string         `json:"currency"`
	Notes        string         `json:"notes"`
	Lines        []CreatePOLine `json:"lines" binding:"required,min=1"`
}

func (s *PurchaseService) Create(req CreatePORequest, userID string) (*entity.PurchaseOrder, error) {
	if _, err := s.supplierRepo.GetByID(req.SupplierID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "supplier", ID: req.SupplierID}
		}
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "LKR"
	}
	po := &entity.PurchaseOrder{
		POCode:     fmt.Sprintf("PO-%s%04d", time.Now().Format("20060102"), time.Now().UnixNano()%10000),
		SupplierID: req.SupplierID,
		Status:     entity.POStatusDraft,
		Currency:   currency,
		Notes:      req.Notes,
		CreatedBy:  userID,
	}
	if req.ExpectedDate != "" {
		t, err := time.Parse("2006-01-02", req.ExpectedDate)
		if err != nil {
			return nil, &ValidationError{Field: "expected_date", Reason: "must be YYYY-MM-DD"}
		}
		po.ExpectedDate = &t
	}

	total := decimal.Zero
	for _, l := range req.Lines {
		item, err := s.invRepo.GetByID(l.ItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Entity: "item", ID: l.ItemID}
			}
			return nil, err
		}
		price, err := parseMoney(l.UnitPrice, "unit_price")
		if err != nil {
			return nil, err
		}
		amount := price.Mul(decimal.NewFromFloat(l.Quantity)).Round(2)
		po.Lines = append(po.Lines, entity.POLine{
			ItemID:    item.ID,
			SKU:       item.SKU,
			ItemName:  item.Name,
			Quantity:  l.Quantity,
			Unit:      item.Unit,
			UnitPrice: price,
			Amount:    amount,
			Status:    entity.POLineStatusOpen,
		})
		total = total.Add(amount)
	}
	po.TotalAmount = total

	if err := s.repo.Create(po); err != nil {
		return nil, err
	}
	return po, nil
}

// Place moves a draft PO to ordered.
func (s *PurchaseService) Place(id string) (*entity.PurchaseOrder, error) {
	po, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if po.Status != entity.POStatusDraft {
		return nil, &ConflictError{Reason: "only draft purchase orders can be placed"}
	}
	now := time.Now()
	po.Status = entity.POStatusOrdered
	po.OrderDate = &now
	if err := s.repo.Save(po); err != nil {
		return nil, err
	}
	return po, nil
}

func (s *PurchaseService) Cancel(id string) (*entity.PurchaseOrder, error) {
	po, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if po.Status == entity.POStatusReceived || po.Status == entity.POStatusCancelled {
		return nil, &ConflictError{Reason: "purchase order is already closed"}
	}
	po.Status = entity.POStatusCancelled
	if err := s.repo.Save(po); err != nil {
		return nil, err
	}
	return po, nil
}

type ReceiveLineRequest struct {
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
	Notes    string  `json:"notes"`
}

// ReceiveLine books received goods against a PO line: posts a ledger receive
// for the line's item, advances the line and derives the PO status from its
// lines.
func (s *PurchaseService) ReceiveLine(ctx context.Context, poID, lineID string, req ReceiveLineRequest, userID string) (*entity.PurchaseOrder, *LedgerResult, error) {
	po, err := s.Get(poID)
	if err != nil {
		return nil, nil, err
	}
	if po.Status != entity.POStatusOrdered && po.Status != entity.POStatusPartiallyReceived {
		return nil, nil, &ConflictError{Reason: "purchase order is not open for receiving"}
	}
	// The line row stays locked from the outstanding check until the
	// increment lands, so two concurrent receives cannot both pass the
	// check and overshoot the ordered quantity.
	var res *LedgerResult
	err = s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		line, err := s.repo.GetLineForUpdate(tx, poID, lineID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "purchase order line", ID: lineID}
			}
			return err
		}
		outstanding := line.Quantity - line.ReceivedQty
		if req.Quantity > outstanding {
			return &ValidationError{Field: "quantity", Reason: fmt.Sprintf("exceeds outstanding %.4f", outstanding)}
		}

		r, err := s.ledger.Receive(ctx, ReceiveRequest{
			ItemID:        line.ItemID,
			Quantity:      req.Quantity,
			ReferenceType: "PO",
			ReferenceID:   po.POCode,
			Notes:         req.Notes,
		}, userID)
		if err != nil {
			return err
		}
		res = r

		line.ReceivedQty += req.Quantity
		if line.ReceivedQty >= line.Quantity {
			line.Status = entity.POLineStatusReceived
		} else {
			line.Status = entity.POLineStatusPartial
		}
		return s.repo.SaveLine(tx, line)
	})
	if err != nil {
		return nil, nil, err
	}

	po, err = s.Get(poID)
	if err != nil {
		return nil, nil, err
	}
	allReceived := true
	for _, l := range po.Lines {
		if l.Status != entity.POLineStatusReceived {
			allReceived = false
			break
		}
	}
	if allReceived {
		now := time.Now()
		po.Status = entity.POStatusReceived
		po.ReceivedDate = &now
	} else {
		po.Status = entity.POStatusPartiallyReceived
	}
	if err := s.repo.Save(po); err != nil {
		return nil, nil, err
	}
	return po, res, nil
}

func (s *PurchaseService) Get(id string) (*entity.PurchaseOrder, error) {
	po, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "purchase order", ID: id}
		}
		return nil, err
	}
	return po, nil
}

func (s *PurchaseService) List(status, supplierID string, page, size int) ([]entity.PurchaseOrder, int64, error) {
	return s.repo.List(status, supplierID, page, size)
}
