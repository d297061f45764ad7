package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/service"
)

// Handlers bundles the HTTP handlers.
type Handlers struct {
	Auth      *AuthHandler
	Inventory *InventoryHandler
	Warehouse *WarehouseHandler
	Supplier  *SupplierHandler
	Purchase  *PurchaseHandler
	Delivery  *DeliveryHandler
	HR        *HRHandler
	Dashboard *DashboardHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:      NewAuthHandler(services.Auth),
		Inventory: NewInventoryHandler(services.Inventory, services.Ledger),
		Warehouse: NewWarehouseHandler(services.Warehouse),
		Supplier:  NewSupplierHandler(services.Supplier),
		Purchase:  NewPurchaseHandler(services.Purchase),
		Delivery:  NewDeliveryHandler(services.Delivery),
		HR:        NewHRHandler(services.HR),
		Dashboard: NewDashboardHandler(services.Dashboard),
	}
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": data})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
}

// fail maps service errors onto HTTP responses. Ledger rejections are client
// errors; anything unrecognised is a 500.
func fail(c *gin.Context, err error) {
	var nf *service.NotFoundError
	var ve *service.ValidationError
	var is *service.InsufficientStockError
	var ce *service.CapacityExceededError
	var cf *service.ConflictError

	switch {
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": err.Error()})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
	case errors.As(err, &is):
		c.JSON(http.StatusConflict, gin.H{"code": 20001, "message": err.Error()})
	case errors.As(err, &ce):
		c.JSON(http.StatusConflict, gin.H{"code": 20002, "message": err.Error()})
	case errors.As(err, &cf):
		c.JSON(http.StatusConflict, gin.H{"code": 20003, "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
	}
}
