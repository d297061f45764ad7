package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/service"
)

type PurchaseHandler struct {
	svc *service.PurchaseService
}

func NewPurchaseHandler(svc *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{svc: svc}
}

func (h *PurchaseHandler) Create(c *gin.Context) {
	var req service.CreatePORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	po, err := h.svc.Create(req, c.GetString("user_id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, po)
}

func (h *PurchaseHandler) Place(c *gin.Context) {
	po, err := h.svc.Place(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, po)
}

func (h *PurchaseHandler) Cancel(c *gin.Context) {
	po, err := h.svc.Cancel(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, po)
}

// ReceiveLine books goods against one PO line and returns both the refreshed
// order and the ledger movement it produced.
func (h *PurchaseHandler) ReceiveLine(c *gin.Context) {
	var req service.ReceiveLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	po, movement, err := h.svc.ReceiveLine(c.Request.Context(), c.Param("id"), c.Param("lineId"), req, c.GetString("user_id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"purchase_order": po, "movement": movement})
}

func (h *PurchaseHandler) Get(c *gin.Context) {
	po, err := h.svc.Get(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, po)
}

func (h *PurchaseHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	pos, total, err := h.svc.List(c.Query("status"), c.Query("supplier_id"), page, size)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"items": pos, "total": total, "page": page, "size": size})
}
