package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/repository"
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/service"
)

type InventoryHandler struct {
	svc    *service.InventoryService
	ledger *service.LedgerService
}

func NewInventoryHandler(svc *service.InventoryService, ledger *service.LedgerService) *InventoryHandler {
	return &InventoryHandler{svc: svc, ledger: ledger}
}

// --- Catalog ---

func (h *InventoryHandler) Create(c *gin.Context) {
	var req service.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	item, err := h.svc.Create(c.Request.Context(), req, c.GetString("user_id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, item)
}

func (h *InventoryHandler) Get(c *gin.Context) {
	item, err := h.svc.Get(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, item)
}

func (h *InventoryHandler) Update(c *gin.Context) {
	var req service.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	item, err := h.svc.Update(c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, item)
}

func (h *InventoryHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}

func (h *InventoryHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	params := repository.ItemListParams{
		WarehouseID: c.Query("warehouse_id"),
		SupplierID:  c.Query("supplier_id"),
		Category:    c.Query("category"),
		Status:      c.Query("status"),
		Keyword:     c.Query("keyword"),
		Page:        page,
		Size:        size,
	}
	items, total, err := h.svc.List(params)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"items": items, "total": total, "page": page, "size": size})
}

// --- Ledger operations ---

func (h *InventoryHandler) Receive(c *gin.Context) {
	var req service.ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.ledger.Receive(c.Request.Context(), req, c.GetString("user_id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

func (h *InventoryHandler) Issue(c *gin.Context) {
	var req service.IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.ledger.Issue(c.Request.Context(), req, c.GetString("user_id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req service.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.ledger.Adjust(c.Request.Context(), req, c.GetString("user_id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

func (h *InventoryHandler) Transfer(c *gin.Context) {
	var req service.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.ledger.Transfer(c.Request.Context(), req, c.GetString("user_id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

// --- Read side ---

func (h *InventoryHandler) Transactions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	params := repository.TransactionListParams{
		ItemID:          c.Query("item_id"),
		SKU:             c.Query("sku"),
		WarehouseID:     c.Query("warehouse_id"),
		TransactionType: c.Query("transaction_type"),
		Page:            page,
		Size:            size,
	}
	txs, total, err := h.svc.ListTransactions(params)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"items": txs, "total": total, "page": page, "size": size})
}

func (h *InventoryHandler) ReorderList(c *gin.Context) {
	items, err := h.svc.ReorderList()
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, items)
}
