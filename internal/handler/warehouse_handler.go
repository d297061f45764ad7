package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/service"
)

type WarehouseHandler struct {
	svc *service.WarehouseService
}

func NewWarehouseHandler(svc *service.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{svc: svc}
}

func (h *WarehouseHandler) Create(c *gin.Context) {
	var req service.WarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	wh, err := h.svc.Create(req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, wh)
}

func (h *WarehouseHandler) Update(c *gin.Context) {
	var req service.WarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	wh, err := h.svc.Update(c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, wh)
}

func (h *WarehouseHandler) Get(c *gin.Context) {
	wh, err := h.svc.Get(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, wh)
}

func (h *WarehouseHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}

func (h *WarehouseHandler) List(c *gin.Context) {
	whs, err := h.svc.List()
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, whs)
}
