package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/service"
)

type SupplierHandler struct {
	svc *service.SupplierService
}

func NewSupplierHandler(svc *service.SupplierService) *SupplierHandler {
	return &SupplierHandler{svc: svc}
}

func (h *SupplierHandler) Create(c *gin.Context) {
	var req service.SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	sup, err := h.svc.Create(req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, sup)
}

func (h *SupplierHandler) Update(c *gin.Context) {
	var req service.SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	sup, err := h.svc.Update(c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, sup)
}

func (h *SupplierHandler) Get(c *gin.Context) {
	sup, err := h.svc.Get(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, sup)
}

func (h *SupplierHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}

func (h *SupplierHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	sups, total, err := h.svc.List(c.Query("status"), c.Query("keyword"), page, size)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"items": sups, "total": total, "page": page, "size": size})
}
