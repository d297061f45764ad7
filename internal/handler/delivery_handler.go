package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/service"
)

type DeliveryHandler struct {
	svc *service.DeliveryService
}

func NewDeliveryHandler(svc *service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{svc: svc}
}

// --- Drivers ---

func (h *DeliveryHandler) CreateDriver(c *gin.Context) {
	var req service.DriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	d, err := h.svc.CreateDriver(req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, d)
}

func (h *DeliveryHandler) UpdateDriver(c *gin.Context) {
	var req service.DriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	d, err := h.svc.UpdateDriver(c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, d)
}

func (h *DeliveryHandler) ListDrivers(c *gin.Context) {
	drivers, err := h.svc.ListDrivers(c.Query("status"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, drivers)
}

// --- Deliveries ---

func (h *DeliveryHandler) Create(c *gin.Context) {
	var req service.DeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	d, err := h.svc.CreateDelivery(req, c.GetString("user_id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, d)
}

func (h *DeliveryHandler) Assign(c *gin.Context) {
	var req struct {
		DriverID string `json:"driver_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	d, err := h.svc.AssignDriver(c.Param("id"), req.DriverID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, d)
}

func (h *DeliveryHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	d, err := h.svc.UpdateStatus(c.Param("id"), req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, d)
}

// UploadProof accepts a multipart proof-of-delivery file.
func (h *DeliveryHandler) UploadProof(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		badRequest(c, err)
		return
	}
	defer file.Close()

	d, err := h.svc.UploadProof(
		c.Request.Context(),
		c.Param("id"),
		file,
		fileHeader.Size,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, d)
}

func (h *DeliveryHandler) ProofURL(c *gin.Context) {
	url, err := h.svc.ProofURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"url": url})
}

func (h *DeliveryHandler) Get(c *gin.Context) {
	d, err := h.svc.GetDelivery(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, d)
}

func (h *DeliveryHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	ds, total, err := h.svc.ListDeliveries(c.Query("status"), c.Query("driver_id"), page, size)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"items": ds, "total": total, "page": page, "size": size})
}
