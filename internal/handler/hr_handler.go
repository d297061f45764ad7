package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/service"
)

type HRHandler struct {
	svc *service.HRService
}

func NewHRHandler(svc *service.HRService) *HRHandler {
	return &HRHandler{svc: svc}
}

// --- Employees ---

func (h *HRHandler) CreateEmployee(c *gin.Context) {
	var req service.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	emp, err := h.svc.CreateEmployee(req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, emp)
}

func (h *HRHandler) UpdateEmployee(c *gin.Context) {
	var req service.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	emp, err := h.svc.UpdateEmployee(c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, emp)
}

func (h *HRHandler) GetEmployee(c *gin.Context) {
	emp, err := h.svc.GetEmployee(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, emp)
}

func (h *HRHandler) ListEmployees(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	emps, total, err := h.svc.ListEmployees(c.Query("department"), c.Query("status"), page, size)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"items": emps, "total": total, "page": page, "size": size})
}

// --- Attendance ---

func (h *HRHandler) CheckIn(c *gin.Context) {
	att, err := h.svc.CheckIn(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, att)
}

func (h *HRHandler) CheckOut(c *gin.Context) {
	att, err := h.svc.CheckOut(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, att)
}

func (h *HRHandler) ListAttendance(c *gin.Context) {
	atts, err := h.svc.ListAttendance(c.Query("employee_id"), c.Query("from"), c.Query("to"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, atts)
}

// --- Leave ---

func (h *HRHandler) RequestLeave(c *gin.Context) {
	var req service.LeaveRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	lr, err := h.svc.RequestLeave(req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, lr)
}

func (h *HRHandler) ReviewLeave(c *gin.Context) {
	var req struct {
		Decision string `json:"decision" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	lr, err := h.svc.ReviewLeave(c.Param("id"), req.Decision, c.GetString("user_id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, lr)
}

func (h *HRHandler) ListLeaves(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	lrs, total, err := h.svc.ListLeaves(c.Query("employee_id"), c.Query("status"), page, size)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"items": lrs, "total": total, "page": page, "size": size})
}

// --- Salary ---

func (h *HRHandler) GenerateSalary(c *gin.Context) {
	var req service.GenerateSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	rec, err := h.svc.GenerateSalary(req, c.GetString("user_id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, rec)
}

func (h *HRHandler) ListSalaries(c *gin.Context) {
	recs, err := h.svc.ListSalaries(c.Query("month"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, recs)
}
