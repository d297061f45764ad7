package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/service"
)

type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, summary)
}

func (h *DashboardHandler) RecentTransactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	txs, err := h.svc.RecentTransactions(limit)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, txs)
}
