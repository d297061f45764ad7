package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/entity"
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/repository"
)

// Cache keys shared with the ledger, which deletes them after every mutation.
const (
	DashboardCacheKey = "dashboard:summary"
	ReorderCacheKey   = "inventory:reorder"
)

const dashboardCacheTTL = 60 * time.Second

// DashboardService aggregates read-only projections. Nothing here is
// authoritative: every figure is recomputed from ledger-owned state and the
// redis copy is just a refresh optimisation.
type DashboardService struct {
	invRepo      *repository.InventoryRepository
	whRepo       *repository.WarehouseRepository
	purchaseRepo *repository.PurchaseRepository
	deliveryRepo *repository.DeliveryRepository
	rdb          *redis.Client
}

func NewDashboardService(invRepo *repository.InventoryRepository, whRepo *repository.WarehouseRepository, purchaseRepo *repository.PurchaseRepository, deliveryRepo *repository.DeliveryRepository, rdb *redis.Client) *DashboardService {
	return &DashboardService{
		invRepo:      invRepo,
		whRepo:       whRepo,
		purchaseRepo: purchaseRepo,
		deliveryRepo: deliveryRepo,
		rdb:          rdb,
	}
}

type DashboardSummary struct {
	TotalItems         int64           `json:"total_items"`
	LowStockItems      int64           `json:"low_stock_items"`
	OutOfStockItems    int64           `json:"out_of_stock_items"`
	StockValue         decimal.Decimal `json:"stock_value"`
	TotalWarehouses    int             `json:"total_warehouses"`
	CapacityUsedPct    float64         `json:"capacity_used_pct"`
	OpenPurchaseOrders int64           `json:"open_purchase_orders"`
	PendingDeliveries  int64           `json:"pending_deliveries"`
	GeneratedAt        time.Time       `json:"generated_at"`
}

func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, DashboardCacheKey).Bytes(); err == nil {
			var summary DashboardSummary
			if json.Unmarshal(cached, &summary) == nil {
				return &summary, nil
			}
		}
	}

	summary, err := s.computeSummary()
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(summary); err == nil {
			s.rdb.Set(ctx, DashboardCacheKey, payload, dashboardCacheTTL)
		}
	}
	return summary, nil
}

func (s *DashboardService) computeSummary() (*DashboardSummary, error) {
	db := s.invRepo.DB()

	var summary DashboardSummary
	if err := db.Model(&entity.InventoryItem{}).Count(&summary.TotalItems).Error; err != nil {
		return nil, err
	}
	db.Model(&entity.InventoryItem{}).Where("status = ?", entity.ItemStatusLowStock).Count(&summary.LowStockItems)
	db.Model(&entity.InventoryItem{}).Where("status = ?", entity.ItemStatusOutOfStock).Count(&summary.OutOfStockItems)

	var valuation struct{ Total decimal.Decimal }
	if err := db.Raw(`
		SELECT COALESCE(SUM(current_stock * unit_cost), 0) AS total
		FROM inventory_items
	`).Scan(&valuation).Error; err != nil {
		return nil, err
	}
	summary.StockValue = valuation.Total

	warehouses, err := s.whRepo.List()
	if err != nil {
		return nil, err
	}
	summary.TotalWarehouses = len(warehouses)
	var capacity, used float64
	for _, wh := range warehouses {
		capacity += wh.Capacity
		used += wh.UsedCapacity
	}
	if capacity > 0 {
		summary.CapacityUsedPct = used / capacity * 100
	}

	if summary.OpenPurchaseOrders, err = s.purchaseRepo.CountOpen(); err != nil {
		return nil, err
	}
	if summary.PendingDeliveries, err = s.deliveryRepo.CountByStatus(entity.DeliveryStatusPending); err != nil {
		return nil, err
	}
	summary.GeneratedAt = time.Now()
	return &summary, nil
}

// RecentTransactions feeds the dashboard activity panel.
func (s *DashboardService) RecentTransactions(limit int) ([]entity.StockTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	txs, _, err := s.invRepo.ListTransactions(repository.TransactionListParams{Page: 1, Size: limit})
	return txs, err
}
