package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/config"
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/repository"
)

// Services bundles the application services.
type Services struct {
	Auth      *AuthService
	Ledger    *LedgerService
	Inventory *InventoryService
	Warehouse *WarehouseService
	Supplier  *SupplierService
	Purchase  *PurchaseService
	Delivery  *DeliveryService
	HR        *HRService
	Dashboard *DashboardService
}

func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Services {
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			logger.Warn("object storage unavailable, POD uploads disabled", zap.Error(err))
			minioClient = nil
		}
	}

	ledger := NewLedgerService(repos.Inventory, repos.Warehouse, rdb, logger)

	return &Services{
		Auth:      NewAuthService(repos.User, cfg),
		Ledger:    ledger,
		Inventory: NewInventoryService(repos.Inventory, repos.Warehouse, ledger),
		Warehouse: NewWarehouseService(repos.Warehouse),
		Supplier:  NewSupplierService(repos.Supplier),
		Purchase:  NewPurchaseService(repos.Purchase, repos.Supplier, repos.Inventory, ledger),
		Delivery:  NewDeliveryService(repos.Delivery, minioClient, cfg.MinIO.Bucket),
		HR:        NewHRService(repos.HR),
		Dashboard: NewDashboardService(repos.Inventory, repos.Warehouse, repos.Purchase, repos.Delivery, rdb),
	}
}
