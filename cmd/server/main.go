package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/config"
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/entity"
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/handler"
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/middleware"
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/repository"
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting teafactory service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := entity.AutoMigrate(db); err != nil {
		zapLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	rdb := initRedis(cfg.Redis)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, rdb, cfg, zapLogger)
	handlers := handler.NewHandlers(services)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	registerRoutes(router, handlers, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/login", h.Auth.Login)

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			authorized.GET("/auth/me", h.Auth.Me)

			users := authorized.Group("/users")
			users.Use(middleware.RequireRole(entity.RoleAdmin))
			{
				users.GET("", h.Auth.ListUsers)
				users.POST("", h.Auth.CreateUser)
			}

			items := authorized.Group("/items")
			{
				items.GET("", h.Inventory.List)
				items.POST("", h.Inventory.Create)
				items.GET("/:id", h.Inventory.Get)
				items.PUT("/:id", h.Inventory.Update)
				items.DELETE("/:id", h.Inventory.Delete)
			}

			// Ledger operations. Stock never changes outside these.
			stock := authorized.Group("/stock")
			{
				stock.POST("/receive", h.Inventory.Receive)
				stock.POST("/issue", h.Inventory.Issue)
				stock.POST("/adjust", h.Inventory.Adjust)
				stock.POST("/transfer", h.Inventory.Transfer)
			}
			authorized.GET("/stock-transactions", h.Inventory.Transactions)
			authorized.GET("/reorder-list", h.Inventory.ReorderList)

			warehouses := authorized.Group("/warehouses")
			{
				warehouses.GET("", h.Warehouse.List)
				warehouses.POST("", h.Warehouse.Create)
				warehouses.GET("/:id", h.Warehouse.Get)
				warehouses.PUT("/:id", h.Warehouse.Update)
				warehouses.DELETE("/:id", h.Warehouse.Delete)
			}

			suppliers := authorized.Group("/suppliers")
			{
				suppliers.GET("", h.Supplier.List)
				suppliers.POST("", h.Supplier.Create)
				suppliers.GET("/:id", h.Supplier.Get)
				suppliers.PUT("/:id", h.Supplier.Update)
				suppliers.DELETE("/:id", h.Supplier.Delete)
			}

			purchases := authorized.Group("/purchase-orders")
			{
				purchases.GET("", h.Purchase.List)
				purchases.POST("", h.Purchase.Create)
				purchases.GET("/:id", h.Purchase.Get)
				purchases.POST("/:id/place", h.Purchase.Place)
				purchases.POST("/:id/cancel", h.Purchase.Cancel)
				purchases.POST("/:id/lines/:lineId/receive", h.Purchase.ReceiveLine)
			}

			drivers := authorized.Group("/drivers")
			{
				drivers.GET("", h.Delivery.ListDrivers)
				drivers.POST("", h.Delivery.CreateDriver)
				drivers.PUT("/:id", h.Delivery.UpdateDriver)
			}

			deliveries := authorized.Group("/deliveries")
			{
				deliveries.GET("", h.Delivery.List)
				deliveries.POST("", h.Delivery.Create)
				deliveries.GET("/:id", h.Delivery.Get)
				deliveries.POST("/:id/assign", h.Delivery.Assign)
				deliveries.PUT("/:id/status", h.Delivery.UpdateStatus)
				deliveries.POST("/:id/proof", h.Delivery.UploadProof)
				deliveries.GET("/:id/proof", h.Delivery.ProofURL)
			}

			employees := authorized.Group("/employees")
			{
				employees.GET("", h.HR.ListEmployees)
				employees.POST("", h.HR.CreateEmployee)
				employees.GET("/:id", h.HR.GetEmployee)
				employees.PUT("/:id", h.HR.UpdateEmployee)
				employees.POST("/:id/check-in", h.HR.CheckIn)
				employees.POST("/:id/check-out", h.HR.CheckOut)
			}
			authorized.GET("/attendance", h.HR.ListAttendance)

			leaves := authorized.Group("/leaves")
			{
				leaves.GET("", h.HR.ListLeaves)
				leaves.POST("", h.HR.RequestLeave)
				leaves.POST("/:id/review", middleware.RequireRole(entity.RoleAdmin, entity.RoleManager), h.HR.ReviewLeave)
			}

			salaries := authorized.Group("/salaries")
			salaries.Use(middleware.RequireRole(entity.RoleAdmin, entity.RoleManager))
			{
				salaries.GET("", h.HR.ListSalaries)
				salaries.POST("/generate", h.HR.GenerateSalary)
			}

			dashboard := authorized.Group("/dashboard")
			{
				dashboard.GET("/summary", h.Dashboard.Summary)
				dashboard.GET("/recent-transactions", h.Dashboard.RecentTransactions)
			}
		}
	}
}
