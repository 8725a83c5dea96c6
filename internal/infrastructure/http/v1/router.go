// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"bintrack/internal/domain/catalogs/bin"
	"bintrack/internal/domain/catalogs/item"
	"bintrack/internal/domain/history"
	"bintrack/internal/domain/ledger"
	"bintrack/internal/domain/reports"
	"bintrack/internal/infrastructure/export"
	"bintrack/internal/infrastructure/http/v1/handlers"
	"bintrack/internal/infrastructure/http/v1/middleware"
	"bintrack/internal/infrastructure/storage/postgres"
	"bintrack/pkg/logger"
)

// RouterConfig holds everything the router wires together.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	Bins    *bin.Service
	Items   *item.Service
	Ledger  *ledger.Service
	Reports *reports.Service
	History *history.Service

	Exporter *export.Exporter

	CORSAllowOrigins []string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.CORS(cfg.CORSAllowOrigins))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	catalogHandler := handlers.NewCatalogHandler(cfg.Bins, cfg.Items)
	inventoryHandler := handlers.NewInventoryHandler(cfg.Ledger, cfg.Reports)
	logsHandler := handlers.NewLogsHandler(cfg.History)
	exportHandler := handlers.NewExportHandler(cfg.Exporter)

	api := router.Group("/api")
	{
		api.GET("/bins", catalogHandler.SearchBins)
		api.GET("/items", catalogHandler.SearchItems)

		api.POST("/inventory", inventoryHandler.AddPlacement)
		api.GET("/inventory/item/:item_code", inventoryHandler.ByItem)
		api.GET("/inventory/bin/:bin_code", inventoryHandler.ByBin)
		api.GET("/inventory/locations/:item_code", inventoryHandler.Locations)
		api.GET("/inventory/BT/:bt", inventoryHandler.ByBatchTag)
		api.GET("/inventory/PO/:po", inventoryHandler.ByCustomerPO)

		api.GET("/BTs", inventoryHandler.BatchTags)
		api.GET("/POs", inventoryHandler.CustomerPOs)

		api.DELETE("/inventory/bin/:bin_code/clear", inventoryHandler.ClearBin)
		api.DELETE("/inventory/bin/:bin_code/item/:item_code/clear", inventoryHandler.ClearItemAtBin)

		api.GET("/logs", logsHandler.List)

		api.GET("/export/items", exportHandler.Items)
		api.GET("/export/bins", exportHandler.Bins)
		api.GET("/export/history", exportHandler.History)
	}

	return router
}
