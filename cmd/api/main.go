package main

import (
	"fmt"
	"net/http"

	"folio/internal/config"
	"folio/internal/database"
	apperrors "folio/internal/errors"
	"folio/internal/handlers"
	"folio/internal/logger"
	"folio/internal/middleware"
	"folio/internal/oracle"
	"folio/internal/provider"
	"folio/internal/services"
	"folio/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "folio/internal/docs" // Import swagger docs
)

// @title           Folio API
// @version         1.0
// @description     Folio tracks a multi-currency investment portfolio: CSV imports, a transaction ledger, market data and EUR valuation.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description Static key guarding maintenance endpoints.

func main() {
	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Init(appConfig.Env, appConfig.LogLevel)
	defer logger.Sync()
	log := logger.Get()

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnw("Failed to close database", "error", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Register()

	router := newRouter(dbManager.DB(), appConfig)

	log.Infof("Starting Folio server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

// newRouter wires services, handlers and routes on top of db.
func newRouter(db *gorm.DB, appConfig *config.Config) *gin.Engine {
	quotes, rates := provider.Defaults(appConfig)

	platformService := services.NewPlatformService(db)
	assetService := services.NewAssetService(db)
	transactionService := services.NewTransactionService(db)
	priceService := services.NewPriceService(db)
	fxService := services.NewFxService(db)
	templateService := services.NewMappingTemplateService(db, appConfig.MappingCacheTTL)
	importService := services.NewImportService(db, templateService, rates)
	portfolioService := services.NewPortfolioService(db)
	adminService := services.NewAdminService(db)
	refresher := oracle.NewRefresher(assetService, priceService, fxService, quotes, rates, logger.Named("oracle"))

	platformHandler := handlers.NewPlatformHandler(platformService)
	assetHandler := handlers.NewAssetHandler(assetService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	priceHandler := handlers.NewPriceHandler(priceService)
	fxHandler := handlers.NewFxHandler(fxService)
	importHandler := handlers.NewImportHandler(importService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	marketDataHandler := handlers.NewMarketDataHandler(refresher)
	adminHandler := handlers.NewAdminHandler(adminService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+middleware.APIKeyHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperrors.ErrNotFound)
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	platforms := v1.Group("/platforms")
	platforms.POST("", platformHandler.CreatePlatform)
	platforms.GET("", platformHandler.ListPlatforms)
	platforms.GET("/:id", platformHandler.GetPlatform)
	platforms.PUT("/:id", platformHandler.RenamePlatform)
	platforms.DELETE("/:id", platformHandler.DeletePlatform)

	assets := v1.Group("/assets")
	assets.POST("", assetHandler.CreateAsset)
	assets.GET("", assetHandler.ListAssets)
	assets.GET("/:id", assetHandler.GetAsset)
	assets.PUT("/:id", assetHandler.UpdateAsset)
	assets.DELETE("/:id", assetHandler.DeleteAsset)
	assets.GET("/:id/prices", priceHandler.ListAssetPrices)

	transactions := v1.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	v1.POST("/prices", priceHandler.RecordPrices)
	v1.DELETE("/prices/:id", priceHandler.DeletePrice)

	fx := v1.Group("/fx")
	fx.POST("", fxHandler.RecordRate)
	fx.GET("", fxHandler.ListRates)
	fx.GET("/latest", fxHandler.LatestRate)
	fx.DELETE("/:id", fxHandler.DeleteRate)

	imports := v1.Group("/imports")
	imports.POST("/preview", importHandler.Preview)
	imports.POST("/commit", importHandler.Commit)

	v1.GET("/portfolio/summary", portfolioHandler.GetSummary)
	v1.GET("/portfolio/history", portfolioHandler.GetHistory)

	v1.POST("/market-data/refresh", marketDataHandler.Refresh)

	admin := v1.Group("/admin")
	admin.Use(middleware.APIKeyAuth(appConfig.AdminAPIKey))
	admin.POST("/reset", adminHandler.Reset)
	admin.POST("/seed", adminHandler.Seed)

	return router
}
