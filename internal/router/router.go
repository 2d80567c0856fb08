package router

import (
	"database/sql"

	"poultry_nexus_backend/internal/handlers"
	"poultry_nexus_backend/internal/middleware"
	"poultry_nexus_backend/internal/repositories"
	"poultry_nexus_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Repositories
	authRepo := repositories.NewAuthRepository(db)
	uomRepo := repositories.NewUomRepository(db)
	dimensionRepo := repositories.NewDimensionRepository(db)
	productRepo := repositories.NewProductRepository(db)
	warehouseRepo := repositories.NewWarehouseRepository(db)
	stockRepo := repositories.NewStockRepository(db)
	bundleRepo := repositories.NewBundleRepository(db)

	// Services
	converter := services.NewQuantityConverter(uomRepo)
	authService := services.NewAuthService(authRepo, db)
	uomService := services.NewUomService(uomRepo, dimensionRepo, db)
	dimensionService := services.NewDimensionService(dimensionRepo, uomRepo, productRepo, db)
	productService := services.NewProductService(productRepo, uomRepo, db)
	warehouseService := services.NewWarehouseService(warehouseRepo, db)
	stockService := services.NewStockService(stockRepo, productRepo, warehouseRepo, uomRepo, dimensionRepo, converter, db)
	bundleService := services.NewBundleService(bundleRepo, productRepo, db)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	uomHandler := handlers.NewUomHandler(uomService, converter)
	dimensionHandler := handlers.NewDimensionHandler(dimensionService)
	productHandler := handlers.NewProductHandler(productService)
	warehouseHandler := handlers.NewWarehouseHandler(warehouseService)
	stockHandler := handlers.NewStockHandler(stockService)
	bundleHandler := handlers.NewBundleHandler(bundleService)

	apiV1 := engine.Group("/api/v1")

	SetupAuthRoutes(apiV1, authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupUomRoutes(authenticated, uomHandler)
		SetupDimensionRoutes(authenticated, dimensionHandler)
		SetupProductRoutes(authenticated, productHandler, dimensionHandler)
		SetupWarehouseRoutes(authenticated, warehouseHandler)
		SetupStockRoutes(authenticated, stockHandler)
		SetupBundleRoutes(authenticated, bundleHandler)
	}
}
