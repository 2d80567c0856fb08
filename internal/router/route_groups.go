package router

import (
	"poultry_nexus_backend/internal/handlers"
	"poultry_nexus_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the authentication routes.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.RegisterUser)
		authRoutes.POST("/login", authHandler.LoginUser)

		authRequiredRoutes := authRoutes.Group("")
		authRequiredRoutes.Use(middleware.AuthMiddleware())
		{
			authRequiredRoutes.POST("/logout", authHandler.LogoutUser)
			authRequiredRoutes.GET("/me", authHandler.GetCurrentUser)
		}
	}
}

// SetupUomRoutes sets up the unit group, unit and conversion routes.
func SetupUomRoutes(authenticatedGroup *gin.RouterGroup, uomHandler *handlers.UomHandler) {
	groupRoutes := authenticatedGroup.Group("/uom-groups")
	groupRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		groupRoutes.POST("", uomHandler.CreateGroup)
		groupRoutes.GET("", uomHandler.GetGroups)
		groupRoutes.GET("/:id", uomHandler.GetGroupByID)
		groupRoutes.GET("/:id/units", uomHandler.GetUnitsInGroup)
		groupRoutes.PUT("/:id", uomHandler.UpdateGroup)
		groupRoutes.DELETE("/:id", uomHandler.DeleteGroup)
	}

	unitRoutes := authenticatedGroup.Group("/uom-units")
	unitRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		unitRoutes.POST("", uomHandler.CreateUnit)
		unitRoutes.GET("/:id", uomHandler.GetUnitByID)
		unitRoutes.PUT("/:id", uomHandler.UpdateUnit)
		unitRoutes.DELETE("/:id", uomHandler.DeleteUnit)
		unitRoutes.POST("/convert", uomHandler.ConvertQuantity)
	}
}

// SetupDimensionRoutes sets up the dimension registry routes.
func SetupDimensionRoutes(authenticatedGroup *gin.RouterGroup, dimensionHandler *handlers.DimensionHandler) {
	dimensionRoutes := authenticatedGroup.Group("/dimensions")
	dimensionRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		dimensionRoutes.POST("", dimensionHandler.CreateDimension)
		dimensionRoutes.GET("", dimensionHandler.GetDimensions)
		dimensionRoutes.GET("/:id", dimensionHandler.GetDimensionByID)
		dimensionRoutes.PUT("/:id", dimensionHandler.UpdateDimension)
		dimensionRoutes.DELETE("/:id", dimensionHandler.DeleteDimension)
	}

	byGroupRoutes := authenticatedGroup.Group("/uom-groups/:id/dimensions")
	byGroupRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		byGroupRoutes.GET("", dimensionHandler.GetDimensionsByUomGroup)
	}
}

// SetupProductRoutes sets up the product catalog routes, including dimension
// attachments.
func SetupProductRoutes(authenticatedGroup *gin.RouterGroup, productHandler *handlers.ProductHandler, dimensionHandler *handlers.DimensionHandler) {
	productRoutes := authenticatedGroup.Group("/products")
	productRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		productRoutes.POST("", productHandler.CreateProduct)
		productRoutes.GET("", productHandler.GetProducts)
		productRoutes.GET("/:id", productHandler.GetProductByID)
		productRoutes.PUT("/:id", productHandler.UpdateProduct)
		productRoutes.DELETE("/:id", productHandler.DeleteProduct)

		productRoutes.GET("/:id/dimensions", dimensionHandler.GetDimensionsByProduct)
		productRoutes.POST("/:id/dimensions/:dimension_id", dimensionHandler.AttachToProduct)
		productRoutes.DELETE("/:id/dimensions/:dimension_id", dimensionHandler.DetachFromProduct)
	}
}

// SetupWarehouseRoutes sets up the warehouse routes.
func SetupWarehouseRoutes(authenticatedGroup *gin.RouterGroup, warehouseHandler *handlers.WarehouseHandler) {
	warehouseRoutes := authenticatedGroup.Group("/warehouses")
	warehouseRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		warehouseRoutes.POST("", warehouseHandler.CreateWarehouse)
		warehouseRoutes.GET("", warehouseHandler.GetWarehouses)
		warehouseRoutes.GET("/:id", warehouseHandler.GetWarehouseByID)
		warehouseRoutes.PUT("/:id", warehouseHandler.UpdateWarehouse)
		warehouseRoutes.DELETE("/:id", warehouseHandler.DeleteWarehouse)
	}
}

// SetupStockRoutes sets up stock item, movement and level routes.
func SetupStockRoutes(authenticatedGroup *gin.RouterGroup, stockHandler *handlers.StockHandler) {
	stockRoutes := authenticatedGroup.Group("/stock")
	stockRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		stockRoutes.POST("/items", stockHandler.CreateEntry)
		stockRoutes.GET("/items", stockHandler.GetItems)
		stockRoutes.GET("/items/:id", stockHandler.GetItemByID)
		stockRoutes.POST("/items/:id/issue", stockHandler.IssueStock)
		stockRoutes.POST("/items/:id/transfer", stockHandler.TransferStock)
		stockRoutes.POST("/items/:id/adjust", stockHandler.AdjustStock)
		stockRoutes.POST("/items/:id/count", stockHandler.StockCount)

		stockRoutes.GET("/movements", stockHandler.GetMovements)
		stockRoutes.GET("/levels", stockHandler.GetStockLevel)
	}
}

// SetupBundleRoutes sets up the product bundle routes.
func SetupBundleRoutes(authenticatedGroup *gin.RouterGroup, bundleHandler *handlers.BundleHandler) {
	bundleRoutes := authenticatedGroup.Group("/product-bundles")
	bundleRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		bundleRoutes.POST("", bundleHandler.CreateBundle)
		bundleRoutes.GET("", bundleHandler.GetBundles)
		bundleRoutes.GET("/:id", bundleHandler.GetBundleByID)
		bundleRoutes.PUT("/:id", bundleHandler.UpdateBundle)
		bundleRoutes.DELETE("/:id", bundleHandler.DeleteBundle)
		bundleRoutes.POST("/:id/evaluate", bundleHandler.EvaluateBundle)
	}
}
