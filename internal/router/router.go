// internal/router/router.go
package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/config"
	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/handlers"
	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/middleware"
	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/services"
	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	// Initialize services
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	stockService := services.NewStockService()
	resolutionService := services.NewResolutionService()
	reconciliationService := services.NewReconciliationService(db, stockService, resolutionService)

	authService := services.NewAuthService(db, cfg)
	productService := services.NewProductService(db)
	bomService := services.NewBOMService(db)
	productionService := services.NewProductionService(db, reconciliationService)
	qualityCheckService := services.NewQualityCheckService(db, reconciliationService)
	gateEntryService := services.NewGateEntryService(db)
	supplierService := services.NewSupplierService(db)
	purchaseOrderService := services.NewPurchaseOrderService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	bomHandler := handlers.NewBOMHandler(bomService)
	productionHandler := handlers.NewProductionHandler(productionService, qualityCheckService)
	qualityCheckHandler := handlers.NewQualityCheckHandler(qualityCheckService, storageService)
	gateEntryHandler := handlers.NewGateEntryHandler(gateEntryService, storageService)
	supplierHandler := handlers.NewSupplierHandler(supplierService)
	purchaseOrderHandler := handlers.NewPurchaseOrderHandler(purchaseOrderService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	api := r.Group("/api")
	{
		// Authentication routes
		auth := api.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Everything below requires a valid token
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			products := protected.Group("/products")
			{
				products.POST("", productHandler.Create)
				products.GET("", productHandler.List)
				products.GET("/:id", productHandler.Get)
				products.PUT("/:id", productHandler.Update)
				products.DELETE("/:id", productHandler.Delete)
			}

			bom := protected.Group("/bom")
			{
				bom.POST("", bomHandler.Create)
				bom.GET("", bomHandler.List)
				bom.GET("/lookup", bomHandler.Lookup)
				bom.GET("/:id", bomHandler.Get)
				bom.PUT("/:id", bomHandler.Update)
				bom.DELETE("/:id", bomHandler.Delete)
			}

			production := protected.Group("/production")
			{
				production.POST("", productionHandler.Create)
				production.GET("", productionHandler.List)
				production.GET("/:id", productionHandler.Get)
				production.PUT("/:id", productionHandler.Update)
				production.PATCH("/:id/ready-for-qc", productionHandler.MarkReadyForQC)
				production.PATCH("/:id/approve", productionHandler.Approve)
				production.PATCH("/:id/reject", productionHandler.Reject)
				production.PATCH("/:id/finish", productionHandler.Finish)
				production.DELETE("/:id", productionHandler.Delete)
				production.DELETE("/qc-history/:id", productionHandler.DeleteQCHistory)
			}

			qualityCheck := protected.Group("/quality-check")
			{
				qualityCheck.GET("", qualityCheckHandler.List)
				qualityCheck.GET("/available", qualityCheckHandler.Available)
				qualityCheck.POST("", middleware.UploadRateLimit(), qualityCheckHandler.Create)
				qualityCheck.PUT("/:id", qualityCheckHandler.Update)
			}

			gateEntry := protected.Group("/gate-entry")
			{
				gateEntry.POST("", middleware.UploadRateLimit(), gateEntryHandler.Create)
				gateEntry.GET("", gateEntryHandler.List)
				gateEntry.GET("/:id", gateEntryHandler.Get)
				gateEntry.PATCH("/:id/verify", gateEntryHandler.Verify)
				gateEntry.PATCH("/:id/reject", gateEntryHandler.Reject)
			}

			suppliers := protected.Group("/suppliers")
			{
				suppliers.POST("", supplierHandler.Create)
				suppliers.GET("", supplierHandler.List)
				suppliers.GET("/:id", supplierHandler.Get)
				suppliers.PUT("/:id", supplierHandler.Update)
				suppliers.DELETE("/:id", supplierHandler.Delete)
			}

			purchaseOrders := protected.Group("/purchase-orders")
			{
				purchaseOrders.POST("", purchaseOrderHandler.Create)
				purchaseOrders.GET("", purchaseOrderHandler.List)
				purchaseOrders.GET("/:id", purchaseOrderHandler.Get)
				purchaseOrders.PATCH("/:id/cancel", purchaseOrderHandler.Cancel)
			}
		}
	}

	return r, nil
}
