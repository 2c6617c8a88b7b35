package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "gstengine/docs" // swagger docs
	"gstengine/internal/handler"
	"gstengine/internal/middleware"
	"gstengine/pkg/logger"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	log *logger.Logger,
	allowedOrigins []string,
	classificationH *handler.ClassificationHandler,
	taxH *handler.TaxHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// API docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Classification catalog
	classifications := v1.Group("/classifications")
	classifications.GET("", classificationH.List)
	classifications.POST("", classificationH.Create)
	classifications.GET("/:code", classificationH.GetByCode)
	classifications.GET("/:code/children", classificationH.Children)
	classifications.GET("/:code/hierarchy", classificationH.Hierarchy)
	classifications.PUT("/:id", classificationH.Update)

	tax := v1.Group("/tax")

	// Composite configurations
	configurations := tax.Group("/configurations")
	configurations.GET("/resolve", taxH.ResolveConfiguration)
	configurations.GET("/export", taxH.ExportConfigurations)
	configurations.POST("", taxH.CreateConfiguration)
	configurations.POST("/materialize", taxH.MaterializeConfiguration)
	configurations.POST("/:id/supersede", taxH.SupersedeConfiguration)
	configurations.POST("/:id/expire", taxH.ExpireConfiguration)
	configurations.POST("/:id/deactivate", taxH.DeactivateConfiguration)

	// Per-component rates
	rates := tax.Group("/rates")
	rates.GET("/resolve", taxH.ResolveRate)
	rates.POST("", taxH.CreateRate)
	rates.POST("/:id/expire", taxH.ExpireRate)
	rates.POST("/:id/deactivate", taxH.DeactivateRate)

	// Calculation and diagnostics
	tax.POST("/calculate", taxH.Calculate)
	tax.POST("/calculate/bulk", taxH.CalculateBulk)
	tax.GET("/validation/:code", taxH.Validate)

	return r
}
