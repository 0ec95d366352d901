package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"ylc-be-svc/internal/middleware"
	"ylc-be-svc/internal/service"
	"ylc-be-svc/internal/storage"
	"ylc-be-svc/pkg/logger"
)

// RouteDeps carries everything the routes are wired to
type RouteDeps struct {
	SubmissionService service.SubmissionService
	ExportService     service.ExportService
	QuoteService      service.QuoteService
	Store             storage.ImageStore
	DB                DatabasePinger
	Environment       string
	AdminToken        string
	Logger            *logger.Logger
}

// SetupRoutes sets up all routes
func SetupRoutes(router *gin.Engine, deps RouteDeps) {
	// Initialize handlers
	submissionHandler := NewSubmissionHandler(deps.SubmissionService, deps.Logger)
	healthHandler := NewHealthHandler(deps.DB, deps.Environment)
	uploadHandler := NewUploadHandler(deps.Store, deps.Logger)
	exportHandler := NewExportHandler(deps.ExportService, deps.Logger)
	quoteHandler := NewQuoteHandler(deps.QuoteService, deps.Logger)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", healthHandler.HealthCheck)
	router.POST("/submit", submissionHandler.Submit)
	router.GET("/uploads/:name", uploadHandler.ServeUpload)

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.HealthCheck)
		v1.POST("/submit", submissionHandler.Submit)

		admin := v1.Group("/admin", middleware.AdminAuth(deps.AdminToken))
		{
			admin.GET("/quotes/export", exportHandler.ExportQuotes)
			admin.GET("/quotes/:id", quoteHandler.GetQuote)
		}
	}
}
