package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"ylc-be-svc/docs"
	"ylc-be-svc/internal/config"
	"ylc-be-svc/internal/database"
	"ylc-be-svc/internal/handler"
	"ylc-be-svc/internal/mailer"
	"ylc-be-svc/internal/middleware"
	"ylc-be-svc/internal/repository"
	"ylc-be-svc/internal/scheduler"
	"ylc-be-svc/internal/service"
	"ylc-be-svc/internal/storage"
	"ylc-be-svc/pkg/logger"
)

// @title YLC Lead Capture API
// @version 1.0
// @description Lead submission backend: quote requests, image uploads and email notifications

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	appLogger.Info("Starting YLC lead capture service...")

	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingDatabaseCredentials) {
			appLogger.WithError(err).Error("Missing required database environment variables")
			appLogger.Error("Set DB_USER, DB_PASS and DB_NAME in the environment or in a .env file")
		}
		appLogger.WithError(err).Fatal("Invalid configuration")
	}

	// Initialize Swagger documentation
	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%s", cfg.Server.Port)
	docs.SwaggerInfo.Schemes = []string{"http"}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize database
	db, err := database.NewDatabase(&cfg.Database, appLogger)
	if err != nil {
		entry := appLogger.WithError(err).WithFields(map[string]interface{}{
			"host":     cfg.Database.Host,
			"user":     cfg.Database.User,
			"database": cfg.Database.DBName,
		})
		var connErr *database.ConnectionError
		if errors.As(err, &connErr) {
			entry = entry.WithField("condition", connErr.Condition)
			entry.Error(connErr.Condition.Describe())
		}
		entry.Fatal("Failed to connect to database")
	}
	appLogger.Info("Database connected successfully")

	// Run auto migration
	if err := db.AutoMigrate(); err != nil {
		appLogger.WithError(err).Fatal("Failed to run database migrations")
	}
	appLogger.Info("Database migrations completed successfully")

	// Initialize image storage
	store, err := newImageStore(cfg.Storage)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize image storage")
	}
	appLogger.WithField("backend", cfg.Storage.Backend).Info("Image storage ready")

	// Initialize repositories
	quoteRepo := repository.NewQuoteRepository(db.DB)
	notificationLogRepo := repository.NewNotificationLogRepository(db.DB)

	// Initialize services
	resendClient := mailer.NewResendClient(mailer.ResendConfig{
		APIKey:  cfg.Mail.APIKey,
		BaseURL: cfg.Mail.BaseURL,
		From:    cfg.Mail.From,
	}, appLogger)
	if cfg.Mail.APIKey == "" {
		appLogger.Warn("RESEND_API_KEY is not set, notifications will be recorded as failed")
	}

	codes := service.NewReferenceCodeGenerator(appLogger)
	composer := service.NewNotificationComposer(service.ComposerConfig{
		OperatorTo:   cfg.Mail.OperatorTo,
		ContactPhone: cfg.Mail.ContactPhone,
	}, store, codes, appLogger)
	dispatcher := service.NewNotificationDispatcher(resendClient, notificationLogRepo, appLogger)
	intake := service.NewFileIntake(store, appLogger)
	submissionService := service.NewSubmissionService(intake, quoteRepo, composer, dispatcher, service.SubmissionOptions{
		AsyncNotify: cfg.Mail.Async,
	}, appLogger)
	exportService := service.NewExportService(quoteRepo, appLogger)
	quoteService := service.NewQuoteService(quoteRepo, notificationLogRepo, appLogger)

	// Initialize database monitor
	monitor := scheduler.NewDBMonitor(db, appLogger, cfg.Scheduler.DBMonitorCronExpression)
	if err := monitor.Start(); err != nil {
		appLogger.WithError(err).Fatal("Failed to start database monitor")
	}

	// Initialize Gin router
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.MaxMultipartMemory = 8 << 20

	// Add middleware
	router.Use(middleware.CORS(cfg.CORS.OriginList()))
	router.Use(middleware.LoggerMiddleware(appLogger))
	router.Use(middleware.ErrorHandler(appLogger))
	router.NoRoute(middleware.NoRouteHandler(cfg.Server.FrontendDir))
	router.NoMethod(middleware.NoMethodHandler())

	// Setup routes
	handler.SetupRoutes(router, handler.RouteDeps{
		SubmissionService: submissionService,
		ExportService:     exportService,
		QuoteService:      quoteService,
		Store:             store,
		DB:                db,
		Environment:       cfg.Server.Environment,
		AdminToken:        cfg.Admin.Token,
		Logger:            appLogger,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		appLogger.WithField("port", cfg.Server.Port).Info("Server starting...")
		appLogger.WithField("swagger", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Server.Port)).Info("Swagger documentation available")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	appLogger.WithFields(map[string]interface{}{
		"port":        cfg.Server.Port,
		"environment": cfg.Server.Environment,
	}).Info("Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := server.Shutdown(ctx); err != nil {
		appLogger.WithError(err).Error("Server forced to shutdown")
	}

	// Let in-flight notifications finish
	if err := submissionService.Wait(ctx); err != nil {
		appLogger.WithError(err).Warn("Pending notifications abandoned")
	}

	monitor.Stop()

	// Close database connection
	if err := db.Close(); err != nil {
		appLogger.WithError(err).Error("Failed to close database connection")
	}

	appLogger.Info("Server exited successfully")
}

// newImageStore builds the configured upload backend
func newImageStore(cfg config.StorageConfig) (storage.ImageStore, error) {
	switch cfg.Backend {
	case "s3":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client, err := storage.NewS3Client(ctx, cfg.AWSRegion, cfg.AWSEndpoint)
		if err != nil {
			return nil, err
		}
		return storage.NewS3Store(client, cfg.S3Bucket, cfg.S3Prefix), nil
	case "local", "":
		local, err := storage.NewLocalStore(cfg.UploadDir)
		if err != nil {
			return nil, err
		}
		return local, nil
	default:
		return nil, fmt.Errorf("unsupported UPLOAD_STORAGE %q", cfg.Backend)
	}
}
