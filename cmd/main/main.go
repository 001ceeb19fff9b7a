package main

import (
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"inventory-automation-service/internal/clients/billbook"
	"inventory-automation-service/internal/config"
	"inventory-automation-service/internal/events"
	"inventory-automation-service/internal/export"
	"inventory-automation-service/internal/handlers"
	"inventory-automation-service/internal/middleware"
	"inventory-automation-service/internal/models"
	"inventory-automation-service/internal/pipeline"
	"inventory-automation-service/internal/repository"
	"inventory-automation-service/internal/store"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate models
	if err := db.AutoMigrate(
		&models.CatalogItem{},
		&models.SalesInvoice{},
		&models.Expense{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize logrus logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Initialize NATS event publisher (optional - graceful degradation if NATS unavailable)
	var eventPublisher *events.PipelineEventPublisher
	if cfg.NATSURL != "" {
		eventPublisher, err = events.NewPipelineEventPublisher(cfg.NATSURL, logger)
		if err != nil {
			log.Printf("Warning: Failed to initialize NATS event publisher: %v", err)
			log.Println("Continuing without event publishing...")
		} else {
			log.Println("✓ Connected to NATS JetStream for event publishing")
			defer eventPublisher.Close()
		}
	} else {
		log.Println("NATS_URL not configured, event publishing disabled")
	}

	// Billing API client
	client := billbook.NewClient(billbook.Config{
		BaseURL:         cfg.BillingBaseURL,
		AuthToken:       cfg.BillingAuthToken,
		CompanyID:       cfg.BillingCompanyID,
		ItemPageSize:    cfg.BillingPageSize,
		VoucherPageSize: cfg.VoucherPageSize,
	}, logger)
	if !client.HasCredentials() {
		log.Println("Warning: billing API credentials not configured, sync will fail until BILLING_AUTH_TOKEN and BILLING_COMPANY_ID are set")
	}

	// Collaborators
	workbook := store.NewWorkbookStore(cfg.WorkbookPath)
	mirrorRepo := repository.NewMirrorRepository(db)
	backups := export.NewBackups(cfg.ExportBaseDir, logger)

	var sink pipeline.EventSink
	if eventPublisher != nil {
		sink = eventPublisher
	}

	// Pipeline service
	pipe := pipeline.New(
		workbook,
		client,
		mirrorRepo,
		backups,
		sink,
		rand.New(rand.NewSource(time.Now().UnixNano())),
		pipeline.Tables{
			Raw:          cfg.RawTable,
			Consolidated: cfg.Consolidated,
			Catalog:      cfg.CatalogTable,
			Add:          cfg.AddTable,
			Update:       cfg.UpdateTable,
			Labels:       cfg.LabelsTable,
			Invoices:     cfg.InvoicesTable,
			Expenses:     cfg.ExpensesTable,
		},
		logger,
	)

	// Initialize handlers
	pipelineHandler := handlers.NewPipelineHandler(pipe, cfg.AutoExport)
	catalogHandler := handlers.NewCatalogHandler(mirrorRepo, cfg.DefaultPageSize, cfg.MaxPageSize)
	exportHandler := handlers.NewExportHandler(backups)
	readiness := handlers.NewReadinessHandler(db, client)

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Health check endpoints
	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", readiness.Ready)

	// API routes
	api := router.Group("/api/v1")

	pipelineRoutes := api.Group("/pipeline")
	{
		pipelineRoutes.POST("/sync", pipelineHandler.Sync)
		pipelineRoutes.POST("/consolidate", pipelineHandler.Consolidate)
		pipelineRoutes.POST("/export", pipelineHandler.Export)
		pipelineRoutes.POST("/run", pipelineHandler.RunAll)
	}

	api.POST("/labels", pipelineHandler.BuildLabels)
	api.GET("/catalog", catalogHandler.ListCatalog)

	exports := api.Group("/exports")
	{
		exports.GET("", exportHandler.ListExports)
		exports.GET("/:type/:name", exportHandler.DownloadExport)
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Inventory automation service starting on port %s", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	<-quit
	log.Println("Shutting down inventory-automation-service...")
	log.Println("Inventory automation service stopped")
}
