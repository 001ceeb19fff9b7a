package config

import (
	"fmt"
	"os"
	"strconv"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Server
	Port        string
	Environment string

	// Billing API
	BillingBaseURL   string
	BillingAuthToken string
	BillingCompanyID string
	BillingPageSize  int
	VoucherPageSize  int

	// Workbook (tabular store)
	WorkbookPath  string
	RawTable      string
	Consolidated  string
	CatalogTable  string
	AddTable      string
	UpdateTable   string
	LabelsTable   string
	InvoicesTable string
	ExpensesTable string

	// CSV backups
	ExportBaseDir string
	AutoExport    bool

	// NATS
	NATSURL string

	// Pagination
	DefaultPageSize int
	MaxPageSize     int
}

func Load() *Config {
	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	billingPageSize, _ := strconv.Atoi(getEnv("BILLING_PAGE_SIZE", "500"))
	voucherPageSize, _ := strconv.Atoi(getEnv("BILLING_VOUCHER_PAGE_SIZE", "15"))
	defaultPageSize, _ := strconv.Atoi(getEnv("DEFAULT_PAGE_SIZE", "20"))
	maxPageSize, _ := strconv.Atoi(getEnv("MAX_PAGE_SIZE", "100"))
	autoExport, _ := strconv.ParseBool(getEnv("AUTO_EXPORT_CSV", "false"))

	return &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     dbPort,
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "inventory_automation_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Server
		Port:        getEnv("PORT", "8090"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Billing API
		BillingBaseURL:   getEnv("BILLING_API_BASE_URL", "https://mybillbook.in/api/web"),
		BillingAuthToken: getEnv("BILLING_AUTH_TOKEN", ""),
		BillingCompanyID: getEnv("BILLING_COMPANY_ID", ""),
		BillingPageSize:  billingPageSize,
		VoucherPageSize:  voucherPageSize,

		// Workbook tables
		WorkbookPath:  getEnv("WORKBOOK_PATH", "data/inventory.xlsx"),
		RawTable:      getEnv("TABLE_RAW", "Inventory RAW"),
		Consolidated:  getEnv("TABLE_CONSOLIDATED", "Inventory"),
		CatalogTable:  getEnv("TABLE_CATALOG", "Billing Current Inventory"),
		AddTable:      getEnv("TABLE_ADD", "Import Add"),
		UpdateTable:   getEnv("TABLE_UPDATE", "Import Update"),
		LabelsTable:   getEnv("TABLE_LABELS", "Labels"),
		InvoicesTable: getEnv("TABLE_INVOICES", "Sales Invoices"),
		ExpensesTable: getEnv("TABLE_EXPENSES", "Expenses"),

		// CSV backups
		ExportBaseDir: getEnv("CSV_EXPORT_DIR", "csv_exports"),
		AutoExport:    autoExport,

		// NATS
		NATSURL: getEnv("NATS_URL", ""),

		// Pagination
		DefaultPageSize: defaultPageSize,
		MaxPageSize:     maxPageSize,
	}
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
