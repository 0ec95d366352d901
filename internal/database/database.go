package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"ylc-be-svc/internal/config"
	"ylc-be-svc/internal/models"
	"ylc-be-svc/pkg/logger"
)

// Database owns the process wide connection pool
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the pool for the configured driver and verifies one connection.
// gorm output goes through log.
func NewDatabase(cfg *config.DatabaseConfig, log *logger.Logger) (*Database, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.GetDSN())
	case "mysql":
		dialector = mysql.Open(cfg.GetDSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: NewGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return newFromGorm(db, cfg)
}

// NewGormLogger adapts the shared logger for gorm: warnings, errors and slow queries only
func NewGormLogger(log *logger.Logger) gormlogger.Interface {
	return gormlogger.New(gormWriter{logger: log}, gormlogger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

type gormWriter struct {
	logger *logger.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.logger.WithField("component", "gorm").Warnf(format, args...)
}

// NewFromDialector wraps an arbitrary gorm dialector, used by tests with sqlite
func NewFromDialector(dialector gorm.Dialector, cfg *config.DatabaseConfig) (*Database, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newFromGorm(db, cfg)
}

func newFromGorm(db *gorm.DB, cfg *config.DatabaseConfig) (*Database, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// Requests beyond the bound wait for a free connection instead of failing
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, &ConnectionError{Condition: Classify(err), Err: err}
	}

	return &Database{DB: db}, nil
}

// AutoMigrate creates or updates the tables owned by this service
func (d *Database) AutoMigrate() error {
	return d.DB.AutoMigrate(&models.Quote{}, &models.NotificationLog{})
}

// Ping runs a trivial query against the pool
func (d *Database) Ping(ctx context.Context) error {
	return d.DB.WithContext(ctx).Exec("SELECT 1").Error
}

// Stats reports the pool usage counters
func (d *Database) Stats() (open, inUse, idle int, waitCount int64, err error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return 0, 0, 0, 0, err
	}
	s := sqlDB.Stats()
	return s.OpenConnections, s.InUse, s.Idle, s.WaitCount, nil
}

// Close releases every pooled connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
