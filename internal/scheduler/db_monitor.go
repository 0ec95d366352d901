package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"ylc-be-svc/internal/database"
	"ylc-be-svc/pkg/logger"
)

// Pinger is the part of the database handle the monitor needs
type Pinger interface {
	Ping(ctx context.Context) error
}

// DBMonitor periodically checks the connection pool and logs condition changes
type DBMonitor struct {
	db             Pinger
	logger         *logger.Logger
	cron           *cron.Cron
	cronExpression string
	timeout        time.Duration

	mu      sync.Mutex
	healthy bool
}

// NewDBMonitor creates a new database monitor
func NewDBMonitor(db Pinger, logger *logger.Logger, cronExpression string) *DBMonitor {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &DBMonitor{
		db:             db,
		logger:         logger,
		cron:           c,
		cronExpression: cronExpression,
		timeout:        5 * time.Second,
		healthy:        true,
	}
}

// Start schedules the check job
func (m *DBMonitor) Start() error {
	m.logger.WithField("cron_expression", m.cronExpression).Info("Scheduling database monitor")
	if _, err := m.cron.AddFunc(m.cronExpression, m.Check); err != nil {
		return fmt.Errorf("failed to schedule database monitor job: %w", err)
	}

	m.cron.Start()
	m.logger.Info("Database monitor started successfully")
	return nil
}

// Stop waits for a running check and stops the scheduler
func (m *DBMonitor) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.logger.Info("Database monitor stopped")
}

// isHealthy reports the outcome of the last check
func (m *DBMonitor) isHealthy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.healthy
}

// Check pings the pool once. Transitions are logged at warn/error, steady state at debug.
func (m *DBMonitor) Check() {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	err := m.db.Ping(ctx)

	m.mu.Lock()
	was := m.healthy
	m.healthy = err == nil
	m.mu.Unlock()

	if err != nil {
		condition := database.Classify(err)
		entry := m.logger.WithError(err).WithField("condition", condition)
		if was {
			entry.Error(condition.Describe())
		} else {
			entry.Warn("Database still unavailable")
		}
		return
	}

	if !was {
		m.logger.Info("Database connection restored")
		return
	}

	fields := map[string]interface{}{}
	if stats, ok := m.db.(interface {
		Stats() (int, int, int, int64, error)
	}); ok {
		if open, inUse, idle, waits, err := stats.Stats(); err == nil {
			fields["open"] = open
			fields["in_use"] = inUse
			fields["idle"] = idle
			fields["wait_count"] = waits
		}
	}
	m.logger.WithFields(fields).Debug("Database connection healthy")
}
