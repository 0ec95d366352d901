package database

import (
	"bytes"
	"context"
	"encoding/json"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/sqlite"

	"ylc-be-svc/internal/config"
	"ylc-be-svc/pkg/logger"
)

func TestClassify(t *testing.T) {
	refused := &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}
	reset := &net.OpError{Op: "read", Net: "tcp", Err: os.NewSyscallError("read", syscall.ECONNRESET)}

	tests := []struct {
		name string
		err  error
		want Condition
	}{
		{"nil", nil, ConditionUnknown},
		{"mysql too many", &mysqldriver.MySQLError{Number: 1040, Message: "Too many connections"}, ConditionTooManyConnections},
		{"mysql other", &mysqldriver.MySQLError{Number: 1045, Message: "Access denied"}, ConditionUnknown},
		{"postgres too many", &pgconn.PgError{Code: "53300"}, ConditionTooManyConnections},
		{"refused", refused, ConditionRefused},
		{"wrapped refused", fmt.Errorf("ping: %w", refused), ConditionRefused},
		{"reset", reset, ConditionConnectionLost},
		{"invalid conn", mysqldriver.ErrInvalidConn, ConditionConnectionLost},
		{"bad conn", driver.ErrBadConn, ConditionConnectionLost},
		{"eof", io.ErrUnexpectedEOF, ConditionConnectionLost},
		{"closed", net.ErrClosed, ConditionConnectionLost},
		{"other", errors.New("syntax error"), ConditionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConditionDescribe(t *testing.T) {
	for _, c := range []Condition{ConditionConnectionLost, ConditionTooManyConnections, ConditionRefused, ConditionUnknown} {
		if c.Describe() == "" {
			t.Errorf("%s has no description", c)
		}
	}
}

func TestConnectionErrorUnwrap(t *testing.T) {
	cause := &mysqldriver.MySQLError{Number: 1040}
	err := error(&ConnectionError{Condition: ConditionTooManyConnections, Err: cause})

	var myErr *mysqldriver.MySQLError
	if !errors.As(err, &myErr) || myErr.Number != 1040 {
		t.Errorf("cause not reachable through ConnectionError")
	}
}

func TestNewDatabaseRejectsUnknownDriver(t *testing.T) {
	if _, err := NewDatabase(&config.DatabaseConfig{Driver: "oracle"}, logger.NewDiscardLogger()); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestSQLitePoolLifecycle(t *testing.T) {
	db, err := NewFromDialector(sqlite.Open(filepath.Join(t.TempDir(), "pool.db")), &config.DatabaseConfig{MaxOpenConns: 2})
	if err != nil {
		t.Fatalf("NewFromDialector: %v", err)
	}
	if err := db.AutoMigrate(); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	if err := db.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	open, _, _, _, err := db.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if open < 1 || open > 2 {
		t.Errorf("open connections = %d", open)
	}

	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := db.Ping(context.Background()); err == nil {
		t.Error("Ping after Close should fail")
	}
}

func TestGormLoggerWritesStructuredEntries(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewLogger("info", "json")
	log.SetOutput(&buf)

	NewGormLogger(log).Warn(context.Background(), "slow migration on %s", "quotes")

	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("gorm output is not a JSON log entry: %v (%q)", err, buf.String())
	}
	if entry["component"] != "gorm" || entry["level"] != "warning" {
		t.Errorf("entry = %v", entry)
	}
	if msg, _ := entry["msg"].(string); !strings.Contains(msg, "slow migration on quotes") {
		t.Errorf("msg = %q", msg)
	}
}
