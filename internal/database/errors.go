package database

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// Condition names a class of connection failure
type Condition string

const (
	ConditionConnectionLost     Condition = "connection_lost"
	ConditionTooManyConnections Condition = "too_many_connections"
	ConditionRefused            Condition = "connection_refused"
	ConditionUnknown            Condition = "unknown"
)

// mysql ER_CON_COUNT_ERROR
const mysqlTooManyConnections = 1040

// postgres too_many_connections
const pgTooManyConnections = "53300"

// ConnectionError wraps a failure to establish the pool
type ConnectionError struct {
	Condition Condition
	Err       error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("database connection failed (%s): %v", e.Condition, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Describe returns the operator facing sentence for a condition
func (c Condition) Describe() string {
	switch c {
	case ConditionConnectionLost:
		return "Database connection was closed."
	case ConditionTooManyConnections:
		return "Database has too many connections."
	case ConditionRefused:
		return "Database connection was refused."
	default:
		return "Database connection failed."
	}
}

// Classify maps a driver error to a Condition
func Classify(err error) Condition {
	if err == nil {
		return ConditionUnknown
	}

	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlTooManyConnections {
		return ConditionTooManyConnections
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgTooManyConnections {
		return ConditionTooManyConnections
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return ConditionRefused
	}

	if errors.Is(err, mysqldriver.ErrInvalidConn) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.ECONNRESET) {
		return ConditionConnectionLost
	}

	return ConditionUnknown
}
