package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/koba/ddlkit/internal/logging"
)

// Execer is implemented by *sql.DB, *sql.Conn and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ExecResult counts the outcome of an Exec call.
type ExecResult struct {
	Succeeded int
	Failed    int
}

// ExecError reports the statement that stopped an Exec call.
type ExecError struct {
	Index     int
	Statement string
	Code      string
	Err       error
}

func (e *ExecError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("statement %d failed (%s): %v", e.Index+1, e.Code, e.Err)
	}
	return fmt.Sprintf("statement %d failed: %v", e.Index+1, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// Exec runs the statements in order. It stops at the first failure unless
// continueOnError is set, in which case failures are logged and counted.
func Exec(ctx context.Context, db Execer, statements []string, continueOnError bool) (ExecResult, error) {
	var result ExecResult
	for i, stmt := range statements {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			result.Failed++
			code := ErrorCode(err)
			if !continueOnError {
				return result, &ExecError{Index: i, Statement: stmt, Code: code, Err: err}
			}
			logging.StatementFailed(ctx, i, stmt, code, err)
			continue
		}
		result.Succeeded++
	}
	return result, nil
}

// ErrorCode returns the server error code carried by a driver error: the
// error number for MySQL, the SQLSTATE for PostgreSQL.
func ErrorCode(err error) string {
	var myErr *mysql.MySQLError
	var pqErr *pq.Error
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &myErr):
		return strconv.Itoa(int(myErr.Number))
	case errors.As(err, &pqErr):
		return string(pqErr.Code)
	case errors.As(err, &pgErr):
		return pgErr.Code
	}
	return ""
}
