package core

import (
	"context"
	"database/sql"
)

// DBExecutor is the slice of sqlx the repositories depend on. Both *sqlx.DB and
// *sqlx.Tx satisfy it, so a caller can hand a repository a transaction without
// the repository knowing.
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}
