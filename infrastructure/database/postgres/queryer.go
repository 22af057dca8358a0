package postgres

import (
	"context"
	"database/sql"
)

// Queryer cobre as operações de consulta usadas pelos repositórios.
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

var _ Conn = (*Connection)(nil)
