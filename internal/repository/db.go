package repository

import (
	"context"
	"database/sql"
)

// executor is satisfied by both *sql.DB and *sql.Tx
type executor interface {
	Exec(query string, args ...any) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

func dbOrTx(db *sql.DB, tx *sql.Tx) executor {
	if tx != nil {
		return tx
	}
	return db
}
