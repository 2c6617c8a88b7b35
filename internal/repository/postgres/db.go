package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"gstengine/internal/config"
)

// NewDB creates a new PostgreSQL connection pool.
func NewDB(cfg *config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	return db, nil
}

// psql builds statements with Postgres placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type txKey struct{}

// conn returns the transaction carried by ctx, or the pool.
func conn(ctx context.Context, db *sqlx.DB) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return db
}

// get runs a squirrel query and scans one row.
func get(ctx context.Context, q sqlx.QueryerContext, dest interface{}, b squirrel.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}
	return sqlx.GetContext(ctx, q, dest, query, args...)
}

// sel runs a squirrel query and scans all rows.
func sel(ctx context.Context, q sqlx.QueryerContext, dest interface{}, b squirrel.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}
	return sqlx.SelectContext(ctx, q, dest, query, args...)
}

// exec runs a squirrel statement and returns the affected row count.
func exec(ctx context.Context, e sqlx.ExecerContext, b squirrel.Sqlizer) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("building statement: %w", err)
	}
	res, err := e.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
