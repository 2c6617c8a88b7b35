package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gstengine/internal/domain"
	"gstengine/internal/port"
)

var errNoTx = errors.New("scope lock requires an open transaction")

type txManager struct {
	db *sqlx.DB
}

// NewTxManager creates a TxManager that carries the *sqlx.Tx in the context.
// Repositories pick it up through conn.
func NewTxManager(db *sqlx.DB) port.TxManager {
	return &txManager{db: db}
}

func (m *txManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("txManager.RunInTx begin: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("txManager.RunInTx commit: %w", err)
	}
	return nil
}

// LockScope takes a transaction-scoped advisory lock on the scope key, so
// concurrent writers to one scope run their overlap check one at a time.
func (m *txManager) LockScope(ctx context.Context, scope domain.Scope) error {
	tx, ok := ctx.Value(txKey{}).(*sqlx.Tx)
	if !ok {
		return errNoTx
	}
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, scope.LockKey()); err != nil {
		return fmt.Errorf("txManager.LockScope: %w", err)
	}
	return nil
}
