package service

import (
	"context"
	"errors"

	"kanban_api/internal/perrors"
	"kanban_api/internal/repository"

	"github.com/jackc/pgx/v5"
)

// DB is the part of *pgxpool.Pool the services use.
type DB interface {
	repository.DBTX
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// inTx runs fn in a transaction. The deferred rollback is a no-op after a
// successful commit and returns the connection to the pool on every path.
func inTx(ctx context.Context, db DB, fn func(tx pgx.Tx) error) error {
	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// notFoundAs turns repository.ErrNotFound into a 404 with msg.
func notFoundAs(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return perrors.NotFound(msg)
	}
	return err
}

const (
	msgBoardNotFound  = "Board not found"
	msgColumnNotFound = "Column not found or access denied"
	msgTaskNotFound   = "Task not found or access denied"
	msgUserNotFound   = "User not found"
)
