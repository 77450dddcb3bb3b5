package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kanban_api/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx. Guards and repositories
// take it so a transaction's reads see its own earlier writes.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NowMillis is the unit of boards.last_updated and boards.last_viewed.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// setClause renders `"a" = $start, "b" = $start+1, ...`. Column names come
// from the domain field tables and are quoted, so reserved words like
// "order" are safe.
func setClause(set []domain.Assignment, start int) (string, []any) {
	parts := make([]string, len(set))
	args := make([]any, len(set))
	for i, a := range set {
		parts[i] = fmt.Sprintf("%s = $%d", pgx.Identifier{a.Column}.Sanitize(), start+i)
		args[i] = a.Value
	}
	return strings.Join(parts, ", "), args
}
