package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"kanban_api/internal/logger"

	"github.com/jackc/pgx/v5"
)

//go:embed *.sql
var files embed.FS

// Arbitrary key for pg_advisory_xact_lock so concurrent instances apply
// migrations one at a time.
const lockKey = 7243001

type Migration struct {
	Name string
	SQL  string
}

type Beginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// List returns the embedded migrations in lexical order.
func List() ([]Migration, error) {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	out := make([]Migration, 0, len(names))
	for _, name := range names {
		b, err := files.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		out = append(out, Migration{Name: name, SQL: string(b)})
	}
	return out, nil
}

// Apply runs every migration not yet recorded in schema_migrations, all in
// one transaction. It returns the names it applied.
func Apply(ctx context.Context, db Beginner) ([]string, error) {
	all, err := List()
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, lockKey); err != nil {
		return nil, fmt.Errorf("lock: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name       TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	done, err := appliedNames(ctx, tx)
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, m := range all {
		if done[m.Name] {
			continue
		}
		if _, err := tx.Exec(ctx, m.SQL); err != nil {
			return nil, fmt.Errorf("apply %s: %w", m.Name, err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, m.Name); err != nil {
			return nil, fmt.Errorf("record %s: %w", m.Name, err)
		}
		logger.Info("migration applied", "name", m.Name)
		applied = append(applied, m.Name)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return applied, nil
}

func appliedNames(ctx context.Context, tx pgx.Tx) (map[string]bool, error) {
	rows, err := tx.Query(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}

	done := make(map[string]bool, len(names))
	for _, n := range names {
		done[n] = true
	}
	return done, nil
}
