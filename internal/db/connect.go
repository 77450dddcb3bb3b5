package db

import (
	"context"
	"fmt"
	"time"

	"kanban_api/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PoolOptions struct {
	MinConns int32
	MaxConns int32
}

// Open creates a pool and pings it.
func Open(ctx context.Context, dsn string, opts PoolOptions) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 && opts.MinConns <= cfg.MaxConns {
		cfg.MinConns = opts.MinConns
	}
	cfg.MaxConnIdleTime = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

func Connect(dsn string, opts PoolOptions) *pgxpool.Pool {
	pool, err := Open(context.Background(), dsn, opts)
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}

	logger.Info("database connected", "min_conns", pool.Config().MinConns, "max_conns", pool.Config().MaxConns)
	return pool
}
