package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps the pgx pool shared by the dimension and student repositories.
type DB struct {
	*pgxpool.Pool
}

// Pool limits for the survey workload: one bulk COPY at a time plus
// short-lived read queries.
const (
	defaultMaxConns = 25
	connMaxLifetime = time.Hour
	connMaxIdleTime = 30 * time.Minute
)

// newPoolConfig parses connString and applies the pool limits. A maxConns of
// zero or less falls back to defaultMaxConns.
func newPoolConfig(connString string, maxConns int32) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}
	poolConfig.MaxConns = maxConns
	poolConfig.MaxConnLifetime = connMaxLifetime
	poolConfig.MaxConnIdleTime = connMaxIdleTime

	return poolConfig, nil
}

// NewConnection opens a pool against connString and verifies it with a ping.
func NewConnection(ctx context.Context, connString string, maxConns int32) (*DB, error) {
	poolConfig, err := newPoolConfig(connString, maxConns)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}
