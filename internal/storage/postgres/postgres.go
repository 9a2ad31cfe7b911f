// Package postgres stores the memorial log in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/wasteland/internal/config"
)

// DefaultHealthTimeout bounds the startup health check in OpenMemorial.
const DefaultHealthTimeout = 3 * time.Second

// Pool wraps a pgx connection pool.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool connects a pool sized by cfg and pings it once.
//
// Precondition: cfg must contain valid database connection parameters.
// Postcondition: Returns a connected Pool or a non-nil error.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool for %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database %s: %w", cfg.Name, err)
	}
	return &Pool{pool: pool}, nil
}

// Health checks that the database answers a query within timeout and that
// the memorial schema has been migrated.
//
// Precondition: The pool must not be closed.
func (p *Pool) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	var table *string
	if err := p.pool.QueryRow(ctx, `SELECT to_regclass('memorial_log')::text`).Scan(&table); err != nil {
		return fmt.Errorf("database health: %w", err)
	}
	if table == nil {
		return fmt.Errorf("database health: memorial_log missing; run cmd/migrate")
	}
	return nil
}

// Close releases all pool resources.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB returns the underlying pgxpool.Pool for use by repositories.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}

// OpenMemorial connects to cfg, fails fast when Health does, and returns the
// memorial repository with the pool's close function.
//
// Postcondition: on error nothing is left open.
func OpenMemorial(ctx context.Context, cfg config.DatabaseConfig, timeout time.Duration) (*MemorialRepository, func(), error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Health(ctx, timeout); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return NewMemorialRepository(pool.DB()), pool.Close, nil
}
