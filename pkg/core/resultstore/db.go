// Package resultstore is the narrow persistence boundary the benchmark
// runner crosses when invoked with --push-to-supabase. It is not a
// general-purpose data layer: nothing else in this module depends on
// it, and the in-process benchmark/orchestrator pipeline never touches
// a database.
package resultstore

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pool *pgxpool.Pool
	once sync.Once
)

// InitDB initializes the connection pool from the SUPABASE_DB_URL
// environment variable (or DATABASE_URL as a fallback for local runs).
func InitDB(ctx context.Context) error {
	var err error
	once.Do(func() {
		dbURL := os.Getenv("SUPABASE_DB_URL")
		if dbURL == "" {
			dbURL = os.Getenv("DATABASE_URL")
		}
		if dbURL == "" {
			err = fmt.Errorf("neither SUPABASE_DB_URL nor DATABASE_URL is set")
			return
		}

		config, parseErr := pgxpool.ParseConfig(dbURL)
		if parseErr != nil {
			err = fmt.Errorf("failed to parse database config: %w", parseErr)
			return
		}

		pool, err = pgxpool.NewWithConfig(ctx, config)
	})
	return err
}

// GetPool returns the initialized connection pool, or nil if InitDB
// hasn't been called or failed.
func GetPool() *pgxpool.Pool {
	return pool
}

// Close releases the connection pool.
func Close() {
	if pool != nil {
		pool.Close()
	}
}
