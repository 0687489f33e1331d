package database

import (
	"context"
	"fmt"
	"log"
	"time"

	pgx "github.com/jackc/pgx/v5"
)

// Ping verifies the pool is alive and responsive. Used by health check
// endpoints to report database availability.
func (db *PostgresDB) Ping(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// Close shuts down the pool and frees its connections. Safe to call more
// than once; a nil pool is treated as already closed.
func (db *PostgresDB) Close() error {
	if db.Pool == nil {
		log.Println("[DATABASE] Pool is already closed or was never initialized")
		return nil
	}

	log.Println("[DATABASE] Closing database connection pool...")
	db.Pool.Close()
	db.Pool = nil
	log.Println("[DATABASE] Connection pool closed successfully")

	return nil
}

// PoolStats is a snapshot of pool metrics for monitoring and debugging.
type PoolStats struct {
	AcquireCount            int64
	AcquireDuration         time.Duration
	AcquiredConns           int32
	CanceledAcquireCount    int64
	ConstructingConns       int32
	EmptyAcquireCount       int64
	IdleConns               int32
	MaxConns                int32
	TotalConns              int32
	NewConnsCount           int64
	MaxLifetimeDestroyCount int64
	MaxIdleDestroyCount     int64
}

// Stats returns the current pool statistics.
func (db *PostgresDB) Stats() (*PoolStats, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	rawStats := db.Pool.Stat()

	stats := &PoolStats{
		AcquiredConns:     rawStats.AcquiredConns(),
		ConstructingConns: rawStats.ConstructingConns(),
		IdleConns:         rawStats.IdleConns(),
		TotalConns:        rawStats.TotalConns(),
		MaxConns:          rawStats.MaxConns(),

		AcquireCount:         rawStats.AcquireCount(),
		AcquireDuration:      rawStats.AcquireDuration(),
		CanceledAcquireCount: rawStats.CanceledAcquireCount(),
		EmptyAcquireCount:    rawStats.EmptyAcquireCount(),
		NewConnsCount:        rawStats.NewConnsCount(),

		MaxLifetimeDestroyCount: rawStats.MaxLifetimeDestroyCount(),
		MaxIdleDestroyCount:     rawStats.MaxIdleDestroyCount(),
	}

	log.Printf(`[DATABASE] Pool Statistics:
        Total Connections: %d (Max: %d)
        Active: %d | Idle: %d | Constructing: %d
        Total Acquires: %d | Empty Acquires: %d | Canceled: %d
        Average Acquire Duration: %v
        New Connections Created: %d
        Destroyed by MaxLifetime: %d | Destroyed by MaxIdleTime: %d`,
		stats.TotalConns, stats.MaxConns,
		stats.AcquiredConns, stats.IdleConns, stats.ConstructingConns,
		stats.AcquireCount, stats.EmptyAcquireCount, stats.CanceledAcquireCount,
		calculateAvgDuration(stats.AcquireDuration, stats.AcquireCount),
		stats.NewConnsCount,
		stats.MaxLifetimeDestroyCount, stats.MaxIdleDestroyCount,
	)

	return stats, nil
}

func calculateAvgDuration(totalDuration time.Duration, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return totalDuration / time.Duration(count)
}

// TxOptions configures transaction behavior.
type TxOptions struct {
	IsoLevel       TxIsoLevel
	AccessMode     TxAccessMode
	DeferrableMode TxDeferrableMode
}

// TxIsoLevel is a transaction isolation level.
type TxIsoLevel string

const (
	// ReadCommitted is Postgres's default: each statement sees a fresh
	// snapshot, so non-repeatable reads are possible within a transaction.
	ReadCommitted TxIsoLevel = "read committed"

	// RepeatableRead gives the whole transaction one consistent snapshot.
	// spec.md §5's "repeatable-read" requirement maps to this level.
	RepeatableRead TxIsoLevel = "repeatable read"

	// Serializable is the strongest level: transactions behave as if run
	// one at a time, at the cost of possible serialization failures under
	// contention (the alternative spec.md §5 names to repeatable-read for
	// composite operations).
	Serializable TxIsoLevel = "serializable"
)

// TxAccessMode controls whether a transaction may write.
type TxAccessMode string

const (
	ReadWrite TxAccessMode = "read write"
	ReadOnly  TxAccessMode = "read only"
)

// TxDeferrableMode only matters for Serializable+ReadOnly transactions.
type TxDeferrableMode string

const (
	NotDeferrable TxDeferrableMode = "not deferrable"
	Deferrable    TxDeferrableMode = "deferrable"
)

// BeginTx starts a transaction with the given options. The caller owns
// commit/rollback.
func (db *PostgresDB) BeginTx(ctx context.Context, opts *TxOptions) (pgx.Tx, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	pgxOpts := pgx.TxOptions{}

	if opts != nil {
		switch opts.IsoLevel {
		case ReadCommitted:
			pgxOpts.IsoLevel = pgx.ReadCommitted
		case RepeatableRead:
			pgxOpts.IsoLevel = pgx.RepeatableRead
		case Serializable:
			pgxOpts.IsoLevel = pgx.Serializable
		default:
			pgxOpts.IsoLevel = pgx.ReadCommitted
		}

		switch opts.AccessMode {
		case ReadOnly:
			pgxOpts.AccessMode = pgx.ReadOnly
		case ReadWrite:
			pgxOpts.AccessMode = pgx.ReadWrite
		default:
			pgxOpts.AccessMode = pgx.ReadWrite
		}

		switch opts.DeferrableMode {
		case Deferrable:
			pgxOpts.DeferrableMode = pgx.Deferrable
		case NotDeferrable:
			pgxOpts.DeferrableMode = pgx.NotDeferrable
		default:
			pgxOpts.DeferrableMode = pgx.NotDeferrable
		}
	}

	tx, err := db.Pool.BeginTx(ctx, pgxOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	log.Printf("[DATABASE] Transaction started with isolation level: %v", opts.IsoLevel)

	return tx, nil
}

// ExecuteInTransaction runs fn inside a transaction with the given
// options, committing on success and rolling back otherwise. This is an
// isolation-level-aware alternative to pkg/database.WithTransaction for
// callers that need Serializable or ReadOnly semantics explicitly.
func (db *PostgresDB) ExecuteInTransaction(
	ctx context.Context,
	opts *TxOptions,
	fn func(pgx.Tx) error,
) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if err := tx.Rollback(ctx); err != nil {
			if err != pgx.ErrTxClosed {
				log.Printf("[DATABASE] Transaction rollback error: %v", err)
			}
		}
	}()

	if err := fn(tx); err != nil {
		return fmt.Errorf("transaction function failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}

	log.Println("[DATABASE] Transaction committed successfully")
	return nil
}

// MonitorPoolHealth periodically logs pool utilization and flags high
// acquire latency or cancellation rates. Intended to run in its own
// goroutine for the lifetime of the worker/server process.
func (db *PostgresDB) MonitorPoolHealth(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats, err := db.Stats()
			if err != nil {
				log.Printf("[MONITOR] Failed to get stats: %v", err)
				continue
			}

			utilizationPct := float64(stats.AcquiredConns) / float64(stats.MaxConns) * 100
			if utilizationPct > 80 {
				log.Printf("[MONITOR] HIGH POOL UTILIZATION: %.1f%% (%d/%d)",
					utilizationPct, stats.AcquiredConns, stats.MaxConns)
			}

			avgAcquireDuration := calculateAvgDuration(
				stats.AcquireDuration,
				stats.AcquireCount,
			)
			if avgAcquireDuration > 100*time.Millisecond {
				log.Printf("[MONITOR] HIGH ACQUIRE LATENCY: %v", avgAcquireDuration)
			}

			if stats.CanceledAcquireCount > 0 {
				cancelRate := float64(stats.CanceledAcquireCount) /
					float64(stats.AcquireCount) * 100
				if cancelRate > 5 {
					log.Printf("[MONITOR] HIGH CANCEL RATE: %.1f%%", cancelRate)
				}
			}

		case <-ctx.Done():
			log.Println("[MONITOR] Stopping pool health monitoring")
			return
		}
	}
}
