package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/yigit/unidwh/internal/config"
	"github.com/yigit/unidwh/internal/pkg/dberrors"
)

// DBTX is the query surface shared by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
// Repositories take a DBTX so the caller decides which session they run in.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresDB database connection structure
type PostgresDB struct {
	Pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresDB creates a new PostgreSQL connection pool
func NewPostgresDB(cfg *config.Config, lgr zerolog.Logger) (*PostgresDB, error) {
	connectTimeout, err := time.ParseDuration(cfg.Database.ConnectTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connect timeout: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.GetPostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgxpool config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = 0

	maxLifetime, err := time.ParseDuration(cfg.Database.ConnMaxLifetime)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection max lifetime: %w", err)
	}
	poolConfig.MaxConnLifetime = maxLifetime

	poolConfig.BeforeAcquire = func(ctx context.Context, conn *pgx.Conn) bool {
		if err := conn.Ping(ctx); err != nil {
			lgr.Warn().Err(err).Msg("Unhealthy connection detected")
			return false
		}
		return true
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, dberrors.Classify(fmt.Errorf("failed to create database connection pool: %w", err))
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, dberrors.Classify(fmt.Errorf("failed to establish database connection: %w", err))
	}

	return &PostgresDB{Pool: pool, logger: lgr}, nil
}

// NewFromPool wraps an already configured pool.
func NewFromPool(pool *pgxpool.Pool, lgr zerolog.Logger) *PostgresDB {
	return &PostgresDB{Pool: pool, logger: lgr}
}

// Close closing method
func (db *PostgresDB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// TransactionFn is a function that executes within a transaction
type TransactionFn func(ctx context.Context, tx pgx.Tx) error

// WithTransaction runs fn within a read-write transaction. Any error from fn, or a
// panic, rolls the whole transaction back; the connection returns to the pool either way.
func (db *PostgresDB) WithTransaction(ctx context.Context, fn TransactionFn) error {
	return db.withTx(ctx, pgx.TxOptions{}, fn)
}

// WithReadOnlyTransaction runs fn within a READ ONLY, REPEATABLE READ transaction so
// that every statement in fn sees the same snapshot.
func (db *PostgresDB) WithReadOnlyTransaction(ctx context.Context, fn TransactionFn) error {
	return db.withTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (db *PostgresDB) withTx(ctx context.Context, opts pgx.TxOptions, fn TransactionFn) error {
	tx, err := db.Pool.BeginTx(ctx, opts)
	if err != nil {
		return dberrors.Classify(fmt.Errorf("failed to begin transaction: %w", err))
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(r)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		// the caller's context may already be cancelled; rollback must still reach the server
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			db.logger.Error().Err(rbErr).Msg("Failed to rollback transaction")
			return fmt.Errorf("%w (rollback error: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dberrors.Classify(fmt.Errorf("failed to commit transaction: %w", err))
	}

	return nil
}
