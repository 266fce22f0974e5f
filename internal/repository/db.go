package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/avast/retry-go/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/results-parser/internal/common"
)

type Config struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// DB is an ent SQL driver over either an embedded SQLite file or a pgx pool.
type DB struct {
	drv     *entsql.Driver
	pool    *pgxpool.Pool
	dialect string
	logger  *slog.Logger
}

// Dialect returns dialect.SQLite or dialect.Postgres.
func (db *DB) Dialect() string { return db.dialect }

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// sqlitePath turns "sqlite://path" into a modernc DSN; "file:" DSNs and bare paths pass through.
func sqlitePath(dsn string) string {
	p := strings.TrimPrefix(dsn, "sqlite://")
	if !strings.Contains(p, "_pragma=") {
		sep := "?"
		if strings.Contains(p, "?") {
			sep = "&"
		}
		p += sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	return p
}

// Open connects to the store named by cfg.DSN: postgres:// DSNs get a pgx
// pool, anything else is treated as a SQLite database.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("%w: empty database dsn", common.ErrInvalidInput)
	}
	if isPostgres(cfg.DSN) {
		return openPostgres(ctx, cfg, logger)
	}

	logger.Info("opening sqlite database", "dsn", cfg.DSN)
	sqldb, err := sql.Open("sqlite", sqlitePath(cfg.DSN))
	if err != nil {
		logger.Error("failed to open sqlite database", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	// one writer at a time; also keeps :memory: databases on a single connection
	sqldb.SetMaxOpenConns(1)
	return &DB{drv: entsql.OpenDB(dialect.SQLite, sqldb), dialect: dialect.SQLite, logger: logger}, nil
}

func openPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	logger.Info("connecting to database", "dialect", dialect.Postgres)
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "results-parser"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprint(cfg.StatementTimeout.Milliseconds())
	}

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}

	// Wrap pool as *sql.DB for ent
	sqldb := stdlib.OpenDBFromPool(pool)
	logger.Info("successfully connected to database")
	return &DB{drv: entsql.OpenDB(dialect.Postgres, sqldb), pool: pool, dialect: dialect.Postgres, logger: logger}, nil
}

// Close closes the database connections gracefully.
func (db *DB) Close() {
	db.logger.Info("closing database connections")
	if err := db.drv.Close(); err != nil {
		db.logger.Error("failed to close database driver", "error", err)
	}
	if db.pool != nil {
		db.pool.Close()
	}
	db.logger.Info("database connections closed")
}

// HealthCheck pings the database, retrying until attempts run out or ctx ends.
func (db *DB) HealthCheck(ctx context.Context, timeout time.Duration, attempts uint) error {
	if attempts == 0 {
		attempts = 1
	}
	db.logger.Debug("pinging database", "attempts", attempts)
	err := retry.Do(
		func() error {
			pctx := ctx
			if timeout > 0 {
				var cancel context.CancelFunc
				pctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			return db.drv.DB().PingContext(pctx)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return fmt.Errorf("%w: ping: %v", common.ErrDatabase, err)
	}
	db.logger.Debug("database ping successful")
	return nil
}

// withTx runs fn in a transaction, rolling back on error.
func (db *DB) withTx(ctx context.Context, fn func(tx dialect.Tx) error) error {
	tx, err := db.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", common.ErrDatabase, err)
	}
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			db.logger.Error("rollback failed", "error", rerr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", common.ErrDatabase, err)
	}
	return nil
}
