package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // postgres driver
	_ "modernc.org/sqlite"             // sqlite driver
)

type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	DialTimeout     time.Duration
}

// DriverForDSN selects the SQL driver from the DSN scheme: postgres DSNs go
// through pgx, everything else is treated as a sqlite path.
func DriverForDSN(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "pgx"
	}
	return "sqlite"
}

// Open creates a database/sql handle for the configured DSN and pings it.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*sql.DB, error) {
	driver := DriverForDSN(cfg.DSN)
	logger.Info("connecting to database", "driver", driver)

	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		logger.Error("failed to open database", "driver", driver, "error", err)
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		logger.Error("failed to connect to database", "driver", driver, "error", err)
		_ = db.Close()
		return nil, err
	}

	logger.Info("successfully connected to database")
	return db, nil
}

// Close closes the database connection gracefully
func Close(db *sql.DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	logger.Info("closing database connection")
	if err := db.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
	}
}

// HealthCheck pings the database to catch DSN issues early.
func HealthCheck(ctx context.Context, db *sql.DB, timeout time.Duration, logger *slog.Logger) error {
	logger.Debug("pinging database")
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		return err
	}
	logger.Debug("database ping successful")
	return nil
}

// Migrate creates the contacts table when it does not exist. Statements are
// executed one at a time; pgx in prepared mode rejects multi-statement exec.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS contacts (
			id TEXT PRIMARY KEY,
			name TEXT,
			phone TEXT,
			email TEXT,
			source_path TEXT NOT NULL DEFAULT '',
			source_hash TEXT NOT NULL DEFAULT '',
			confidence REAL NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_source_hash ON contacts (source_hash)`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_created_at ON contacts (created_at)`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
