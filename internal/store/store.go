package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrUnavailable is returned by every operation when the store failed to
	// open; the daemon then runs remote-only, without caching or queueing.
	ErrUnavailable = errors.New("local store unavailable")
)

// Store is the durable local cache: one collection per entity type mirroring
// the backend, plus the three offline queues and the dead-letter table.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// migrations run in order inside transactions; PRAGMA user_version records
// the last step applied, so reopening an existing file upgrades the schema in
// place without touching existing rows.
var migrations = []string{
	// v1: authoritative collections and offline queues
	`CREATE TABLE IF NOT EXISTS transactions (
		id          TEXT PRIMARY KEY,
		amount      REAL NOT NULL,
		category    TEXT NOT NULL,
		date        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		type        TEXT NOT NULL,
		created_at  TEXT NOT NULL DEFAULT '',
		updated_at  TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
	CREATE INDEX IF NOT EXISTS idx_transactions_type ON transactions(type);
	CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(category);

	CREATE TABLE IF NOT EXISTS budgets (
		id         TEXT PRIMARY KEY,
		category   TEXT NOT NULL,
		amount     REAL NOT NULL,
		created_at TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL DEFAULT ''
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_budgets_category ON budgets(category);

	CREATE TABLE IF NOT EXISTS savings_goals (
		id         TEXT PRIMARY KEY,
		amount     REAL NOT NULL,
		created_at TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS offline_transactions (
		seq       INTEGER PRIMARY KEY AUTOINCREMENT,
		action    TEXT NOT NULL,
		data      TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		attempts  INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_offline_transactions_action ON offline_transactions(action);

	CREATE TABLE IF NOT EXISTS offline_budgets (
		seq       INTEGER PRIMARY KEY AUTOINCREMENT,
		action    TEXT NOT NULL,
		data      TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		attempts  INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_offline_budgets_action ON offline_budgets(action);

	CREATE TABLE IF NOT EXISTS offline_savings_goals (
		seq       INTEGER PRIMARY KEY AUTOINCREMENT,
		action    TEXT NOT NULL DEFAULT '',
		data      TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		attempts  INTEGER NOT NULL DEFAULT 0
	);`,

	// v2: dead letters for pending operations that exhaust their replay
	// attempts
	`CREATE TABLE IF NOT EXISTS dead_letters (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		queue     TEXT NOT NULL,
		action    TEXT NOT NULL DEFAULT '',
		data      TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		failed_at INTEGER NOT NULL,
		reason    TEXT NOT NULL DEFAULT ''
	);`,
}

// Open opens (creating if necessary) the store at path and brings its schema
// up to date. Opening an already-migrated file is a no-op beyond the version
// check.
func Open(path string, logger *zap.Logger) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate store: %w", err)
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return err
	}

	for i := version; i < len(migrations); i++ {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		s.logger.Info("Store schema migrated", zap.Int("version", i+1))
	}
	return nil
}

// ready guards every operation so a nil store (open failure, degraded mode)
// answers ErrUnavailable instead of panicking.
func (s *Store) ready() error {
	if s == nil || s.db == nil {
		return ErrUnavailable
	}
	return nil
}

// Version returns the current schema version.
func (s *Store) Version(ctx context.Context) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	var version int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version)
	return version, err
}

func (s *Store) Close() error {
	if err := s.ready(); err != nil {
		return nil
	}
	return s.db.Close()
}
