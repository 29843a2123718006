/*
Package storage implements a SQLite-backed history store.

It keeps the same whole-record contract as the JSON file store: Load
returns the complete history and Save replaces it, each inside a single
transaction. The database uses modernc.org/sqlite (a pure Go, CGo-free
implementation) and lives at ~/.daily-raffle/history.db unless configured otherwise.
*/
package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/khanglvm/daily-raffle/internal/history"
)

// SQLiteStorage implements history.Store using SQLite.
type SQLiteStorage struct {
	db       *sql.DB
	dbPath   string
	logger   *slog.Logger
	mu       sync.Mutex
	initOnce sync.Once
	initErr  error
}

var _ history.Store = (*SQLiteStorage)(nil)

// NewStorage creates a SQLite storage for the database at dbPath.
// The database is opened lazily on first use.
func NewStorage(dbPath string, logger *slog.Logger) *SQLiteStorage {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteStorage{
		dbPath: dbPath,
		logger: logger,
	}
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// Init opens the database and runs migrations. It is safe to call more
// than once; only the first call does any work.
func (s *SQLiteStorage) Init() error {
	s.initOnce.Do(func() {
		if err := os.MkdirAll(filepath.Dir(s.dbPath), 0755); err != nil {
			s.initErr = s.openError(fmt.Errorf("failed to create db directory: %w", err))
			return
		}

		db, err := sql.Open("sqlite", s.dbPath)
		if err != nil {
			s.initErr = s.openError(fmt.Errorf("failed to open database: %w", err))
			return
		}
		// One writer at a time keeps SQLite from returning SQLITE_BUSY.
		db.SetMaxOpenConns(1)

		if err := db.Ping(); err != nil {
			db.Close()
			s.initErr = s.openError(fmt.Errorf("failed to ping database: %w", err))
			return
		}
		s.db = db

		if err := s.runMigrations(); err != nil {
			s.initErr = s.openError(fmt.Errorf("failed to run migrations: %w", err))
			return
		}
	})

	return s.initErr
}

func (s *SQLiteStorage) openError(err error) error {
	return &history.StorageError{Op: "open", Path: s.dbPath, Err: err}
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	s.db = nil
	return nil
}
