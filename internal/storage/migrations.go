package storage

import "fmt"

// migration represents a single database migration.
type migration struct {
	version int
	name    string
	up      func() error
}

// runMigrations executes database schema migrations.
func (s *SQLiteStorage) runMigrations() error {
	if err := s.createMigrationsTable(); err != nil {
		return err
	}

	version, err := s.getCurrentMigrationVersion()
	if err != nil {
		return err
	}

	migrations := []migration{
		{version: 1, name: "draw_history", up: s.migration001DrawHistory},
	}

	for _, m := range migrations {
		if version < m.version {
			s.logger.Info("running migration", "version", m.version, "name", m.name)
			if err := m.up(); err != nil {
				return fmt.Errorf("migration %d failed: %w", m.version, err)
			}
			if err := s.setMigrationVersion(m); err != nil {
				return err
			}
		}
	}

	return nil
}

// createMigrationsTable creates the schema_migrations table.
func (s *SQLiteStorage) createMigrationsTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`)
	return err
}

// getCurrentMigrationVersion returns the highest applied migration version.
func (s *SQLiteStorage) getCurrentMigrationVersion() (int, error) {
	var version int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}

// setMigrationVersion records a migration as applied.
func (s *SQLiteStorage) setMigrationVersion(m migration) error {
	_, err := s.db.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.version, m.name)
	return err
}

// migration001DrawHistory creates the draws and last_draw tables.
func (s *SQLiteStorage) migration001DrawHistory() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS draws (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			drawn_at TEXT NOT NULL,
			numbers TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to create draws table: %w", err)
	}

	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS last_draw (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			drawn_at TEXT NOT NULL,
			numbers TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to create last_draw table: %w", err)
	}

	return nil
}
