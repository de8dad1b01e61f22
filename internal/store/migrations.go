package store

import "fmt"

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 1

// Migrate runs forward migrations to bring the database schema up to date.
func (db *DB) Migrate() error {
	// Create the schema_version table if it does not exist.
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version := 0
	row := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1")
	if err := row.Scan(&version); err != nil {
		// No rows means version 0 (fresh database).
		version = 0
	}

	if version < 1 {
		if err := db.migrateV1(); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return nil
}

// migrateV1 creates all initial tables and indexes.
func (db *DB) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id               TEXT PRIMARY KEY,
			user_id          TEXT NOT NULL,
			type             TEXT NOT NULL,
			task_name        TEXT NOT NULL,
			duration_planned INTEGER NOT NULL,
			duration_actual  INTEGER NOT NULL,
			pause_count      INTEGER NOT NULL,
			focus_score      INTEGER NOT NULL,
			completed_at     TEXT NOT NULL,
			group_id         TEXT,
			group_index      INTEGER
		)`,

		`CREATE TABLE IF NOT EXISTS user_stats (
			user_id                TEXT PRIMARY KEY,
			total_sessions         INTEGER NOT NULL DEFAULT 0,
			total_focus_minutes    INTEGER NOT NULL DEFAULT 0,
			current_streak         INTEGER NOT NULL DEFAULT 0,
			longest_streak         INTEGER NOT NULL DEFAULT 0,
			last_active_date       TEXT,
			perfect_score_count    INTEGER NOT NULL DEFAULT 0,
			no_pause_session_count INTEGER NOT NULL DEFAULT 0,
			default_duration       INTEGER NOT NULL DEFAULT 25,
			default_sound          TEXT NOT NULL DEFAULT 'off'
		)`,

		// The uniqueness constraint is the backstop against duplicate
		// unlocks under concurrent evaluation.
		`CREATE TABLE IF NOT EXISTS award_unlocks (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id     TEXT NOT NULL,
			award_type  TEXT NOT NULL,
			unlocked_at TEXT NOT NULL,
			UNIQUE(user_id, award_type)
		)`,

		// Indexes.
		`CREATE INDEX IF NOT EXISTS idx_sessions_user_completed ON sessions(user_id, completed_at)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_group ON sessions(group_id)`,
		`CREATE INDEX IF NOT EXISTS idx_award_unlocks_user ON award_unlocks(user_id)`,
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	// Set schema version.
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return err
	}

	return tx.Commit()
}
