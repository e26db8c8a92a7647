package data

import (
	"context"
	"fmt"
	"strings"
)

// Schema statements are written with a {{serial}} placeholder for the
// auto-incrementing integer primary key, which differs per dialect.
// Integer IDs are monotonically assigned and never reused, which is the
// property cursor pagination relies on.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		username TEXT,
		full_name TEXT,
		password_hash TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		is_admin INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		last_login TEXT
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users (username) WHERE username IS NOT NULL AND username != ''`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		refresh_token TEXT NOT NULL UNIQUE,
		ip_address TEXT,
		user_agent TEXT,
		expires_at TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions (user_id)`,
	`CREATE TABLE IF NOT EXISTS password_reset_tokens (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		token TEXT NOT NULL UNIQUE,
		used INTEGER NOT NULL DEFAULT 0,
		expires_at TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id {{serial}},
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		task_type TEXT NOT NULL,
		status TEXT NOT NULL,
		priority TEXT NOT NULL,
		chapter_id TEXT,
		topic TEXT,
		tags TEXT,
		due_date TEXT,
		estimated_duration INTEGER,
		is_ai_generated INTEGER NOT NULL DEFAULT 0,
		completed_at TEXT,
		completion_notes TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks (user_id, id)`,
	`CREATE TABLE IF NOT EXISTS products (
		id {{serial}},
		name TEXT NOT NULL,
		price REAL NOT NULL,
		category TEXT NOT NULL,
		in_stock INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS chunks (
		id {{serial}},
		source TEXT NOT NULL,
		position INTEGER NOT NULL,
		content TEXT NOT NULL,
		embedding TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
}

// Migrate applies the schema. All statements are idempotent.
func (d *Data) Migrate(ctx context.Context) error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if d.driver == "postgres" {
		serial = "BIGSERIAL PRIMARY KEY"
	}

	for _, stmt := range schema {
		stmt = strings.ReplaceAll(stmt, "{{serial}}", serial)
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("data: migration failed: %w", err)
		}
	}
	return nil
}
