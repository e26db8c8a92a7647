// Package repository implements persistence for users, sessions, tasks,
// the product catalog and document chunks over database/sql.
//
// Timestamps are stored as UTC RFC3339Nano strings, which keeps the
// schema portable between SQLite and PostgreSQL. Not-found conditions
// surface as sql.ErrNoRows so callers can errors.Is on them.
package repository

import (
	"database/sql"
	"time"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatNullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseNullTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t := parseTime(s.String)
	return &t
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
