package sqlite

import (
	"context"
	"fmt"
)

// migration is one forward-only schema step.
type migration struct {
	version int
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY,
	applied_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	message TEXT NOT NULL DEFAULT '',
	link TEXT NOT NULL DEFAULT '',
	is_read INTEGER NOT NULL DEFAULT 0 CHECK (is_read IN (0, 1)),
	read_at TEXT,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_user_created
	ON notifications(user_id, created_at DESC);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_notifications_user_unread
	ON notifications(user_id) WHERE is_read = 0;
`,
	},
}

// SchemaVersion returns the highest applied migration version.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.GetContext(ctx, &version, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		return 0, fmt.Errorf("sqlite storage: read schema version: %w", err)
	}
	return version, nil
}

// runMigrations applies every migration newer than the recorded schema version.
func (s *SQLiteStorage) runMigrations(ctx context.Context) error {
	current := 0

	var tableCount int
	err := s.db.GetContext(ctx, &tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'")
	if err != nil {
		return fmt.Errorf("sqlite storage: check schema_version table: %w", err)
	}
	if tableCount > 0 {
		if current, err = s.SchemaVersion(ctx); err != nil {
			return err
		}
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := s.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("sqlite storage: begin migration v%d: %w", m.version, err)
		}
		if _, err := tx.ExecContext(ctx, m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("sqlite storage: apply migration v%d: %w", m.version, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO schema_version (version, applied_at) VALUES (?, ?)",
			m.version, formatTime(s.now())); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("sqlite storage: record migration v%d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("sqlite storage: commit migration v%d: %w", m.version, err)
		}
	}
	return nil
}
