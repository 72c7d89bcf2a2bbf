// Package storage opens the notification repository configured for agence.
package storage

import (
	"fmt"
	"strings"

	"github.com/agence-immo/agence/internal/colors"
	"github.com/agence-immo/agence/internal/config"
	"github.com/agence-immo/agence/internal/storage/sqlite"
)

// NewFromConfig opens the SQLite repository at db_path. A non-empty override
// wins over the configured path.
func NewFromConfig(override string) (*sqlite.SQLiteStorage, error) {
	dbPath := strings.TrimSpace(override)
	if dbPath == "" {
		dbPath = config.Get("db_path", "")
	}
	if dbPath == "" {
		return nil, fmt.Errorf("storage: db_path is not configured")
	}
	colors.Debug("opening database: " + dbPath)
	s, err := sqlite.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	return s, nil
}
