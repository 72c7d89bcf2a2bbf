package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/agence-immo/agence/internal/config"
	"github.com/stretchr/testify/require"
)

func TestNewFromConfigUsesDBPath(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))
	config.Load()

	s, err := NewFromConfig("")
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Join(tmp, "state", "agence", "agence.db"))
	require.NoError(t, err)
	count, err := s.UnreadCount(context.Background(), "1")
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestNewFromConfigOverride(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "override.db")
	s, err := NewFromConfig(dbPath)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(dbPath)
	require.NoError(t, err)
}
