package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/agence-immo/agence/internal/domain"
	"github.com/stretchr/testify/require"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	clock := &stepClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	dbPath := filepath.Join(t.TempDir(), "nested", "agence.db")
	s, err := NewSQLiteStorage(dbPath, WithClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func add(t *testing.T, s *SQLiteStorage, userID, title string) domain.Notification {
	t.Helper()
	n, err := s.Add(context.Background(), domain.Notification{UserID: userID, Title: title, Message: title + " body"})
	require.NoError(t, err)
	return n
}

func TestNewSQLiteStorageRejectsEmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	require.Error(t, err)
}

func TestMigrationsAreRecordedAndIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "agence.db")
	s, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	version, err := s.SchemaVersion(context.Background())
	require.NoError(t, err)
	require.Equal(t, migrations[len(migrations)-1].version, version)
	_, err = s.Add(context.Background(), domain.Notification{UserID: "1", Title: "kept"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer reopened.Close()
	version, err = reopened.SchemaVersion(context.Background())
	require.NoError(t, err)
	require.Equal(t, migrations[len(migrations)-1].version, version)
	list, err := reopened.List(context.Background(), "1", true)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestAddAssignsIDAndCreatedAt(t *testing.T) {
	s := newTestStorage(t)

	n := add(t, s, "7", "Nouvelle visite")
	require.NotEmpty(t, n.ID)
	require.False(t, n.CreatedAt.IsZero())
	require.False(t, n.IsRead)

	got, err := s.Get(context.Background(), "7", n.ID)
	require.NoError(t, err)
	require.Equal(t, n, got)
}

func TestAddValidates(t *testing.T) {
	s := newTestStorage(t)
	_, err := s.Add(context.Background(), domain.Notification{Title: "no user"})
	require.Error(t, err)
}

func TestListNewestFirstAndScopedToUser(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	first := add(t, s, "1", "first")
	second := add(t, s, "1", "second")
	add(t, s, "2", "someone else")

	list, err := s.List(ctx, "1", true)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].ID)
	require.Equal(t, first.ID, list[1].ID)

	_, err = s.MarkRead(ctx, "1", first.ID)
	require.NoError(t, err)
	unread, err := s.List(ctx, "1", false)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	require.Equal(t, second.ID, unread[0].ID)
}

func TestGetNotFound(t *testing.T) {
	s := newTestStorage(t)
	n := add(t, s, "1", "private")

	_, err := s.Get(context.Background(), "2", n.ID)
	require.True(t, errors.Is(err, ErrNotificationNotFound))

	_, err = s.Get(context.Background(), "1", "")
	require.ErrorIs(t, err, ErrInvalidNotificationID)
}

func TestMarkReadKeepsOriginalReadAt(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	n := add(t, s, "1", "offer")

	read, err := s.MarkRead(ctx, "1", n.ID)
	require.NoError(t, err)
	require.True(t, read.IsRead)
	require.NotNil(t, read.ReadAt)

	again, err := s.MarkRead(ctx, "1", n.ID)
	require.NoError(t, err)
	require.Equal(t, *read.ReadAt, *again.ReadAt)

	_, err = s.MarkRead(ctx, "1", "missing")
	require.ErrorIs(t, err, ErrNotificationNotFound)
	_, err = s.MarkRead(ctx, "2", n.ID)
	require.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestMarkAllReadAndUnreadCount(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	a := add(t, s, "1", "a")
	add(t, s, "1", "b")
	add(t, s, "1", "c")
	add(t, s, "2", "other")
	_, err := s.MarkRead(ctx, "1", a.ID)
	require.NoError(t, err)

	count, err := s.UnreadCount(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	changed, err := s.MarkAllRead(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, int64(2), changed)

	count, err = s.UnreadCount(ctx, "1")
	require.NoError(t, err)
	require.Zero(t, count)

	count, err = s.UnreadCount(ctx, "2")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	changed, err = s.MarkAllRead(ctx, "1")
	require.NoError(t, err)
	require.Zero(t, changed)
}
