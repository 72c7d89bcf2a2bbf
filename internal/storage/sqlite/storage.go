// Package sqlite provides a SQLite-backed notification repository.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agence-immo/agence/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var _ domain.NotificationRepository = (*SQLiteStorage)(nil)

// SQLiteStorage implements domain.NotificationRepository using SQLite.
type SQLiteStorage struct {
	db  *sqlx.DB
	now func() time.Time
}

// Option configures a SQLiteStorage.
type Option func(*SQLiteStorage)

// WithClock sets the time source used for creation and read times.
func WithClock(now func() time.Time) Option {
	return func(s *SQLiteStorage) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSQLiteStorage opens (or creates) the database at dbPath and applies
// pending schema migrations.
func NewSQLiteStorage(dbPath string, opts ...Option) (*SQLiteStorage, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite storage: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite storage: create db directory: %w", err)
	}

	dsn := "file:" + dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: open db: %w", err)
	}

	s := &SQLiteStorage{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.runMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying SQLite connection.
func (s *SQLiteStorage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// notificationRow is the column layout of the notifications table.
type notificationRow struct {
	ID        string         `db:"id"`
	UserID    string         `db:"user_id"`
	Title     string         `db:"title"`
	Message   string         `db:"message"`
	Link      string         `db:"link"`
	IsRead    bool           `db:"is_read"`
	ReadAt    sql.NullString `db:"read_at"`
	CreatedAt string         `db:"created_at"`
}

const selectColumns = "id, user_id, title, message, link, is_read, read_at, created_at"

func (r notificationRow) toDomain() (domain.Notification, error) {
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("sqlite storage: notification %s created_at: %w", r.ID, err)
	}
	n := domain.Notification{
		ID:        r.ID,
		UserID:    r.UserID,
		Title:     r.Title,
		Message:   r.Message,
		Link:      r.Link,
		IsRead:    r.IsRead,
		CreatedAt: created,
	}
	if r.ReadAt.Valid {
		readAt, err := parseTime(r.ReadAt.String)
		if err != nil {
			return domain.Notification{}, fmt.Errorf("sqlite storage: notification %s read_at: %w", r.ID, err)
		}
		n.ReadAt = &readAt
	}
	return n, nil
}

// Add stores n. Empty IDs get a UUID and a zero creation time is set to now.
func (s *SQLiteStorage) Add(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	n.CreatedAt = n.CreatedAt.UTC()
	if err := n.Validate(); err != nil {
		return domain.Notification{}, fmt.Errorf("sqlite storage: add notification: %w", err)
	}

	var readAt sql.NullString
	if n.ReadAt != nil {
		readAt = sql.NullString{String: formatTime(*n.ReadAt), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, title, message, link, is_read, read_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, n.Title, n.Message, n.Link, n.IsRead, readAt, formatTime(n.CreatedAt),
	)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("sqlite storage: add notification: %w", err)
	}
	return n, nil
}

// List returns the user's notifications, newest first.
func (s *SQLiteStorage) List(ctx context.Context, userID string, includeRead bool) ([]domain.Notification, error) {
	query := "SELECT " + selectColumns + " FROM notifications WHERE user_id = ?"
	if !includeRead {
		query += " AND is_read = 0"
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	var rows []notificationRow
	if err := s.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("sqlite storage: list notifications: %w", err)
	}
	out := make([]domain.Notification, 0, len(rows))
	for _, r := range rows {
		n, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// Get returns one notification owned by userID.
func (s *SQLiteStorage) Get(ctx context.Context, userID, id string) (domain.Notification, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Notification{}, ErrInvalidNotificationID
	}
	var row notificationRow
	err := s.db.GetContext(ctx, &row,
		"SELECT "+selectColumns+" FROM notifications WHERE user_id = ? AND id = ?", userID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Notification{}, fmt.Errorf("%w: %s", ErrNotificationNotFound, id)
	}
	if err != nil {
		return domain.Notification{}, fmt.Errorf("sqlite storage: get notification: %w", err)
	}
	return row.toDomain()
}

// MarkRead marks one notification read. An already read notification keeps
// its original read time.
func (s *SQLiteStorage) MarkRead(ctx context.Context, userID, id string) (domain.Notification, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Notification{}, ErrInvalidNotificationID
	}
	_, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET is_read = 1, read_at = ? WHERE user_id = ? AND id = ? AND is_read = 0",
		formatTime(s.now()), userID, id)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("sqlite storage: mark notification read: %w", err)
	}
	return s.Get(ctx, userID, id)
}

// MarkAllRead marks every unread notification of userID read.
func (s *SQLiteStorage) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET is_read = 1, read_at = ? WHERE user_id = ? AND is_read = 0",
		formatTime(s.now()), userID)
	if err != nil {
		return 0, fmt.Errorf("sqlite storage: mark all read: %w", err)
	}
	changed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite storage: mark all read: %w", err)
	}
	return changed, nil
}

// UnreadCount returns the number of unread notifications of userID.
func (s *SQLiteStorage) UnreadCount(ctx context.Context, userID string) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0", userID); err != nil {
		return 0, fmt.Errorf("sqlite storage: unread count: %w", err)
	}
	return count, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	if t, err := time.Parse(timeLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}
