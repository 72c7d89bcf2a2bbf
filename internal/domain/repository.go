package domain

import (
	"context"
	"errors"
)

var (
	// ErrNotificationNotFound is returned when a notification is not found.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrInvalidNotificationID is returned when the notification ID is invalid.
	ErrInvalidNotificationID = errors.New("invalid notification ID")
)

// NotificationRepository defines the interface for notification persistence.
// Every operation is scoped to the owning user.
type NotificationRepository interface {
	// Add stores n, assigning an ID and creation time when they are zero.
	Add(ctx context.Context, n Notification) (Notification, error)

	// List returns the user's notifications, newest first.
	// When includeRead is false only unread notifications are returned.
	List(ctx context.Context, userID string, includeRead bool) ([]Notification, error)

	// Get returns one notification of the user.
	Get(ctx context.Context, userID, id string) (Notification, error)

	// MarkRead marks one notification as read.
	MarkRead(ctx context.Context, userID, id string) (Notification, error)

	// MarkAllRead marks every unread notification of the user as read
	// and returns how many changed.
	MarkAllRead(ctx context.Context, userID string) (int64, error)

	// UnreadCount returns the number of unread notifications of the user.
	UnreadCount(ctx context.Context, userID string) (int, error)
}
