// Package domain provides the domain layer for notifications.
// It contains business logic, value objects, and the persistence port.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Notification is one message addressed to a user.
// It is also the wire form of the notifications API.
type Notification struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Link      string     `json:"link,omitempty"`
	IsRead    bool       `json:"isRead"`
	ReadAt    *time.Time `json:"readAt"`
	CreatedAt time.Time  `json:"createdAt"`
}

// IsUnread reports whether the notification has not been read.
func (n *Notification) IsUnread() bool {
	return !n.IsRead
}

// MarkRead sets the read flag and the read time. A notification that is
// already read keeps its original read time.
func (n *Notification) MarkRead(now time.Time) *Notification {
	if n.IsRead && n.ReadAt != nil {
		return n
	}
	at := now.UTC()
	n.IsRead = true
	n.ReadAt = &at
	return n
}

// Validate validates the notification and returns an error if invalid.
func (n *Notification) Validate() error {
	if strings.TrimSpace(n.UserID) == "" {
		return fmt.Errorf("notification user id cannot be empty")
	}
	if strings.TrimSpace(n.Title) == "" && strings.TrimSpace(n.Message) == "" {
		return fmt.Errorf("notification needs a title or a message")
	}
	if n.ReadAt != nil && !n.IsRead {
		return fmt.Errorf("unread notification cannot have a read time")
	}
	return nil
}

// UnreadCount returns the number of unread notifications in list.
func UnreadCount(list []Notification) int {
	count := 0
	for i := range list {
		if !list[i].IsRead {
			count++
		}
	}
	return count
}
