package sqlite

import (
	"github.com/agence-immo/agence/internal/domain"
)

var (
	// ErrInvalidNotificationID indicates an empty notification ID.
	ErrInvalidNotificationID = domain.ErrInvalidNotificationID
	// ErrNotificationNotFound indicates that a notification cannot be found
	// for the requesting user.
	ErrNotificationNotFound = domain.ErrNotificationNotFound
)
