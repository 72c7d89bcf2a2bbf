package domain

import (
	"sort"
	"strings"
)

// SortByField specifies which field to sort notifications by.
type SortByField string

const (
	SortByCreatedField    SortByField = "created"
	SortByTitleField      SortByField = "title"
	SortByReadStatusField SortByField = "read_status"
)

// IsValid checks if the sort by field is valid.
func (s SortByField) IsValid() bool {
	switch s {
	case SortByCreatedField, SortByTitleField, SortByReadStatusField:
		return true
	default:
		return false
	}
}

// SortOrder specifies the sort direction.
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// IsValid checks if the sort order is valid.
func (s SortOrder) IsValid() bool {
	return s == SortOrderAsc || s == SortOrderDesc
}

// SortOptions holds sorting options for notifications.
type SortOptions struct {
	Field SortByField
	Order SortOrder
}

// DefaultSortOptions returns newest first.
func DefaultSortOptions() SortOptions {
	return SortOptions{Field: SortByCreatedField, Order: SortOrderDesc}
}

// SortNotifications returns a sorted copy of notifs. Invalid options fall back
// to the defaults. Ties keep their input order.
func SortNotifications(notifs []Notification, opts SortOptions) []Notification {
	if !opts.Field.IsValid() {
		opts.Field = SortByCreatedField
	}
	if !opts.Order.IsValid() {
		opts.Order = SortOrderDesc
	}
	sorted := make([]Notification, len(notifs))
	copy(sorted, notifs)
	sort.SliceStable(sorted, func(i, j int) bool {
		c := compareByField(sorted[i], sorted[j], opts.Field)
		if opts.Order == SortOrderDesc {
			return c > 0
		}
		return c < 0
	})
	return sorted
}

// SortNewestFirst sorts by creation time, newest first.
func SortNewestFirst(notifs []Notification) []Notification {
	return SortNotifications(notifs, DefaultSortOptions())
}

func compareByField(i, j Notification, field SortByField) int {
	switch field {
	case SortByTitleField:
		return strings.Compare(strings.ToLower(i.Title), strings.ToLower(j.Title))
	case SortByReadStatusField:
		// ascending puts unread first
		switch {
		case i.IsRead == j.IsRead:
			return 0
		case !i.IsRead:
			return -1
		default:
			return 1
		}
	default:
		return i.CreatedAt.Compare(j.CreatedAt)
	}
}
