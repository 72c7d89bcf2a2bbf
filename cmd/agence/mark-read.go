package main

import (
	"errors"
	"fmt"

	"github.com/agence-immo/agence/cmd"
	"github.com/agence-immo/agence/internal/colors"
	"github.com/agence-immo/agence/internal/domain"
	"github.com/spf13/cobra"
)

// NewMarkReadCmd creates the mark-read command.
func NewMarkReadCmd(open storeOpener) *cobra.Command {
	if open == nil {
		panic("NewMarkReadCmd: store opener dependency cannot be nil")
	}
	var userID, dbPath string

	markReadCmd := &cobra.Command{
		Use:   "mark-read <id>",
		Short: "Mark a notification as read",
		Long: `Mark one of a user's notifications as read.

USAGE:
    agence mark-read --user <id> <notification-id>

OPTIONS:
    --user <id>     Owner of the notification (required)
    --db <path>     SQLite database path (default: db_path)
    -h, --help      Show this help`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id := args[0]
			return withStore(open, dbPath, func(s notificationStore) error {
				if _, err := s.MarkRead(c.Context(), userID, id); err != nil {
					if errors.Is(err, domain.ErrNotificationNotFound) {
						return fmt.Errorf("mark-read: notification %s not found", id)
					}
					return fmt.Errorf("mark-read: %w", err)
				}
				colors.Success(fmt.Sprintf("Notification %s marked as read", id))
				return nil
			})
		},
	}
	markReadCmd.Flags().StringVar(&userID, "user", "", "Owner user id")
	markReadCmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path")
	_ = markReadCmd.MarkFlagRequired("user")
	return markReadCmd
}

// NewMarkAllReadCmd creates the mark-all-read command.
func NewMarkAllReadCmd(open storeOpener) *cobra.Command {
	if open == nil {
		panic("NewMarkAllReadCmd: store opener dependency cannot be nil")
	}
	var userID, dbPath string

	markAllReadCmd := &cobra.Command{
		Use:   "mark-all-read",
		Short: "Mark all of a user's notifications as read",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return withStore(open, dbPath, func(s notificationStore) error {
				updated, err := s.MarkAllRead(c.Context(), userID)
				if err != nil {
					return fmt.Errorf("mark-all-read: %w", err)
				}
				colors.Success(fmt.Sprintf("%d notification(s) marked as read", updated))
				return nil
			})
		},
	}
	markAllReadCmd.Flags().StringVar(&userID, "user", "", "Owner user id")
	markAllReadCmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path")
	_ = markAllReadCmd.MarkFlagRequired("user")
	return markAllReadCmd
}

func init() {
	cmd.RootCmd.AddCommand(NewMarkReadCmd(openConfiguredStore), NewMarkAllReadCmd(openConfiguredStore))
}
