package main

import (
	"fmt"
	"strings"

	"github.com/agence-immo/agence/cmd"
	"github.com/agence-immo/agence/internal/domain"
	"github.com/spf13/cobra"
)

// NewNotifyCmd creates the notify command.
func NewNotifyCmd(open storeOpener) *cobra.Command {
	if open == nil {
		panic("NewNotifyCmd: store opener dependency cannot be nil")
	}
	var userID, title, message, link, dbPath string

	notifyCmd := &cobra.Command{
		Use:   "notify",
		Short: "Create a notification for a user",
		Long: `Create a notification for a user and print its id.

USAGE:
    agence notify --user <id> --title <title> --message <message> [OPTIONS]

OPTIONS:
    --user <id>         Recipient user id (required)
    --title <title>     Title (required)
    --message <text>    Body (required)
    --link <path>       Back-office link opened from the notification
    --db <path>         SQLite database path (default: db_path)
    -h, --help          Show this help`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return withStore(open, dbPath, func(s notificationStore) error {
				n, err := s.Add(c.Context(), domain.Notification{
					UserID:  strings.TrimSpace(userID),
					Title:   title,
					Message: message,
					Link:    link,
				})
				if err != nil {
					return fmt.Errorf("notify: %w", err)
				}
				_, err = fmt.Fprintln(c.OutOrStdout(), n.ID)
				return err
			})
		},
	}
	notifyCmd.Flags().StringVar(&userID, "user", "", "Recipient user id")
	notifyCmd.Flags().StringVar(&title, "title", "", "Title")
	notifyCmd.Flags().StringVar(&message, "message", "", "Body")
	notifyCmd.Flags().StringVar(&link, "link", "", "Back-office link")
	notifyCmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path")
	for _, name := range []string{"user", "title", "message"} {
		_ = notifyCmd.MarkFlagRequired(name)
	}
	return notifyCmd
}

func init() {
	cmd.RootCmd.AddCommand(NewNotifyCmd(openConfiguredStore))
}
