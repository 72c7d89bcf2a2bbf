package main

import (
	"fmt"

	"github.com/agence-immo/agence/cmd"
	"github.com/agence-immo/agence/internal/colors"
	"github.com/agence-immo/agence/internal/domain"
	"github.com/agence-immo/agence/internal/format"
	"github.com/spf13/cobra"
)

const listCommandLong = `List a user's notifications from the local database.

USAGE:
    agence list --user <id> [OPTIONS]

OPTIONS:
    --user <id>          User id (required)
    --unread             Only show unread notifications
    --sort <field>       Sort by: created, title, read_status (default: created)
    --order <order>      Sort order: asc, desc (default: desc)
    --format <format>    Output format: simple, table, compact, json (default: simple)
    --db <path>          SQLite database path (default: db_path)
    -h, --help           Show this help`

// NewListCmd creates the list command.
func NewListCmd(open storeOpener) *cobra.Command {
	if open == nil {
		panic("NewListCmd: store opener dependency cannot be nil")
	}
	var userID, sortBy, order, outputFormat, dbPath string
	var unreadOnly bool

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications",
		Long:  listCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			opts := domain.SortOptions{Field: domain.SortByField(sortBy), Order: domain.SortOrder(order)}
			if !opts.Field.IsValid() {
				return fmt.Errorf("list: invalid sort field %q", sortBy)
			}
			if !opts.Order.IsValid() {
				return fmt.Errorf("list: invalid sort order %q", order)
			}
			formatterType := format.FormatterType(outputFormat)
			if !formatterType.IsValid() {
				return fmt.Errorf("list: invalid format %q", outputFormat)
			}

			return withStore(open, dbPath, func(s notificationStore) error {
				list, err := s.List(c.Context(), userID, !unreadOnly)
				if err != nil {
					return fmt.Errorf("list: %w", err)
				}
				if len(list) == 0 && formatterType != format.FormatterTypeJSON {
					colors.LogInfo("No notifications found")
					return nil
				}
				list = domain.SortNotifications(list, opts)
				return format.NewFormatter(formatterType).FormatNotifications(list, c.OutOrStdout())
			})
		},
	}
	listCmd.Flags().StringVar(&userID, "user", "", "User id")
	listCmd.Flags().BoolVar(&unreadOnly, "unread", false, "Only show unread notifications")
	listCmd.Flags().StringVar(&sortBy, "sort", string(domain.SortByCreatedField), "Sort field")
	listCmd.Flags().StringVar(&order, "order", string(domain.SortOrderDesc), "Sort order")
	listCmd.Flags().StringVar(&outputFormat, "format", string(format.FormatterTypeSimple), "Output format")
	listCmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path")
	_ = listCmd.MarkFlagRequired("user")
	return listCmd
}

func init() {
	cmd.RootCmd.AddCommand(NewListCmd(openConfiguredStore))
}
