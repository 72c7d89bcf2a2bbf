package main

import (
	"fmt"

	"github.com/agence-immo/agence/cmd"
	"github.com/spf13/cobra"
)

// NewMigrateCmd creates the migrate command. Opening the store applies pending migrations.
func NewMigrateCmd(open storeOpener) *cobra.Command {
	if open == nil {
		panic("NewMigrateCmd: store opener dependency cannot be nil")
	}
	var dbPath string

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return withStore(open, dbPath, func(s notificationStore) error {
				v, err := s.SchemaVersion(c.Context())
				if err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				_, err = fmt.Fprintf(c.OutOrStdout(), "schema version %d\n", v)
				return err
			})
		},
	}
	migrateCmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path")
	return migrateCmd
}

func init() {
	cmd.RootCmd.AddCommand(NewMigrateCmd(openConfiguredStore))
}
