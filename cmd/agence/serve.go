package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/agence-immo/agence/cmd"
	"github.com/agence-immo/agence/internal/access"
	"github.com/agence-immo/agence/internal/config"
	"github.com/agence-immo/agence/internal/logging"
	"github.com/agence-immo/agence/internal/server"
	"github.com/spf13/cobra"
)

// RouteTableFromConfig builds the access table with the configured login and dashboard paths.
func RouteTableFromConfig() access.Table {
	table := access.DefaultTable()
	table.LoginPath = config.Get("login_path", table.LoginPath)
	table.DashboardPath = config.Get("dashboard_path", table.DashboardPath)
	return table
}

// NewServeCmd creates the serve command.
func NewServeCmd(open storeOpener) *cobra.Command {
	if open == nil {
		panic("NewServeCmd: store opener dependency cannot be nil")
	}
	var addr, dbPath string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the back office and notification API",
		Long: `Serve the guarded back-office pages and the notification API.

USAGE:
    agence serve [OPTIONS]

OPTIONS:
    --addr <addr>   Listen address (default: listen_addr)
    --db <path>     SQLite database path (default: db_path)
    -h, --help      Show this help`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			if addr == "" {
				addr = config.Get("listen_addr", ":8080")
			}
			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return withStore(open, dbPath, func(s notificationStore) error {
				logger := logging.With("component", "server")
				guard := access.NewGuard(RouteTableFromConfig(), access.WithLogger(logger))
				srv := server.New(s, guard, server.WithLogger(logger))
				if err := server.Run(ctx, addr, srv.Handler(), logger); err != nil {
					return fmt.Errorf("serve: %w", err)
				}
				return nil
			})
		},
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address")
	serveCmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path")
	return serveCmd
}

func init() {
	cmd.RootCmd.AddCommand(NewServeCmd(openConfiguredStore))
}
