package main

import (
	"fmt"

	"github.com/agence-immo/agence/cmd"
	"github.com/agence-immo/agence/internal/access"
	"github.com/spf13/cobra"
)

// NewGuardCmd creates the guard command.
func NewGuardCmd() *cobra.Command {
	var cookie string

	guardCmd := &cobra.Command{
		Use:   "guard <path>",
		Short: "Show the access decision for a path",
		Long: `Show the access decision for a request path.

Prints "allow" or "redirect <url>".

USAGE:
    agence guard <path> [OPTIONS]

OPTIONS:
    --cookie <raw>  Raw session cookie value (default: no session)
    -h, --help      Show this help`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			guard := access.NewGuard(RouteTableFromConfig())
			_, err := fmt.Fprintln(c.OutOrStdout(), guard.Decide(args[0], cookie).String())
			return err
		},
	}
	guardCmd.Flags().StringVar(&cookie, "cookie", "", "Raw session cookie value")
	return guardCmd
}

func init() {
	cmd.RootCmd.AddCommand(NewGuardCmd())
}
