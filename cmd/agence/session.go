package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/agence-immo/agence/cmd"
	"github.com/agence-immo/agence/internal/config"
	"github.com/agence-immo/agence/internal/session"
	"github.com/spf13/cobra"
)

const defaultSessionMaxAge = 7 * 24 * time.Hour

// NewSessionCmd creates the session command and its subcommands.
func NewSessionCmd() *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Encode or decode session cookies",
		Args:  cobra.NoArgs,
	}
	sessionCmd.AddCommand(newSessionEncodeCmd(), newSessionDecodeCmd())
	return sessionCmd
}

func newSessionEncodeCmd() *cobra.Command {
	var userID, role string
	var setCookie bool

	encodeCmd := &cobra.Command{
		Use:   "encode",
		Short: "Print a session cookie value",
		Long: `Print the session cookie value for a user.

USAGE:
    agence session encode --user <id> [OPTIONS]

OPTIONS:
    --user <id>     User id (required)
    --role <role>   Role carried by the session
    --set-cookie    Print a complete Set-Cookie header instead
    -h, --help      Show this help`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			value, err := session.Encode(session.Session{UserID: session.UserID(userID), Role: role})
			if err != nil {
				return fmt.Errorf("session encode: %w", err)
			}
			if setCookie {
				maxAge := config.GetDuration("session_max_age", defaultSessionMaxAge)
				value = "Set-Cookie: " + session.NewCookie(value, maxAge).String()
			}
			_, err = fmt.Fprintln(c.OutOrStdout(), value)
			return err
		},
	}
	encodeCmd.Flags().StringVar(&userID, "user", "", "User id")
	encodeCmd.Flags().StringVar(&role, "role", "", "Role")
	encodeCmd.Flags().BoolVar(&setCookie, "set-cookie", false, "Print a Set-Cookie header")
	_ = encodeCmd.MarkFlagRequired("user")
	return encodeCmd
}

func newSessionDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <raw>",
		Short: "Print the session carried by a cookie value",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			s := session.Decode(args[0])
			if s == nil {
				return fmt.Errorf("session decode: not a valid session cookie")
			}
			data, err := json.Marshal(s)
			if err != nil {
				return fmt.Errorf("session decode: %w", err)
			}
			_, err = fmt.Fprintln(c.OutOrStdout(), string(data))
			return err
		},
	}
}

func init() {
	cmd.RootCmd.AddCommand(NewSessionCmd())
}
