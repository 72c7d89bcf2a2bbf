package main

import (
	"fmt"
	"time"

	"github.com/agence-immo/agence/cmd"
	"github.com/agence-immo/agence/internal/client"
	"github.com/agence-immo/agence/internal/config"
	"github.com/agence-immo/agence/internal/logging"
	"github.com/agence-immo/agence/internal/poller"
	"github.com/agence-immo/agence/internal/session"
	"github.com/agence-immo/agence/internal/tui/state"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// programRunner runs a bubbletea model until it quits.
type programRunner func(m tea.Model) error

func runProgram(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus()).Run()
	return err
}

// NewWatchCmd creates the watch command.
func NewWatchCmd(run programRunner) *cobra.Command {
	if run == nil {
		panic("NewWatchCmd: program runner dependency cannot be nil")
	}
	var apiURL, userID, role string
	var interval time.Duration

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Open the notification inbox",
		Long: `Open the interactive notification inbox for a user.

The inbox polls the server while the terminal has focus and pauses
when it loses it.

USAGE:
    agence watch --user <id> [OPTIONS]

OPTIONS:
    --url <url>           Server URL (default: api_url)
    --user <id>           User id (required)
    --role <role>         Role carried by the session
    --interval <dur>      Poll interval (default: poll_interval)
    -h, --help            Show this help

KEYS:
    up/down, k/j   move
    enter          open and mark read
    a              mark all read
    r              refresh
    q              quit`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			if apiURL == "" {
				apiURL = config.Get("api_url", "http://localhost:8080")
			}
			cookie, err := session.Encode(session.Session{UserID: session.UserID(userID), Role: role})
			if err != nil {
				return fmt.Errorf("watch: %w", err)
			}
			api, err := client.New(apiURL, cookie)
			if err != nil {
				return fmt.Errorf("watch: %w", err)
			}
			if err := api.Health(c.Context()); err != nil {
				return fmt.Errorf("watch: server unreachable: %w", err)
			}

			notifier := state.NewNotifier()
			opts := poller.OptionsFromConfig()
			if interval > 0 {
				opts = append(opts, poller.WithInterval(interval))
			}
			opts = append(opts,
				poller.WithLogger(logging.With("component", "poller", "user", userID)),
				poller.WithOnChange(notifier.OnChange),
			)
			p := poller.New(api, opts...)
			defer p.Unmount()

			logging.Info("watch started", "url", apiURL, "interval", p.Interval().String())
			if err := run(state.NewModel(c.Context(), p, api, notifier)); err != nil {
				return fmt.Errorf("watch: %w", err)
			}
			return nil
		},
	}
	watchCmd.Flags().StringVar(&apiURL, "url", "", "Server URL")
	watchCmd.Flags().StringVar(&userID, "user", "", "User id")
	watchCmd.Flags().StringVar(&role, "role", "", "Role")
	watchCmd.Flags().DurationVar(&interval, "interval", 0, "Poll interval")
	_ = watchCmd.MarkFlagRequired("user")
	return watchCmd
}

func init() {
	cmd.RootCmd.AddCommand(NewWatchCmd(runProgram))
}
