// Package state holds the bubbletea model of the notification inbox.
package state

import (
	"context"

	"github.com/agence-immo/agence/internal/poller"
	tea "github.com/charmbracelet/bubbletea"
)

// changedMsg tells the model that the poller state moved.
type changedMsg struct{}

// markedReadMsg reports the outcome of persisting one read.
type markedReadMsg struct {
	ID  string
	Err error
}

// markedAllReadMsg reports the outcome of the bulk mark-read.
type markedAllReadMsg struct {
	Updated int64
	Err     error
}

// Notifier forwards poller changes to the bubbletea program. Bursts of
// changes collapse into one pending signal; the model reads the latest
// snapshot when it handles it.
type Notifier struct {
	ch chan struct{}
}

// NewNotifier returns a Notifier.
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan struct{}, 1)}
}

// OnChange is suitable for poller.WithOnChange.
func (n *Notifier) OnChange(poller.Snapshot) {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

func (n *Notifier) wait(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-n.ch:
			return changedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}
