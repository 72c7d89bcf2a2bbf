package state

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agence-immo/agence/internal/domain"
	"github.com/agence-immo/agence/internal/poller"
	"github.com/agence-immo/agence/internal/tui/render"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	headerHeight = 2
	footerHeight = 2
)

// Persister writes read state back to the server.
type Persister interface {
	MarkRead(ctx context.Context, id string) (domain.Notification, error)
	MarkAllRead(ctx context.Context) (int64, error)
}

// Model hosts one poller mount. Terminal focus stands in for page visibility.
type Model struct {
	ctx       context.Context
	cancel    context.CancelFunc
	poller    *poller.Poller
	persister Persister
	notifier  *Notifier
	now       func() time.Time

	snapshot poller.Snapshot
	cursor   int
	hidden   bool
	status   string
	viewport viewport.Model
	width    int
	height   int
	quitting bool
}

// NewModel returns the inbox model. notifier must be the one registered on p.
func NewModel(ctx context.Context, p *poller.Poller, persister Persister, notifier *Notifier) *Model {
	ctx, cancel := context.WithCancel(ctx)
	return &Model{
		ctx:       ctx,
		cancel:    cancel,
		poller:    p,
		persister: persister,
		notifier:  notifier,
		now:       time.Now,
		snapshot:  p.Snapshot(),
		viewport:  viewport.New(render.DefaultWidth, 10),
		width:     render.DefaultWidth,
	}
}

// Init mounts the poller.
func (m *Model) Init() tea.Cmd {
	m.poller.Mount(m.ctx)
	return m.notifier.wait(m.ctx)
}

// Update handles bubbletea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		m.refreshSnapshot()
		return m, m.notifier.wait(m.ctx)
	case tea.FocusMsg:
		m.hidden = false
		m.poller.SetVisibility(poller.Visible)
		return m, nil
	case tea.BlurMsg:
		m.hidden = true
		m.poller.SetVisibility(poller.Hidden)
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-headerHeight-footerHeight)
		m.syncViewport()
		return m, nil
	case markedReadMsg:
		if msg.Err != nil {
			m.status = fmt.Sprintf("mark read failed: %v", msg.Err)
		}
		return m, nil
	case markedAllReadMsg:
		if msg.Err != nil {
			m.status = fmt.Sprintf("mark all read failed: %v", msg.Err)
			return m, nil
		}
		m.status = fmt.Sprintf("%d marked read", msg.Updated)
		m.poller.OnMarkAllRead()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		m.poller.Unmount()
		m.cancel()
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "enter":
		return m, m.open()
	case "a":
		m.status = ""
		return m, m.markAllRead()
	case "r":
		m.status = ""
		m.poller.Refresh()
	}
	return m, nil
}

// open marks the selected notification read locally and on the server.
func (m *Model) open() tea.Cmd {
	n, ok := m.selected()
	if !ok {
		return nil
	}
	m.status = ""
	if n.Link != "" {
		m.status = "lien: " + n.Link
	}
	if n.IsRead {
		return nil
	}
	m.poller.OnNotificationClick(n.ID)
	m.refreshSnapshot()
	ctx, persister, id := m.ctx, m.persister, n.ID
	return func() tea.Msg {
		_, err := persister.MarkRead(ctx, id)
		return markedReadMsg{ID: id, Err: err}
	}
}

func (m *Model) markAllRead() tea.Cmd {
	ctx, persister := m.ctx, m.persister
	return func() tea.Msg {
		updated, err := persister.MarkAllRead(ctx)
		return markedAllReadMsg{Updated: updated, Err: err}
	}
}

func (m *Model) selected() (domain.Notification, bool) {
	list := m.snapshot.Notifications
	if m.cursor < 0 || m.cursor >= len(list) {
		return domain.Notification{}, false
	}
	return list[m.cursor], true
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
	m.syncViewport()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.snapshot.Notifications) {
		m.cursor = len(m.snapshot.Notifications) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) refreshSnapshot() {
	snap := m.poller.Snapshot()
	if snap.Version < m.snapshot.Version {
		return
	}
	m.snapshot = snap
	m.clampCursor()
	m.syncViewport()
}

func (m *Model) syncViewport() {
	list := m.snapshot.Notifications
	if len(list) == 0 {
		m.viewport.SetContent(render.Empty(m.snapshot.IsLoading))
		m.viewport.GotoTop()
		return
	}
	now := m.now()
	rows := make([]string, len(list))
	for i, n := range list {
		rows[i] = render.Row(render.RowState{
			Notification: n,
			Width:        m.width,
			Selected:     i == m.cursor,
			Now:          now,
		})
	}
	m.viewport.SetContent(strings.Join(rows, "\n"))

	// keep the cursor on screen
	if m.cursor < m.viewport.YOffset {
		m.viewport.SetYOffset(m.cursor)
	} else if m.cursor >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

// View renders the inbox.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	header := render.Header(render.HeaderState{
		UnreadCount: m.snapshot.UnreadCount,
		Total:       len(m.snapshot.Notifications),
		Loading:     m.snapshot.IsLoading,
		Hidden:      m.hidden,
	})
	return header + "\n\n" + m.viewport.View() + "\n" + render.Footer(m.status)
}
