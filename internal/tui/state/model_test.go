package state

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/agence-immo/agence/internal/domain"
	"github.com/agence-immo/agence/internal/poller"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePersister struct {
	mu       sync.Mutex
	read     []string
	allCalls int
	updated  int64
	readErr  error
	allErr   error
}

func (f *fakePersister) MarkRead(ctx context.Context, id string) (domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.read = append(f.read, id)
	return domain.Notification{ID: id, IsRead: true}, f.readErr
}

func (f *fakePersister) MarkAllRead(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.allCalls++
	return f.updated, f.allErr
}

func inbox() []domain.Notification {
	now := time.Now()
	return []domain.Notification{
		{ID: "n1", UserID: "7", Title: "Nouveau mandat", Message: "Visite samedi", Link: "/dashboard/mandats/1", CreatedAt: now},
		{ID: "n2", UserID: "7", Title: "Offre reçue", Message: "Rue des Lilas", CreatedAt: now.Add(-time.Hour)},
		{ID: "n3", UserID: "7", Title: "Compromis signé", Message: "Dossier 42", IsRead: true, CreatedAt: now.Add(-2 * time.Hour)},
	}
}

func setupModel(t *testing.T, persister *fakePersister) (*Model, *poller.Poller, *atomic.Int32) {
	t.Helper()
	calls := &atomic.Int32{}
	fetcher := poller.FetcherFunc(func(ctx context.Context, includeRead bool) ([]domain.Notification, error) {
		calls.Add(1)
		return inbox(), nil
	})
	notifier := NewNotifier()
	p := poller.New(fetcher, poller.WithInterval(time.Hour), poller.WithOnChange(notifier.OnChange))
	m := NewModel(context.Background(), p, persister, notifier)
	t.Cleanup(p.Unmount)

	cmd := m.Init()
	require.NotNil(t, cmd)
	p.Wait()
	_, cmd = m.Update(cmd())
	require.NotNil(t, cmd)
	return m, p, calls
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInitLoadsSnapshot(t *testing.T) {
	m, _, _ := setupModel(t, &fakePersister{})

	assert.False(t, m.snapshot.IsLoading)
	assert.Len(t, m.snapshot.Notifications, 3)
	assert.Equal(t, 2, m.snapshot.UnreadCount)
	assert.Contains(t, m.View(), "2 unread / 3")
	assert.Contains(t, m.View(), "Nouveau mandat")
}

func TestCursorMovementIsClamped(t *testing.T) {
	m, _, _ := setupModel(t, &fakePersister{})

	m.Update(key("up"))
	assert.Equal(t, 0, m.cursor)
	m.Update(key("down"))
	m.Update(key("j"))
	m.Update(key("j"))
	assert.Equal(t, 2, m.cursor)
	m.Update(key("k"))
	assert.Equal(t, 1, m.cursor)
}

func TestEnterMarksReadOptimisticallyAndPersists(t *testing.T) {
	persister := &fakePersister{}
	m, p, _ := setupModel(t, persister)

	_, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, 1, p.Snapshot().UnreadCount)
	assert.True(t, m.snapshot.Notifications[0].IsRead)
	assert.Contains(t, m.status, "/dashboard/mandats/1")

	msg := cmd()
	assert.Equal(t, markedReadMsg{ID: "n1"}, msg)
	assert.Equal(t, []string{"n1"}, persister.read)
}

func TestEnterOnReadNotificationDoesNotPersist(t *testing.T) {
	persister := &fakePersister{}
	m, _, _ := setupModel(t, persister)

	m.Update(key("down"))
	m.Update(key("down"))
	_, cmd := m.Update(key("enter"))
	assert.Nil(t, cmd)
	assert.Empty(t, persister.read)
}

func TestMarkReadFailureShowsStatus(t *testing.T) {
	m, _, _ := setupModel(t, &fakePersister{})

	m.Update(markedReadMsg{ID: "n1", Err: errors.New("boom")})
	assert.Contains(t, m.status, "mark read failed")
}

func TestMarkAllReadRefetchesAfterPersist(t *testing.T) {
	persister := &fakePersister{updated: 2}
	m, p, calls := setupModel(t, persister)
	require.EqualValues(t, 1, calls.Load())

	_, cmd := m.Update(key("a"))
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, markedAllReadMsg{Updated: 2}, msg)
	assert.Equal(t, 1, persister.allCalls)

	m.Update(msg)
	p.Wait()
	assert.EqualValues(t, 2, calls.Load())
	assert.Equal(t, "2 marked read", m.status)
}

func TestMarkAllReadFailureSkipsRefetch(t *testing.T) {
	persister := &fakePersister{allErr: errors.New("down")}
	m, p, calls := setupModel(t, persister)

	_, cmd := m.Update(key("a"))
	m.Update(cmd())
	p.Wait()
	assert.EqualValues(t, 1, calls.Load())
	assert.Contains(t, m.status, "mark all read failed")
}

func TestRefreshKeyFetches(t *testing.T) {
	m, p, calls := setupModel(t, &fakePersister{})

	m.Update(key("r"))
	p.Wait()
	assert.EqualValues(t, 2, calls.Load())
}

func TestFocusDrivesVisibility(t *testing.T) {
	m, p, calls := setupModel(t, &fakePersister{})

	m.Update(tea.BlurMsg{})
	assert.Contains(t, m.View(), "en pause")

	m.Update(tea.FocusMsg{})
	p.Wait()
	assert.EqualValues(t, 2, calls.Load())
	assert.NotContains(t, m.View(), "en pause")
}

func TestQuitUnmounts(t *testing.T) {
	m, p, calls := setupModel(t, &fakePersister{})

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, m.View())

	p.Refresh()
	p.Wait()
	assert.EqualValues(t, 1, calls.Load())
}

func TestWindowSizeResizesViewport(t *testing.T) {
	m, _, _ := setupModel(t, &fakePersister{})

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 20})
	assert.Equal(t, 120, m.viewport.Width)
	assert.Equal(t, 16, m.viewport.Height)
}
