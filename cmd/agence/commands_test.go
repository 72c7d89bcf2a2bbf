package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agence-immo/agence/internal/access"
	"github.com/agence-immo/agence/internal/server"
	"github.com/agence-immo/agence/internal/session"
	"github.com/agence-immo/agence/internal/storage/sqlite"
	"github.com/agence-immo/agence/internal/tui/state"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, c *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&bytes.Buffer{})
	c.SetArgs(args)
	err := c.Execute()
	return out.String(), err
}

func tempStore(t *testing.T) storeOpener {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agence.db")
	return func(dbPath string) (notificationStore, error) {
		if dbPath == "" {
			dbPath = path
		}
		s, err := sqlite.NewSQLiteStorage(dbPath)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

func notify(t *testing.T, open storeOpener, user, title string) string {
	t.Helper()
	out, err := execute(t, NewNotifyCmd(open), "--user", user, "--title", title, "--message", "corps")
	require.NoError(t, err)
	return strings.TrimSpace(out)
}

func TestRunExitCodes(t *testing.T) {
	assert.Equal(t, 0, run(func() error { return nil }))
	assert.Equal(t, 1, run(func() error { return errors.New("boom") }))
}

func TestGuardCmd(t *testing.T) {
	cookie, err := session.Encode(session.Session{UserID: "7"})
	require.NoError(t, err)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "protected without session", args: []string{"/dashboard/edit/123"}, want: "redirect /login?returnTo=%2Fdashboard%2Fedit%2F123"},
		{name: "protected with session", args: []string{"/dashboard", "--cookie", cookie}, want: "allow"},
		{name: "auth page with session", args: []string{"/login", "--cookie", cookie}, want: "redirect /dashboard"},
		{name: "malformed cookie", args: []string{"/users", "--cookie", "garbage"}, want: "redirect /login?returnTo=%2Fusers"},
		{name: "unclassified", args: []string{"/annonces/42"}, want: "allow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, NewGuardCmd(), tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestGuardCmdRequiresPath(t *testing.T) {
	_, err := execute(t, NewGuardCmd())
	require.Error(t, err)
}

func TestSessionEncodeDecode(t *testing.T) {
	out, err := execute(t, NewSessionCmd(), "encode", "--user", "42", "--role", "agent")
	require.NoError(t, err)
	raw := strings.TrimSpace(out)
	assert.Equal(t, "%7B%22role%22%3A%22agent%22%2C%22userId%22%3A42%7D", raw)

	out, err = execute(t, NewSessionCmd(), "decode", raw)
	require.NoError(t, err)
	assert.JSONEq(t, `{"userId":"42","role":"agent"}`, out)
}

func TestSessionEncodeSetCookie(t *testing.T) {
	out, err := execute(t, NewSessionCmd(), "encode", "--user", "7", "--set-cookie")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Set-Cookie: session="))
	assert.Contains(t, out, "HttpOnly")
	assert.Contains(t, out, "Max-Age=604800")
}

func TestSessionEncodeRequiresUser(t *testing.T) {
	_, err := execute(t, NewSessionCmd(), "encode")
	require.Error(t, err)

	_, err = execute(t, NewSessionCmd(), "encode", "--user", " ")
	require.Error(t, err)
}

func TestSessionDecodeRejectsGarbage(t *testing.T) {
	_, err := execute(t, NewSessionCmd(), "decode", "not-json")
	require.Error(t, err)
}

func TestNotifyAndList(t *testing.T) {
	open := tempStore(t)
	first := notify(t, open, "7", "Offre reçue")
	second := notify(t, open, "7", "Nouveau mandat")
	notify(t, open, "8", "Autre agent")
	require.NotEqual(t, first, second)

	out, err := execute(t, NewListCmd(open), "--user", "7", "--format", "compact")
	require.NoError(t, err)
	assert.Equal(t, "Nouveau mandat\nOffre reçue\n", out)

	out, err = execute(t, NewListCmd(open), "--user", "7", "--format", "compact", "--sort", "title", "--order", "asc")
	require.NoError(t, err)
	assert.Equal(t, "Nouveau mandat\nOffre reçue\n", out)

	out, err = execute(t, NewListCmd(open), "--user", "7", "--format", "json")
	require.NoError(t, err)
	var decoded struct {
		Notifications []struct {
			ID     string `json:"id"`
			UserID string `json:"userId"`
		} `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Notifications, 2)
	assert.Equal(t, second, decoded.Notifications[0].ID)
}

func TestListRejectsInvalidOptions(t *testing.T) {
	open := tempStore(t)
	for _, args := range [][]string{
		{"--user", "7", "--sort", "level"},
		{"--user", "7", "--order", "sideways"},
		{"--user", "7", "--format", "xml"},
	} {
		_, err := execute(t, NewListCmd(open), args...)
		assert.Error(t, err, args)
	}
}

func TestListEmptyPrintsNothing(t *testing.T) {
	out, err := execute(t, NewListCmd(tempStore(t)), "--user", "7")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestMarkReadAndUnreadFilter(t *testing.T) {
	open := tempStore(t)
	id := notify(t, open, "7", "Offre reçue")
	notify(t, open, "7", "Nouveau mandat")

	_, err := execute(t, NewMarkReadCmd(open), "--user", "7", id)
	require.NoError(t, err)

	out, err := execute(t, NewListCmd(open), "--user", "7", "--unread", "--format", "compact")
	require.NoError(t, err)
	assert.Equal(t, "Nouveau mandat\n", out)
}

func TestMarkReadUnknownOrForeign(t *testing.T) {
	open := tempStore(t)
	id := notify(t, open, "7", "Offre reçue")

	_, err := execute(t, NewMarkReadCmd(open), "--user", "8", id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = execute(t, NewMarkReadCmd(open), "--user", "7", "does-not-exist")
	require.Error(t, err)
}

func TestMarkAllRead(t *testing.T) {
	open := tempStore(t)
	notify(t, open, "7", "Offre reçue")
	notify(t, open, "7", "Nouveau mandat")

	_, err := execute(t, NewMarkAllReadCmd(open), "--user", "7")
	require.NoError(t, err)

	out, err := execute(t, NewListCmd(open), "--user", "7", "--unread")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestMigrateReportsSchemaVersion(t *testing.T) {
	out, err := execute(t, NewMigrateCmd(tempStore(t)))
	require.NoError(t, err)
	assert.Equal(t, "schema version 2\n", out)
}

func TestConstructorsPanicOnNilDependency(t *testing.T) {
	assert.Panics(t, func() { NewListCmd(nil) })
	assert.Panics(t, func() { NewNotifyCmd(nil) })
	assert.Panics(t, func() { NewServeCmd(nil) })
	assert.Panics(t, func() { NewWatchCmd(nil) })
}

func TestWatchBuildsInboxAgainstServer(t *testing.T) {
	open := tempStore(t)
	store, err := open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	srv := httptest.NewServer(server.New(store, access.NewGuard(access.DefaultTable())).Handler())
	t.Cleanup(srv.Close)

	var got tea.Model
	runner := func(m tea.Model) error {
		got = m
		return nil
	}
	_, err = execute(t, NewWatchCmd(runner), "--url", srv.URL, "--user", "7", "--interval", "1h")
	require.NoError(t, err)
	assert.IsType(t, &state.Model{}, got)
}

func TestWatchFailsWhenServerUnreachable(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close()

	called := false
	_, err := execute(t, NewWatchCmd(func(tea.Model) error { called = true; return nil }), "--url", srv.URL, "--user", "7")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreachable")
	assert.False(t, called)
}
