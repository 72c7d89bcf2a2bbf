package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/agence-immo/agence/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []domain.Notification {
	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	return []domain.Notification{
		{ID: "n1", UserID: "7", Title: "Nouveau mandat", Message: "Visite\nsamedi", CreatedAt: created},
		{ID: "n2", UserID: "7", Title: "Compromis signé", Message: "Dossier 42", IsRead: true, CreatedAt: created},
	}
}

func TestNewFormatterDefaultsToSimple(t *testing.T) {
	assert.IsType(t, simpleFormatter{}, NewFormatter("unknown"))
	assert.IsType(t, tableFormatter{}, NewFormatter(FormatterTypeTable))
	assert.IsType(t, jsonFormatter{}, NewFormatter(FormatterTypeJSON))
	assert.IsType(t, compactFormatter{}, NewFormatter(FormatterTypeCompact))
}

func TestFormatterTypeIsValid(t *testing.T) {
	assert.True(t, FormatterTypeTable.IsValid())
	assert.False(t, FormatterType("xml").IsValid())
}

func TestSimpleFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatterTypeSimple).FormatNotifications(sample(), &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "n1  "))
	assert.True(t, strings.HasSuffix(lines[0], "* Nouveau mandat"))
	assert.True(t, strings.HasSuffix(lines[1], "  Compromis signé"))
}

func TestCompactFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatterTypeCompact).FormatNotifications(sample(), &buf))
	assert.Equal(t, "Nouveau mandat\nCompromis signé\n", buf.String())
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatterTypeTable).FormatNotifications(sample(), &buf))

	out := buf.String()
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "Visite samedi")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 4)
}

func TestTableFormatterEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatterTypeTable).FormatNotifications(nil, &buf))
	assert.Empty(t, buf.String())
}

func TestJSONFormatterUsesListEnvelope(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatterTypeJSON).FormatNotifications(nil, &buf))
	assert.JSONEq(t, `{"notifications":[]}`, buf.String())

	buf.Reset()
	require.NoError(t, NewFormatter(FormatterTypeJSON).FormatNotifications(sample(), &buf))
	var decoded struct {
		Notifications []domain.Notification `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Notifications, 2)
	assert.Equal(t, "n1", decoded.Notifications[0].ID)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
