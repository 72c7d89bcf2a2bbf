// Package render draws the notification inbox rows, header, and footer.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/agence-immo/agence/internal/colors"
	"github.com/agence-immo/agence/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const (
	markerWidth         = 2
	ageWidth            = 5
	defaultTitleWidth   = 30
	columnSpacing       = 4
	unreadMarker        = "●"
	readMarker          = " "
	ellipsis            = "…"
	minimumMessageWidth = 10
)

// DefaultWidth is used until the terminal reports its size.
const DefaultWidth = 80

// HeaderState defines the inputs needed to render the header.
type HeaderState struct {
	UnreadCount int
	Total       int
	Loading     bool
	Hidden      bool
}

// RowState defines the inputs needed to render a notification row.
type RowState struct {
	Notification domain.Notification
	Width        int
	Selected     bool
	Now          time.Time
}

// Header renders the inbox title line.
func Header(state HeaderState) string {
	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ansiColorNumber(colors.Blue)))

	title := fmt.Sprintf("Notifications  %d unread / %d", state.UnreadCount, state.Total)
	switch {
	case state.Loading:
		title += "  (chargement…)"
	case state.Hidden:
		title += "  (en pause)"
	}
	return style.Render(title)
}

// Row renders one notification.
func Row(row RowState) string {
	width := row.Width
	if width <= 0 {
		width = DefaultWidth
	}
	n := row.Notification

	marker := readMarker
	if n.IsUnread() {
		marker = unreadMarker
	}
	titleWidth := defaultTitleWidth
	messageWidth := width - markerWidth - titleWidth - ageWidth - columnSpacing
	if messageWidth < minimumMessageWidth {
		messageWidth = minimumMessageWidth
	}

	line := fmt.Sprintf("%-*s%-*s  %-*s  %*s",
		markerWidth, marker,
		titleWidth, truncate(n.Title, titleWidth),
		messageWidth, truncate(oneLine(n.Message), messageWidth),
		ageWidth, Age(n.CreatedAt, row.Now),
	)

	style := lipgloss.NewStyle()
	if n.IsUnread() {
		style = style.Bold(true)
	}
	if row.Selected {
		style = style.
			Background(lipgloss.Color(ansiColorNumber(colors.Blue))).
			Foreground(lipgloss.Color("0"))
	}
	return style.Render(line)
}

// Empty renders the placeholder shown when there is nothing to list.
func Empty(loading bool) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	if loading {
		return style.Render("Chargement des notifications…")
	}
	return style.Render("Aucune notification")
}

// Footer renders the status message and key help.
func Footer(status string) string {
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	help := []string{
		"↑/↓: move",
		"Enter: open",
		"a: mark all read",
		"r: refresh",
		"q: quit",
	}
	footer := helpStyle.Render(strings.Join(help, "  |  "))
	if status == "" {
		return footer
	}
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(colors.Yellow)))
	return statusStyle.Render(status) + "\n" + footer
}

// Age renders a compact relative age such as 5m or 3d.
func Age(created, now time.Time) string {
	if created.IsZero() {
		return ""
	}
	d := now.Sub(created)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return strconv.Itoa(int(d/time.Minute)) + "m"
	case d < 24*time.Hour:
		return strconv.Itoa(int(d/time.Hour)) + "h"
	default:
		return strconv.Itoa(int(d/(24*time.Hour))) + "d"
	}
}

func truncate(value string, width int) string {
	if width <= 0 || utf8.RuneCountInString(value) <= width {
		return value
	}
	return string([]rune(value)[:width-1]) + ellipsis
}

func oneLine(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// ansiColorNumber maps an escape sequence like "\033[0;34m" to its basic color index.
func ansiColorNumber(ansi string) string {
	lastSemicolon := strings.LastIndex(ansi, ";")
	if lastSemicolon == -1 || !strings.HasSuffix(ansi, "m") {
		return ""
	}
	code, err := strconv.Atoi(ansi[lastSemicolon+1 : len(ansi)-1])
	if err != nil || code < 30 || code > 37 {
		return ""
	}
	return strconv.Itoa(code - 30)
}
