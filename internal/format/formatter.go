// Package format renders notification lists for CLI commands.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/agence-immo/agence/internal/colors"
	"github.com/agence-immo/agence/internal/domain"
)

// Formatter writes notifications to a writer.
type Formatter interface {
	FormatNotifications(notifications []domain.Notification, writer io.Writer) error
}

// FormatterType names an output style.
type FormatterType string

const (
	// FormatterTypeSimple prints the ID, creation time, and title.
	FormatterTypeSimple FormatterType = "simple"
	// FormatterTypeTable prints aligned columns under a colored header.
	FormatterTypeTable FormatterType = "table"
	// FormatterTypeCompact prints titles only.
	FormatterTypeCompact FormatterType = "compact"
	// FormatterTypeJSON prints the API list envelope.
	FormatterTypeJSON FormatterType = "json"
)

const (
	dateLayout   = "2006-01-02 15:04"
	titleWidth   = 32
	messageWidth = 40
)

// NewFormatter returns the formatter for formatterType, defaulting to simple.
func NewFormatter(formatterType FormatterType) Formatter {
	switch formatterType {
	case FormatterTypeTable:
		return tableFormatter{}
	case FormatterTypeCompact:
		return compactFormatter{}
	case FormatterTypeJSON:
		return jsonFormatter{}
	default:
		return simpleFormatter{}
	}
}

// IsValid reports whether t is a known formatter type.
func (t FormatterType) IsValid() bool {
	switch t {
	case FormatterTypeSimple, FormatterTypeTable, FormatterTypeCompact, FormatterTypeJSON:
		return true
	}
	return false
}

type simpleFormatter struct{}

func (simpleFormatter) FormatNotifications(notifications []domain.Notification, w io.Writer) error {
	for _, n := range notifications {
		if _, err := fmt.Fprintf(w, "%s  %s  %s %s\n", n.ID, n.CreatedAt.Local().Format(dateLayout), marker(n), n.Title); err != nil {
			return err
		}
	}
	return nil
}

type compactFormatter struct{}

func (compactFormatter) FormatNotifications(notifications []domain.Notification, w io.Writer) error {
	for _, n := range notifications {
		if _, err := fmt.Fprintln(w, n.Title); err != nil {
			return err
		}
	}
	return nil
}

type tableFormatter struct{}

func (tableFormatter) FormatNotifications(notifications []domain.Notification, w io.Writer) error {
	if len(notifications) == 0 {
		return nil
	}
	header := fmt.Sprintf("%-36s  %-16s  %-1s  %-*s  %s", "ID", "Date", "", titleWidth, "Title", "Message")
	if _, err := fmt.Fprintf(w, "%s%s%s\n", colors.Blue, header, colors.Reset); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%s%s\n", colors.Blue, strings.Repeat("-", utf8.RuneCountInString(header)), colors.Reset); err != nil {
		return err
	}
	for _, n := range notifications {
		_, err := fmt.Fprintf(w, "%-36s  %-16s  %s  %-*s  %s\n",
			n.ID,
			n.CreatedAt.Local().Format(dateLayout),
			marker(n),
			titleWidth, truncate(n.Title, titleWidth),
			truncate(strings.Join(strings.Fields(n.Message), " "), messageWidth))
		if err != nil {
			return err
		}
	}
	return nil
}

type jsonFormatter struct{}

func (jsonFormatter) FormatNotifications(notifications []domain.Notification, w io.Writer) error {
	if notifications == nil {
		notifications = []domain.Notification{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Notifications []domain.Notification `json:"notifications"`
	}{notifications})
}

func marker(n domain.Notification) string {
	if n.IsUnread() {
		return "*"
	}
	return " "
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-3]) + "..."
}
