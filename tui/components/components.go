// Package components holds small rendering helpers shared by CLI output
// and the interactive pickers.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/ratedesk/tui/theme"
)

// RenderHeader creates a consistent header for a screen or command output.
func RenderHeader(title string, subtitle ...string) string {
	t := theme.DefaultTheme

	header := t.Header.Render(title)
	if len(subtitle) > 0 && subtitle[0] != "" {
		return lipgloss.JoinVertical(lipgloss.Left, header, t.Muted.Render(subtitle[0]))
	}
	return header
}

// RenderBox renders content in the theme's box with an optional title line.
func RenderBox(title, content string) string {
	t := theme.DefaultTheme
	if title != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, t.Title.Render(title), content)
	}
	return t.Box.Render(content)
}

// RenderKeyValue creates a key-value display
func RenderKeyValue(key, value string) string {
	t := theme.DefaultTheme
	return fmt.Sprintf("%s %s", t.Muted.Render(key+":"), value)
}

// RenderSection creates a section with a title and indented content.
func RenderSection(title, content string) string {
	t := theme.DefaultTheme
	titleLine := t.Header.Render(fmt.Sprintf("%s %s", theme.IconPointer, title))
	body := lipgloss.NewStyle().MarginLeft(2).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, titleLine, body)
}

// RenderList creates a bulleted or numbered list.
func RenderList(items []string, ordered bool) string {
	t := theme.DefaultTheme
	lines := make([]string, 0, len(items))
	for i, item := range items {
		prefix := t.Highlight.Render("-")
		if ordered {
			prefix = t.Highlight.Render(fmt.Sprintf("%2d.", i+1))
		}
		lines = append(lines, prefix+" "+item)
	}
	return strings.Join(lines, "\n")
}
