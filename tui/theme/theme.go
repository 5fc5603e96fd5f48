package theme

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/ratedesk/config"
)

const defaultThemeName = "default"

// --- default palette (adaptive) ---
const (
	lightGreen  = "#4E7C5A"
	darkGreen   = "#98BB6C"
	lightYellow = "#A68A64"
	darkYellow  = "#FF9E3B"
	lightRed    = "#C34043"
	darkRed     = "#FF5D62"
	lightOrange = "#CC6B4E"
	darkOrange  = "#FFA066"
	lightCyan   = "#5B8BBE"
	darkCyan    = "#7E9CD8"
	lightViolet = "#674D7A"
	darkViolet  = "#957FB8"
	lightText   = "#2B2F42"
	darkText    = "#DCD7BA"
	lightMuted  = "#6C7086"
	darkMuted   = "#727169"
	lightBorder = "#B5BDC5"
	darkBorder  = "#363646"
	lightSelect = "#E2E6F3"
	darkSelect  = "#223249"
	lightSubtle = "#F7F7FB"
	darkSubtle  = "#1F1F28"
)

// Colors is the palette a theme is built from.
type Colors struct {
	Green              lipgloss.TerminalColor
	Yellow             lipgloss.TerminalColor
	Red                lipgloss.TerminalColor
	Orange             lipgloss.TerminalColor
	Cyan               lipgloss.TerminalColor
	Violet             lipgloss.TerminalColor
	Text               lipgloss.TerminalColor
	MutedText          lipgloss.TerminalColor
	Border             lipgloss.TerminalColor
	SelectedBackground lipgloss.TerminalColor
	SubtleBackground   lipgloss.TerminalColor
}

// Theme holds the pre-configured styles used across ratedesk output.
type Theme struct {
	Name   string
	Colors Colors

	Header lipgloss.Style
	Title  lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Bold     lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style

	TableHeader        lipgloss.Style
	TableBorder        lipgloss.Style
	UseAlternatingRows bool

	Box        lipgloss.Style
	DetailsBox lipgloss.Style
	Code       lipgloss.Style

	Input       lipgloss.Style
	Placeholder lipgloss.Style
	Cursor      lipgloss.Style

	Highlight lipgloss.Style
	Accent    lipgloss.Style

	// Rate card status badges.
	StatusDraft     lipgloss.Style
	StatusPublished lipgloss.Style
	StatusArchived  lipgloss.Style
}

var themeRegistry = map[string]func() Colors{
	"default": newDefaultColors,
	"mono":    newMonoColors,
}

// DefaultTheme is resolved once from RATEDESK_THEME or tui.theme.
var DefaultTheme = NewThemeWithName(getThemeName())

// NewThemeWithName constructs a theme from a palette name, falling back to default.
func NewThemeWithName(name string) *Theme {
	key := normalizeThemeName(name)
	builder, ok := themeRegistry[key]
	if !ok {
		key = defaultThemeName
		builder = themeRegistry[key]
	}
	return newThemeFromColors(builder(), key)
}

// RenderHeader renders a header with the default styling.
func RenderHeader(title string) string {
	return DefaultTheme.Header.Render(title)
}

// RenderStatus renders text with the style for a notification level or
// rate card status.
func RenderStatus(status, text string) string {
	switch status {
	case "success", "published":
		return DefaultTheme.Success.Render(text)
	case "error":
		return DefaultTheme.Error.Render(text)
	case "warning", "draft":
		return DefaultTheme.Warning.Render(text)
	case "info":
		return DefaultTheme.Info.Render(text)
	case "archived":
		return DefaultTheme.Muted.Render(text)
	default:
		return text
	}
}

func newThemeFromColors(colors Colors, name string) *Theme {
	return &Theme{
		Name:   name,
		Colors: colors,

		Header: lipgloss.NewStyle().
			Bold(true).
			MarginTop(1).
			MarginBottom(1),

		Title: lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			MarginBottom(1),

		Success: lipgloss.NewStyle().Foreground(colors.Green).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(colors.Red).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(colors.Yellow).Bold(true),
		Info:    lipgloss.NewStyle().Foreground(colors.Cyan).Bold(true),

		Bold:   lipgloss.NewStyle().Bold(true),
		Normal: lipgloss.NewStyle(),
		Muted:  lipgloss.NewStyle().Faint(true),
		Selected: lipgloss.NewStyle().
			Background(colors.SelectedBackground).
			Foreground(colors.Text),

		TableHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Violet).
			Padding(0, 1),

		TableBorder: lipgloss.NewStyle().
			Foreground(colors.Border),

		UseAlternatingRows: name != "mono",

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Border).
			Padding(1, 2).
			Margin(1, 0),

		DetailsBox: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colors.Violet).
			Padding(0, 1),

		Code: lipgloss.NewStyle().
			Background(colors.SubtleBackground).
			Foreground(colors.Text).
			Padding(0, 1),

		Input:       lipgloss.NewStyle().Foreground(colors.Text),
		Placeholder: lipgloss.NewStyle().Foreground(colors.MutedText).Italic(true),
		Cursor:      lipgloss.NewStyle().Foreground(colors.Orange).Bold(true),

		Highlight: lipgloss.NewStyle().Foreground(colors.Orange).Bold(true),
		Accent:    lipgloss.NewStyle().Foreground(colors.Violet).Bold(true),

		StatusDraft:     lipgloss.NewStyle().Foreground(colors.Yellow),
		StatusPublished: lipgloss.NewStyle().Foreground(colors.Green).Bold(true),
		StatusArchived:  lipgloss.NewStyle().Foreground(colors.MutedText),
	}
}

func normalizeThemeName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, " ", "-")
	return strings.ReplaceAll(normalized, "_", "-")
}

func getThemeName() string {
	if name := normalizeThemeName(os.Getenv("RATEDESK_THEME")); name != "" {
		return name
	}

	cfg, err := config.LoadDefault()
	if err != nil || cfg == nil {
		return defaultThemeName
	}
	if name := normalizeThemeName(cfg.TUI.Theme); name != "" {
		return name
	}
	return defaultThemeName
}

func newDefaultColors() Colors {
	return Colors{
		Green:              lipgloss.AdaptiveColor{Light: lightGreen, Dark: darkGreen},
		Yellow:             lipgloss.AdaptiveColor{Light: lightYellow, Dark: darkYellow},
		Red:                lipgloss.AdaptiveColor{Light: lightRed, Dark: darkRed},
		Orange:             lipgloss.AdaptiveColor{Light: lightOrange, Dark: darkOrange},
		Cyan:               lipgloss.AdaptiveColor{Light: lightCyan, Dark: darkCyan},
		Violet:             lipgloss.AdaptiveColor{Light: lightViolet, Dark: darkViolet},
		Text:               lipgloss.AdaptiveColor{Light: lightText, Dark: darkText},
		MutedText:          lipgloss.AdaptiveColor{Light: lightMuted, Dark: darkMuted},
		Border:             lipgloss.AdaptiveColor{Light: lightBorder, Dark: darkBorder},
		SelectedBackground: lipgloss.AdaptiveColor{Light: lightSelect, Dark: darkSelect},
		SubtleBackground:   lipgloss.AdaptiveColor{Light: lightSubtle, Dark: darkSubtle},
	}
}

// newMonoColors sticks to the 16 ANSI colors so the terminal's own palette applies.
func newMonoColors() Colors {
	return Colors{
		Green:              lipgloss.Color("2"),
		Yellow:             lipgloss.Color("3"),
		Red:                lipgloss.Color("1"),
		Orange:             lipgloss.Color("3"),
		Cyan:               lipgloss.Color("6"),
		Violet:             lipgloss.Color("5"),
		Text:               lipgloss.Color("7"),
		MutedText:          lipgloss.Color("8"),
		Border:             lipgloss.Color("8"),
		SelectedBackground: lipgloss.Color("0"),
		SubtleBackground:   lipgloss.Color("0"),
	}
}
