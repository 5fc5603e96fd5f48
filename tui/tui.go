// Package tui holds terminal setup shared by the interactive commands.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// InitializeTUI prepares the terminal environment for TUI applications.
// `CLICOLOR_FORCE=1` or `COLORTERM=truecolor` force true color; `NO_COLOR`
// or a non-terminal stdout drop to plain ASCII.
//
// Call it at the start of any command that renders styled output.
func InitializeTUI() {
	lipgloss.SetColorProfile(ColorProfile())
}

// ColorProfile resolves the lipgloss color profile from the environment.
func ColorProfile() termenv.Profile {
	switch {
	case os.Getenv("CLICOLOR_FORCE") == "1" || os.Getenv("COLORTERM") == "truecolor":
		return termenv.TrueColor
	case os.Getenv("NO_COLOR") != "":
		return termenv.Ascii
	case !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()):
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// Interactive reports whether stdin and stdout are both terminals, which
// the pickers need.
func Interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}
