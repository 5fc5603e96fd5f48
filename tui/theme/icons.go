package theme

import "os"

// Icons used by the console output and the dropdown menu.
var (
	IconSuccess   string
	IconError     string
	IconWarning   string
	IconInfo      string
	IconCheck     string
	IconUnchecked string
	IconExpand    string
	IconCollapse  string
	IconClear     string
	IconPointer   string
)

func init() {
	if os.Getenv("RATEDESK_ICONS") == "ascii" {
		IconSuccess = "[ok]"
		IconError = "[x]"
		IconWarning = "[!]"
		IconInfo = "[i]"
		IconCheck = "[x]"
		IconUnchecked = "[ ]"
		IconExpand = "v"
		IconCollapse = "^"
		IconClear = "x"
		IconPointer = ">"
		return
	}

	IconSuccess = "✓"
	IconError = "✗"
	IconWarning = "⚠"
	IconInfo = "ℹ"
	IconCheck = "◉"
	IconUnchecked = "○"
	IconExpand = "▾"
	IconCollapse = "▴"
	IconClear = "×"
	IconPointer = "›"
}
