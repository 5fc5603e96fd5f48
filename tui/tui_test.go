package tui

import (
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestColorProfile(t *testing.T) {
	t.Setenv("COLORTERM", "")
	t.Setenv("CLICOLOR_FORCE", "1")
	assert.Equal(t, termenv.TrueColor, ColorProfile())

	t.Setenv("CLICOLOR_FORCE", "")
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, ColorProfile())
}
