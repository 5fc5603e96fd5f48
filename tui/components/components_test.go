package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderHelpers(t *testing.T) {
	assert.Contains(t, RenderHeader("Rate cards", "3 total"), "3 total")
	assert.Contains(t, RenderKeyValue("Status", "draft"), "Status:")
	assert.Contains(t, RenderSection("Pricing", "body"), "body")
	assert.Equal(t, 3, strings.Count(RenderList([]string{"a", "b", "c"}, true), "\n")+1)
	assert.Contains(t, RenderBox("Title", "inner"), "inner")
}
