package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHierarchicalMerging covers global -> project -> override.
func TestHierarchicalMerging(t *testing.T) {
	tmpDir := t.TempDir()
	xdg := filepath.Join(tmpDir, "xdg")
	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "ratedesk"), 0755))
	t.Setenv("XDG_CONFIG_HOME", xdg)

	global := `
api:
  base_url: https://global.example.com
  timeout: 10s
tui:
  theme: mono
logging:
  level: info
  format:
    preset: simple
`
	require.NoError(t, os.WriteFile(filepath.Join(xdg, "ratedesk", "ratedesk.yml"), []byte(global), 0644))

	projectDir := filepath.Join(tmpDir, "project")
	require.NoError(t, os.MkdirAll(projectDir, 0755))
	project := `
api:
  base_url: https://project.example.com
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "ratedesk.yml"), []byte(project), 0644))

	override := `
[api]
token = "local-token"
`
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "ratedesk.override.toml"), []byte(override), 0644))

	cfg, err := LoadFrom(projectDir)
	require.NoError(t, err)

	assert.Equal(t, "https://project.example.com", cfg.API.BaseURL)
	assert.Equal(t, "10s", cfg.API.Timeout)
	assert.Equal(t, "local-token", cfg.API.Token)
	assert.Equal(t, "mono", cfg.TUI.Theme)

	logging, ok := cfg.Extensions["logging"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "debug", logging["level"])
	assert.NotNil(t, logging["format"], "nested keys from lower layers survive a one-level merge")
}

func TestLoadLayered(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "ratedesk.yml"), []byte("tui:\n  max_height: 4\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "ratedesk.override.yml"), []byte("tui:\n  max_height: 6\n"), 0644))

	layers, err := LoadLayered(tmpDir)
	require.NoError(t, err)

	assert.Nil(t, layers.Global)
	assert.Equal(t, 4, layers.Project.TUI.MaxHeight)
	require.Len(t, layers.Overrides, 1)
	assert.Equal(t, 6, layers.Final.TUI.MaxHeight)
	assert.Equal(t, filepath.Join(tmpDir, "ratedesk.yml"), layers.FilePaths[SourceProject])
	assert.Equal(t, 8, layers.Default.TUI.MaxHeight)
}

func TestMergeConfigsLeavesBaseUntouched(t *testing.T) {
	base := &Config{API: APIConfig{BaseURL: "http://a"}, Extensions: map[string]interface{}{"x": 1}}
	override := &Config{API: APIConfig{Burst: 4}, Extensions: map[string]interface{}{"y": 2}}

	merged := mergeConfigs(base, override)

	assert.Equal(t, "http://a", merged.API.BaseURL)
	assert.Equal(t, 4, merged.API.Burst)
	assert.Len(t, merged.Extensions, 2)
	assert.Len(t, base.Extensions, 1)
}
