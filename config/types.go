package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Config represents the ratedesk.yml configuration.
type Config struct {
	Version string    `yaml:"version" json:"version" jsonschema:"description=Configuration version (e.g. '1.0')"`
	API     APIConfig `yaml:"api,omitempty" json:"api,omitempty" jsonschema:"description=Rate card API connection"`
	TUI     TUIConfig `yaml:"tui,omitempty" json:"tui,omitempty" jsonschema:"description=Terminal UI settings"`

	// Extensions captures all other top-level keys, e.g. the logging section.
	Extensions map[string]interface{} `yaml:",inline" json:"-" jsonschema:"-"`
}

// APIConfig describes how to reach the rate card backend.
type APIConfig struct {
	BaseURL   string  `yaml:"base_url,omitempty" json:"base_url,omitempty" jsonschema:"description=Base URL of the backend (without /api)"`
	Token     string  `yaml:"token,omitempty" json:"token,omitempty" jsonschema:"description=Bearer token; prefer token_file or token_env"`
	TokenFile string  `yaml:"token_file,omitempty" json:"token_file,omitempty" jsonschema:"description=File holding the bearer token, reloaded on change"`
	TokenEnv  string  `yaml:"token_env,omitempty" json:"token_env,omitempty" jsonschema:"description=Environment variable holding the bearer token"`
	Timeout   string  `yaml:"timeout,omitempty" json:"timeout,omitempty" jsonschema:"description=Per-request timeout (Go duration)"`
	RateLimit float64 `yaml:"rate_limit,omitempty" json:"rate_limit,omitempty" jsonschema:"minimum=0,description=Maximum requests per second (0 disables limiting)"`
	Burst     int     `yaml:"burst,omitempty" json:"burst,omitempty" jsonschema:"minimum=0,description=Request burst size"`
}

// TimeoutDuration parses Timeout, returning zero when unset.
func (a APIConfig) TimeoutDuration() (time.Duration, error) {
	if a.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(a.Timeout)
}

// Placement values for dropdown menus.
const (
	PlacementAuto   = "auto"
	PlacementTop    = "top"
	PlacementBottom = "bottom"
)

// TUIConfig holds terminal UI preferences.
type TUIConfig struct {
	Theme string `yaml:"theme,omitempty" json:"theme,omitempty" jsonschema:"enum=default,enum=mono,description=Color theme"`
	// Placement forces dropdown menus above or below the control.
	Placement string `yaml:"placement,omitempty" json:"placement,omitempty" jsonschema:"enum=auto,enum=top,enum=bottom"`
	// PlacementThreshold is the number of free rows below the control
	// under which auto placement opens the menu upward.
	PlacementThreshold int `yaml:"placement_threshold,omitempty" json:"placement_threshold,omitempty" jsonschema:"minimum=1"`
	MaxHeight          int `yaml:"max_height,omitempty" json:"max_height,omitempty" jsonschema:"minimum=1,description=Maximum visible menu rows"`
}

// SetDefaults fills in unset values.
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = "1.0"
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://localhost:8080"
	}
	if c.API.TokenEnv == "" {
		c.API.TokenEnv = "RATEDESK_TOKEN"
	}
	if c.API.Timeout == "" {
		c.API.Timeout = "30s"
	}
	if c.API.RateLimit > 0 && c.API.Burst == 0 {
		c.API.Burst = 1
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = "default"
	}
	if c.TUI.Placement == "" {
		c.TUI.Placement = PlacementAuto
	}
	if c.TUI.PlacementThreshold == 0 {
		c.TUI.PlacementThreshold = 10
	}
	if c.TUI.MaxHeight == 0 {
		c.TUI.MaxHeight = 8
	}
}

// UnmarshalExtension decodes a top-level section that is not part of the
// core schema (e.g. "logging") into target, which must be a pointer.
// A missing key leaves target untouched.
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	raw, ok := c.Extensions[key]
	if !ok {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}
	return nil
}

// ConfigSource identifies the origin of a configuration layer.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceGlobal   ConfigSource = "global"
	SourceProject  ConfigSource = "project"
	SourceOverride ConfigSource = "override"
)

// OverrideSource holds a raw configuration from an override file and its path.
type OverrideSource struct {
	Path   string
	Config *Config
}

// LayeredConfig holds each raw layer plus the merged result.
type LayeredConfig struct {
	Default   *Config
	Global    *Config
	Project   *Config
	Overrides []OverrideSource
	Final     *Config
	FilePaths map[ConfigSource]string
}
