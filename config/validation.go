package config

import (
	"fmt"
	"net/url"

	"github.com/grovetools/ratedesk/errors"
)

// Validate checks semantic constraints the schema cannot express.
func (c *Config) Validate() error {
	if err := validateAPI(&c.API); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigValidation, "invalid api configuration")
	}
	if err := validateTUI(&c.TUI); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigValidation, "invalid tui configuration")
	}
	return nil
}

func validateAPI(a *APIConfig) error {
	if a.BaseURL != "" {
		u, err := url.Parse(a.BaseURL)
		if err != nil {
			return fmt.Errorf("base_url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("base_url must use http or https, got %q", a.BaseURL)
		}
		if u.Host == "" {
			return fmt.Errorf("base_url has no host: %q", a.BaseURL)
		}
	}

	timeout, err := a.TimeoutDuration()
	if err != nil {
		return fmt.Errorf("timeout: %w", err)
	}
	if timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}

	if a.RateLimit < 0 {
		return fmt.Errorf("rate_limit cannot be negative")
	}
	if a.Burst < 0 {
		return fmt.Errorf("burst cannot be negative")
	}
	return nil
}

func validateTUI(t *TUIConfig) error {
	switch t.Placement {
	case "", PlacementAuto, PlacementTop, PlacementBottom:
	default:
		return fmt.Errorf("placement must be auto, top or bottom, got %q", t.Placement)
	}
	if t.MaxHeight < 0 {
		return fmt.Errorf("max_height cannot be negative")
	}
	if t.PlacementThreshold < 0 {
		return fmt.Errorf("placement_threshold cannot be negative")
	}
	return nil
}
