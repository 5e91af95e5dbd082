package config

import (
	"fmt"
	"net/url"
)

// Validate rejects configs that cannot drive a session.
func Validate(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("config: unsupported version %d (expected 1)", cfg.Version)
	}
	parsed, err := url.Parse(cfg.Service.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: service.base_url %q is not an absolute URL", cfg.Service.BaseURL)
	}
	if cfg.Service.TimeoutSeconds < 0 {
		return fmt.Errorf("config: service.timeout_seconds must not be negative")
	}
	switch cfg.UI {
	case "auto", "live", "plain":
	default:
		return fmt.Errorf("config: ui %q is invalid (expected auto|live|plain)", cfg.UI)
	}
	return nil
}
