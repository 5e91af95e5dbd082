package config

import "strings"

// Defaults applied by Normalize.
const (
	DefaultBaseURL        = "http://localhost:8600"
	DefaultAPIKeyEnv      = "GRADESCRIBE_API_KEY"
	DefaultTimeoutSeconds = 600
	DefaultExportPath     = "answers.duckdb"
)

// Normalize fills defaults and trims whitespace in place.
func Normalize(cfg *Config) {
	cfg.Service.BaseURL = strings.TrimSpace(cfg.Service.BaseURL)
	if cfg.Service.BaseURL == "" {
		cfg.Service.BaseURL = DefaultBaseURL
	}
	cfg.Service.APIKeyEnv = strings.TrimSpace(cfg.Service.APIKeyEnv)
	if cfg.Service.APIKeyEnv == "" {
		cfg.Service.APIKeyEnv = DefaultAPIKeyEnv
	}
	if cfg.Service.TimeoutSeconds == 0 {
		cfg.Service.TimeoutSeconds = DefaultTimeoutSeconds
	}
	cfg.UI = strings.ToLower(strings.TrimSpace(cfg.UI))
	if cfg.UI == "" {
		cfg.UI = "auto"
	}
	cfg.Export.Path = strings.TrimSpace(cfg.Export.Path)
	if cfg.Export.Path == "" {
		cfg.Export.Path = DefaultExportPath
	}
}
