// Package config loads the tool configuration file.
package config

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Config is the .gradescribe.yml schema.
type Config struct {
	Version int           `yaml:"version"`
	Service ServiceConfig `yaml:"service"`
	UI      string        `yaml:"ui"`
	Export  ExportConfig  `yaml:"export"`
}

// ServiceConfig points at the transcription service.
type ServiceConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKeyEnv      string `yaml:"api_key_env"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ExportConfig controls where merged answers are recorded.
type ExportConfig struct {
	Path string `yaml:"path"`
}

// Parse decodes a config document with strict field checking.
func Parse(data []byte) (Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Config{}, fmt.Errorf("parse config: multiple YAML documents are not supported")
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
