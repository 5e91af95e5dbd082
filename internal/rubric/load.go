package rubric

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads, parses, and validates a rubric file.
func Load(path string) (Rubric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rubric{}, fmt.Errorf("read rubric: %w", err)
	}
	rubric, err := parse(data, path)
	if err != nil {
		return Rubric{}, err
	}
	normalized, err := Normalize(rubric)
	if err != nil {
		return Rubric{}, err
	}
	return normalized, nil
}

func parse(data []byte, path string) (Rubric, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		return parseJSON(data)
	}
	return parseYAML(data)
}

func parseJSON(data []byte) (Rubric, error) {
	var rubric Rubric
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&rubric); err != nil {
		return Rubric{}, fmt.Errorf("parse json: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Rubric{}, fmt.Errorf("parse json: multiple documents are not supported")
		}
		return Rubric{}, fmt.Errorf("parse json: %w", err)
	}
	return rubric, nil
}

func parseYAML(data []byte) (Rubric, error) {
	var rubric Rubric
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&rubric); err != nil {
		return Rubric{}, fmt.Errorf("parse yaml: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Rubric{}, fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return Rubric{}, fmt.Errorf("parse yaml: %w", err)
	}
	return rubric, nil
}
