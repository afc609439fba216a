package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and parses a test plan file. The format follows the file
// extension: .json is JSON, everything else is YAML.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(raw, path)
}

// Parse parses test plan data and checks it against the document schema.
// The path is only consulted for its extension and may be empty for YAML
// input.
func Parse(raw []byte, path string) (*Document, error) {
	var doc Document
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := checkShape(raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parse JSON config: %w", err)
		}
		return &doc, nil
	}

	jsonRaw, err := yamlToJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("parse YAML config: %w", err)
	}
	if err := checkShape(jsonRaw); err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse YAML config: %w", err)
	}
	return &doc, nil
}
