// Package spec loads the OpenAPI document describing the symbol store API.
// The document is read once at startup and drives the tool catalog; it is
// never mutated afterwards.
package spec

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Operation holds the fields of a path operation the tool catalog cares
// about. Everything else in the document is ignored.
type Operation struct {
	Summary     string `yaml:"summary"`
	Description string `yaml:"description"`
}

// Document is the parsed OpenAPI spec: paths with their operations, and the
// named component schemas.
type Document struct {
	Paths      map[string]map[string]Operation `yaml:"paths"`
	Components struct {
		Schemas map[string]map[string]any `yaml:"schemas"`
	} `yaml:"components"`
}

// Load reads and parses the OpenAPI YAML document at path. A missing or
// malformed file is an error; callers treat it as fatal since the whole tool
// catalog depends on the document.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec file %s: %w", path, err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse spec file %s: %w", path, err)
	}

	return &doc, nil
}

// Summary returns the summary for a path operation, or "" when the path,
// method, or summary is absent. Method is matched case-insensitively.
func (d *Document) Summary(path, method string) string {
	ops, ok := d.Paths[path]
	if !ok {
		return ""
	}
	op, ok := ops[strings.ToLower(method)]
	if !ok {
		return ""
	}
	return op.Summary
}

// Schema returns the named component schema, or nil when absent.
func (d *Document) Schema(name string) map[string]any {
	return d.Components.Schemas[name]
}
