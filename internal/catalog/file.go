package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileDefinitions is the on-disk catalog document.
type FileDefinitions struct {
	Characters []Character `json:"characters" yaml:"characters"`
}

// Parse decodes a YAML (or JSON, which is valid YAML) catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc FileDefinitions
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(doc.Characters) == 0 {
		return nil, fmt.Errorf("decode catalog: no characters defined")
	}
	return New(doc.Characters)
}

// Load reads the catalog at path. An empty path yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}
