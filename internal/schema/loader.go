package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Document represents the root of a YAML schema description file.
type Document struct {
	// Version of the schema document format (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Schemas is the list of type declarations in the document.
	Schemas []*Schema `yaml:"schemas"`
}

// LoadFile loads and parses a YAML schema file from the given path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a Document.
func Parse(data []byte) (*Document, error) {
	var doc Document

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
	}

	if doc.Version == "" {
		doc.Version = "1"
	}

	for _, s := range doc.Schemas {
		if err := s.normalize(); err != nil {
			return nil, err
		}
	}

	return &doc, nil
}

// Marshal serializes a Document to YAML.
func Marshal(doc *Document) ([]byte, error) {
	return yaml.Marshal(doc)
}

// WriteFile writes a Document to the given path.
func WriteFile(doc *Document, path string) error {
	data, err := Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal schema document: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write schema file %s: %w", path, err)
	}

	return nil
}
