package schema

import (
	"fmt"
	"sort"
)

// Registry maps type identifiers to their schemas. It follows a strict
// two-phase protocol: every schema is registered first, then the registry is
// sealed and becomes read-only for the synthesis phase. Sealed registries are
// safe for concurrent lookups.
type Registry struct {
	types  map[string]*Schema
	sealed bool
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*Schema)}
}

// Register adds a schema to the registry. It fails on duplicate names and
// after the registry has been sealed.
func (r *Registry) Register(s *Schema) error {
	if r.sealed {
		return fmt.Errorf("registry is sealed, cannot register %q", s.Name)
	}

	if s.Name == "" {
		return fmt.Errorf("cannot register schema without a name")
	}

	if _, exists := r.types[s.Name]; exists {
		return fmt.Errorf("schema %q already registered", s.Name)
	}

	r.types[s.Name] = s

	return nil
}

// RegisterAll registers every schema of a parsed document.
func (r *Registry) RegisterAll(doc *Document) error {
	for _, s := range doc.Schemas {
		if err := r.Register(s); err != nil {
			return err
		}
	}

	return nil
}

// Seal ends the registration phase. After Seal, Register fails and the
// registry is read-only.
func (r *Registry) Seal() {
	r.sealed = true
}

// Sealed reports whether the registration phase has ended.
func (r *Registry) Sealed() bool {
	return r.sealed
}

// Lookup returns the schema registered under name, or nil.
func (r *Registry) Lookup(name string) *Schema {
	return r.types[name]
}

// Names returns all registered type names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
