// Package schema defines the input data model for plan synthesis: record and
// union shapes, declared field types, raw directive attributes, the YAML
// schema document loader, and the two-phase type registry.
package schema
