package plan

import (
	"errors"
	"fmt"

	"parsegen/internal/directive"
)

// Configuration error codes. Every synthesis failure is one of these,
// reported with the offending schema and field/variant identity.
const (
	CodeDuplicateDirective    = "duplicate_directive"
	CodeUnsupportedLiteral    = "unsupported_literal"
	CodeCondOnNonOptional     = "cond_on_non_optional"
	CodeMissingSelector       = "missing_selector"
	CodeMissingRepresentation = "missing_representation"
	CodeAmbiguousUnionMode    = "ambiguous_union_mode"
	CodeUnresolvedNamedType   = "unresolved_named_type"
	CodeUnboundFieldRef       = "unbound_field_reference"
	CodeDuplicateDiscriminant = "duplicate_discriminant"
	CodeDuplicateWildcard     = "duplicate_wildcard"
)

// ConfigError is a fatal configuration error detected during synthesis.
// Synthesis never produces a partial plan: a schema either builds fully or
// fails with one of these.
type ConfigError struct {
	// Code is one of the Code* constants.
	Code string
	// Schema is the name of the schema being built.
	Schema string
	// Field is the offending field or variant identity, if any.
	Field string
	// Msg is the human-readable description.
	Msg string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	where := e.Schema
	if e.Field != "" {
		where += "." + e.Field
	}

	return fmt.Sprintf("[%s] %s: %s", e.Code, where, e.Msg)
}

// configErr builds a ConfigError.
func configErr(code, schemaName, field, format string, args ...any) *ConfigError {
	return &ConfigError{
		Code:   code,
		Schema: schemaName,
		Field:  field,
		Msg:    fmt.Sprintf(format, args...),
	}
}

// wrapDirectiveErr lifts a directive resolution error into a ConfigError,
// attaching the schema and field identity the resolver does not know about.
func wrapDirectiveErr(err error, schemaName, field string) error {
	var dErr *directive.Error
	if errors.As(err, &dErr) {
		return configErr(dErr.Code, schemaName, field, "directive %q: %s", dErr.Directive, dErr.Msg)
	}

	return err
}
