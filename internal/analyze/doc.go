// Package analyze is the Go-source schema frontend: it loads packages with
// go/packages and derives record schemas from exported struct declarations,
// reading decode directives from struct tags.
package analyze
