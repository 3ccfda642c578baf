// Package plan synthesizes decode plans from schemas: for each field it
// infers a default decode step from the declared type, layers directive
// overrides on top, and assembles field steps into record plans and union
// dispatch tables. The output is an abstract plan consumed by a separate
// code-emission stage; this package never decodes input itself.
package plan
