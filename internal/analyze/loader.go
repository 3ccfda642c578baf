package analyze

import (
	"fmt"
	"go/types"
	"reflect"

	"golang.org/x/tools/go/packages"

	"parsegen/internal/schema"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// directiveTagKeys are the struct tag keys read as decode directives.
var directiveTagKeys = []string{"parse", "verify", "cond", "count"}

// Analyzer derives record schemas from annotated Go struct declarations.
// Unions have no Go declaration form and can only come from schema files.
type Analyzer struct {
	schemas []*schema.Schema
	seen    map[string]bool
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{seen: make(map[string]bool)}
}

// LoadPackages loads the specified packages and converts every exported
// struct type into a record schema. Patterns are standard Go package
// patterns (e.g., "./examples/netproto").
func (a *Analyzer) LoadPackages(patterns ...string) ([]*schema.Schema, error) {
	cfg := &packages.Config{Mode: LoadMode}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	for _, pkg := range pkgs {
		if err := a.processPackage(pkg); err != nil {
			return nil, fmt.Errorf("failed to process package %s: %w", pkg.PkgPath, err)
		}
	}

	return a.schemas, nil
}

// processPackage converts the exported struct types of one package.
func (a *Analyzer) processPackage(pkg *packages.Package) error {
	scope := pkg.Types.Scope()

	// Scope names are sorted, so schema order is deterministic.
	for _, name := range scope.Names() {
		obj := scope.Lookup(name)

		typeName, ok := obj.(*types.TypeName)
		if !ok || !typeName.Exported() {
			continue
		}

		st, ok := typeName.Type().Underlying().(*types.Struct)
		if !ok {
			continue
		}

		if a.seen[name] {
			return fmt.Errorf("type %q declared in more than one loaded package", name)
		}

		a.seen[name] = true

		s, err := structSchema(name, st)
		if err != nil {
			return err
		}

		a.schemas = append(a.schemas, s)
	}

	return nil
}

// structSchema converts one struct declaration into a record schema.
func structSchema(name string, st *types.Struct) (*schema.Schema, error) {
	rec := &schema.Record{}

	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)
		if !field.Exported() {
			continue
		}

		t, err := fieldType(field.Type())
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", name, field.Name(), err)
		}

		rec.Fields = append(rec.Fields, schema.Field{
			Name:  field.Name(),
			Index: len(rec.Fields),
			Type:  t,
			Attrs: fieldAttrs(reflect.StructTag(st.Tag(i))),
		})
	}

	return &schema.Schema{
		Name:   name,
		Kind:   schema.KindRecord,
		Record: rec,
	}, nil
}

// fieldAttrs extracts directive attributes from a struct tag.
func fieldAttrs(tag reflect.StructTag) schema.AttrList {
	var attrs schema.AttrList

	for _, key := range directiveTagKeys {
		if value := tag.Get(key); value != "" {
			attrs = append(attrs, schema.Attr{Name: key, Value: value})
		}
	}

	return attrs
}

// basicPrimitives maps Go basic kinds to declared primitive widths.
var basicPrimitives = map[types.BasicKind]struct {
	width  int
	signed bool
}{
	types.Uint8:  {8, false},
	types.Uint16: {16, false},
	types.Uint32: {32, false},
	types.Uint64: {64, false},
	types.Int8:   {8, true},
	types.Int16:  {16, true},
	types.Int32:  {32, true},
	types.Int64:  {64, true},
}

// fieldType converts a Go field type into a declared type expression:
// fixed-width integers map to primitives, pointers to optionals, slices to
// sequences, and named struct types to named references.
func fieldType(t types.Type) (*schema.TypeExpr, error) {
	switch tt := t.(type) {
	case *types.Basic:
		p, ok := basicPrimitives[tt.Kind()]
		if !ok {
			return nil, fmt.Errorf("unsupported basic type %s (need a fixed-width integer)", tt)
		}

		return &schema.TypeExpr{Kind: schema.TypePrimitive, Width: p.width, Signed: p.signed}, nil

	case *types.Pointer:
		elem, err := fieldType(tt.Elem())
		if err != nil {
			return nil, err
		}

		return &schema.TypeExpr{Kind: schema.TypeOptional, Elem: elem}, nil

	case *types.Slice:
		elem, err := fieldType(tt.Elem())
		if err != nil {
			return nil, err
		}

		return &schema.TypeExpr{Kind: schema.TypeSequence, Elem: elem}, nil

	case *types.Named:
		if _, ok := tt.Underlying().(*types.Struct); !ok {
			return nil, fmt.Errorf("unsupported named type %s (only struct references)", tt)
		}

		return &schema.TypeExpr{Kind: schema.TypeNamed, Name: tt.Obj().Name()}, nil

	default:
		return nil, fmt.Errorf("unsupported field type %s", t)
	}
}
