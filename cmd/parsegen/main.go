// Package main provides the CLI entrypoint for parsegen.
//
// parsegen is a decode-plan synthesis tool that:
//   - Loads declarative schema descriptions (YAML files and/or annotated Go
//     packages)
//   - Registers every type, then seals the registry
//   - Synthesizes a deterministic decode plan per schema
//   - Exports the plans for a downstream code emitter
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"parsegen/internal/analyze"
	"parsegen/internal/diagnostic"
	"parsegen/internal/plan"
	"parsegen/internal/schema"
)

var (
	errColor  = color.New(color.FgRed)
	warnColor = color.New(color.FgYellow)
	infoColor = color.New(color.FgCyan)
)

func main() {
	schemaFiles := pflag.StringArray("schema", nil, "YAML schema file (repeatable)")
	pkgPatterns := pflag.StringArray("package", nil, "Go package pattern to analyze (repeatable)")
	out := pflag.String("out", "", "output file for exported plans (default stdout)")
	format := pflag.String("format", "yaml", "export format: yaml or json")
	debug := pflag.Bool("debug", false, "dump resolved plans to stderr")
	verbose := pflag.Bool("verbose", false, "enable debug logging")
	pflag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if len(*schemaFiles) == 0 && len(*pkgPatterns) == 0 {
		fmt.Fprintln(os.Stderr, "parsegen: at least one --schema or --package is required")
		pflag.Usage()
		os.Exit(2)
	}

	os.Exit(run(*schemaFiles, *pkgPatterns, *out, *format, *debug))
}

func run(schemaFiles, pkgPatterns []string, out, format string, debug bool) int {
	reg := schema.NewRegistry()

	var docs []*schema.Document

	for _, path := range schemaFiles {
		doc, err := schema.LoadFile(path)
		if err != nil {
			errColor.Fprintln(os.Stderr, err)
			return 1
		}

		if err := reg.RegisterAll(doc); err != nil {
			errColor.Fprintln(os.Stderr, err)
			return 1
		}

		slog.Debug("loaded schema file", "path", path, "schemas", len(doc.Schemas))
		docs = append(docs, doc)
	}

	if len(pkgPatterns) > 0 {
		schemas, err := analyze.NewAnalyzer().LoadPackages(pkgPatterns...)
		if err != nil {
			errColor.Fprintln(os.Stderr, err)
			return 1
		}

		for _, s := range schemas {
			if err := reg.Register(s); err != nil {
				errColor.Fprintln(os.Stderr, err)
				return 1
			}
		}

		slog.Debug("analyzed packages", "patterns", pkgPatterns, "schemas", len(schemas))
	}

	// Registration phase over; the registry is read-only from here on.
	reg.Seal()

	for _, doc := range docs {
		diags := schema.Validate(doc, reg)

		printDiagnostics(diags)

		if diags.HasErrors() {
			return 1
		}
	}

	builder := plan.NewBuilder(reg)

	var plans []*plan.Plan

	for _, name := range reg.Names() {
		p, err := builder.Build(reg.Lookup(name))
		if err != nil {
			var cfgErr *plan.ConfigError
			if errors.As(err, &cfgErr) {
				errColor.Fprintln(os.Stderr, cfgErr)
			} else {
				errColor.Fprintln(os.Stderr, err)
			}

			return 1
		}

		printDiagnostics(&p.Diagnostics)

		plans = append(plans, p)
	}

	slog.Info("synthesized plans", "count", len(plans))

	if debug {
		spew.Fdump(os.Stderr, plans)
	}

	return writePlans(plans, out, format)
}

func writePlans(plans []*plan.Plan, out, format string) int {
	var (
		data []byte
		err  error
	)

	switch format {
	case "yaml":
		data, err = plan.ExportYAML(plans)
	case "json":
		data, err = plan.ExportJSON(plans)
	default:
		errColor.Fprintf(os.Stderr, "unknown export format %q (want yaml or json)\n", format)
		return 2
	}

	if err != nil {
		errColor.Fprintln(os.Stderr, err)
		return 1
	}

	if out == "" {
		os.Stdout.Write(data)
		return 0
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		errColor.Fprintln(os.Stderr, err)
		return 1
	}

	slog.Info("wrote plans", "path", out, "format", format)

	return 0
}

func printDiagnostics(d *diagnostic.Diagnostics) {
	for _, e := range d.Errors {
		errColor.Fprintln(os.Stderr, e.String())
	}

	for _, w := range d.Warnings {
		warnColor.Fprintln(os.Stderr, w.String())
	}

	for _, i := range d.Infos {
		infoColor.Fprintln(os.Stderr, i.String())
	}
}
