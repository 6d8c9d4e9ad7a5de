// Package internal contains the core implementation packages for varfmt.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - value: Stringification, numeric coercion and truthiness of bound values
//   - params: Placeholder attribute parsing and validation
//   - expr: Compiled expressions for expr= placeholders
//   - binding: Render contexts resolving names to values
//   - formats: Registry of named custom formats such as comma-numeric
//   - variable: Compiled variable references and the render pipeline
//   - document: Placeholder scanning and whole-document rendering
//   - errors: Configuration, lookup and evaluation error taxonomy
//   - logging: Structured logging on charmbracelet/log and slog
//   - config: Viper-backed configuration
//   - watcher: Debounced file watching for render --watch
//   - version: Build information
//
// # Rendering Flow
//
// A document is scanned once into literals and compiled references. Each
// render resolves every reference against a binding.Context and runs it
// through the variable pipeline: custom format, case transforms, null
// substitution, base format, then truncation. Compiled references and
// pipelines are immutable and safe for concurrent use.
package internal
