// Package cmd provides the command-line interface for varfmt.
//
// This package implements the CLI commands using the Cobra framework.
//
// # Available Commands
//
//   - format: Format a single value with placeholder attributes
//   - render: Render a document containing variable placeholders
//   - formats: List the registered format tags
//   - config show: Print the resolved configuration
//   - version: Print build information
//
// # Command Examples
//
//	// Format one value
//	varfmt format --value 1234567.5 fmt=dollars-and-cents-with-commas
//
//	// Render a document with data from a YAML file
//	varfmt render page.html --data data.yml
//
//	// Re-render whenever the document or data changes
//	varfmt render page.html --data data.yml --output out.html --watch
//
// # Configuration
//
// Sources in order of precedence, highest first:
//
//  1. Command-line flags (--log-level, --on-error, etc.)
//  2. Environment variables (VARFMT_RENDER_ON_ERROR, VARFMT_LOGGING_LEVEL, etc.)
//  3. The configuration file: --config, then VARFMT_CONFIG_FILE, then .varfmt.yml
//  4. Built-in defaults
package cmd
