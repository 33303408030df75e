// SPDX-License-Identifier: MPL-2.0

// Package config loads and validates the run configuration for repub:
// defaults, an optional CUE config file validated against the embedded
// schema, and the flag overrides applied by the CLI. Validation failures are
// ConfigurationErrors: they abort the run before scanning starts.
package config
