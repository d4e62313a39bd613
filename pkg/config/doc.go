// Package config defines the saturn configuration file format and its
// loading pipeline: parse YAML, apply defaults, apply SATURN_*
// environment overrides, validate. Validation collects every problem
// instead of stopping at the first.
package config
