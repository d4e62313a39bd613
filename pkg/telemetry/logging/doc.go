// Package logging configures structured logging on log/slog with
// redaction of sensitive values. Question content is never logged
// directly; anything that might carry user text goes through the
// redactor first.
package logging
