// Package telemetry groups the observability surfaces: structured
// logging with content redaction and Prometheus metrics. The decision
// engine itself never logs or measures; telemetry hangs off the
// pipeline around it.
package telemetry
