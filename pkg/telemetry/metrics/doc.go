// Package metrics exposes Prometheus metrics for the decision
// pipeline: decision counts by route and rule, policy matches and
// blocks, fallback outcomes, and decision latency.
package metrics
