// Package cli provides helpers shared by the saturn command: output
// formatting for command results and signal-aware contexts for
// graceful shutdown.
package cli
