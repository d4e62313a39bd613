// Package retention enforces audit retention limits. A pruner deletes
// records past the retention window or over the record cap, and a
// cron scheduler runs it unattended.
package retention
