// Package store provides rule storage for the policy engine.
//
// Every provider exposes the same contract: Snapshot returns an
// immutable, validated rule set. Evaluation always runs against a
// snapshot, so rules loaded mid-request never change a decision in
// flight.
//
// Three providers are available:
//
//   - MemoryProvider holds a fixed rule set, useful for tests and
//     embedded defaults.
//   - FileProvider loads rules from a YAML file and can watch it for
//     changes, swapping in a fresh snapshot after each valid reload.
//   - SQLiteStore persists rules in a local SQLite database and backs
//     the rule editing surface. It also satisfies Provider.
//
// Invalid rule sets are rejected atomically. A provider never serves a
// partially applied update: either the whole new set validates and
// becomes the current snapshot, or the previous snapshot stays.
package store
