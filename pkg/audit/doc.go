// Package audit defines the decision audit record and its storage
// contract.
//
// Every routing decision, including blocked and failed ones, produces
// one audit record. Records carry identifiers, the chosen route, the
// rule that produced it, and timing. They never carry raw question
// text; content is stored only as a SHA-256 hash so the audit trail
// cannot leak what the user asked.
//
// Subpackages:
//
//   - recorder writes records asynchronously so the decision path
//     never blocks on storage.
//   - storage provides SQLite and in-memory backends.
//   - retention prunes old records on a cron schedule.
package audit
