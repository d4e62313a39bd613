// Package storage provides audit record persistence. The SQLite
// backend is the production store; the memory backend serves tests
// and ephemeral runs.
package storage
