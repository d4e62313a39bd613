// Package recorder builds and writes audit records without blocking
// the decision path. Records are queued on a buffered channel and
// drained by a background worker; a full queue drops the record and
// logs, it never stalls a decision.
package recorder
