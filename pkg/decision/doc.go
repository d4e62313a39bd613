// Package decision defines the core value types shared by the policy engine
// and the router: the user Question awaiting a routing decision and the
// RuntimeSnapshot describing device and network capability at decision time.
//
// Both types are immutable by convention. A Question is created once by the
// UI layer and never mutated; a retry or fallback attempt is a brand-new
// Question with a fresh id. A RuntimeSnapshot is constructed fresh for each
// decision and must not change while an evaluation is in flight.
package decision
