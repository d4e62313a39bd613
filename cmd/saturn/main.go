// Saturn is a deterministic policy and routing decision engine for a
// client-resident AI assistant.
//
// Given a question, a policy rule set, and a snapshot of the device
// runtime, it decides where the question should run (on-device or
// cloud), enforces privacy and cost policy on the way, and leaves an
// audit record for every decision.
//
// Usage:
//
//	# Decide where a question should run
//	saturn decide "summarize my meeting notes" --privacy auto
//
//	# Validate a rule file
//	saturn rules validate rules.yaml
//
//	# List the active rules
//	saturn rules list
//
//	# Inspect the audit trail
//	saturn audit list --limit 20
//
//	# Show version information
//	saturn version
package main

func main() {
	Execute()
}
