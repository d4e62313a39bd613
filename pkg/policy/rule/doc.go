/*
Package rule defines the policy rule data model: condition triples, the
closed Action sum type, and structural validation.

Rules are plain data. They are produced by an external editor, persisted by
a store (see pkg/policy/store), and consumed by the policy engine as an
immutable snapshot. All structural problems (missing action fields,
non-numeric values on numeric operators, empty condition lists) are caught
by Validate at load time so that evaluation itself never has to fail.

A rule in YAML form:

	id: block-ssn
	name: Block SSN content
	type: privacy
	enabled: true
	priority: 1
	conditions:
	  - field: content
	    operator: contains
	    value: "SSN"
	action:
	  type: block
	  reason: "pii"
*/
package rule
