// Package pipeline wires the decision path together: rule snapshot,
// policy evaluation, routing, and the surrounding audit, metrics, and
// logging. The policy engine and router stay pure; everything with a
// side effect lives here.
//
// The pipeline also owns the local-failure fallback gate. A failed
// local execution can only reach the cloud through RequestFallback
// followed by an explicit Confirm; Cancel abandons the question.
package pipeline
