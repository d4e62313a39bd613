// Package tokens provides deterministic token count estimation for routing
// decisions.
//
// The estimator intentionally avoids any external tokenizer dependency. It
// uses a fixed characters-per-token ratio so that identical input always
// produces an identical estimate, on every platform and across runs. The
// Estimator interface allows a model-specific tokenizer to be swapped in,
// provided the replacement stays pure and deterministic.
package tokens
