package tokens

import "unicode/utf8"

// CharsPerToken is the fixed characters-per-token ratio used by the simple
// estimator. Four characters per token is a reasonable approximation for
// English prose; it is a design choice, not a measured property of any
// specific model.
const CharsPerToken = 4

// Estimator estimates token counts for question text.
//
// Implementations must be pure functions: no I/O, no clock access, and
// identical results for identical input across runs and platforms.
type Estimator interface {
	// Estimate returns the estimated token count for the given text.
	Estimate(text string) int
}

// SimpleEstimator implements character-based token estimation with a fixed
// ratio. Every estimate is at least one token, empty text included, so
// numeric conditions and the auto-mode threshold always see a positive
// count.
type SimpleEstimator struct{}

// NewSimpleEstimator creates a new character-based token estimator.
func NewSimpleEstimator() SimpleEstimator {
	return SimpleEstimator{}
}

// Estimate returns max(1, character_count / CharsPerToken). Characters are
// counted as Unicode code points so the estimate does not vary with the
// byte encoding of the input.
func (SimpleEstimator) Estimate(text string) int {
	count := utf8.RuneCountInString(text) / CharsPerToken
	if count < 1 {
		return 1
	}
	return count
}

// Estimate is a convenience wrapper around the default SimpleEstimator.
func Estimate(text string) int {
	return SimpleEstimator{}.Estimate(text)
}
