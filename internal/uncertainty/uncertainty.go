// Package uncertainty scores a model's output probability distribution
// for active-learning sample selection. Every function is pure and
// returns a scalar in the 0-1 range where 1 is the most uncertain, so
// higher-scoring examples are the most valuable to label next.
package uncertainty

import "errors"

var (
	// ErrEmptyInput is returned by Softmax for a zero-length score vector.
	ErrEmptyInput = errors.New("uncertainty: score vector is empty")

	// ErrInvalidBase is returned by SoftmaxBase for a non-positive base.
	ErrInvalidBase = errors.New("uncertainty: softmax base must be positive")

	// ErrTooFewClasses is returned when a distribution has fewer than two
	// entries; the least-confidence and entropy normalizations divide by
	// N-1 and log2(N) respectively and are undefined at N=1.
	ErrTooFewClasses = errors.New("uncertainty: distribution needs at least two classes")

	// ErrZeroTopProbability is returned by RatioConfidence when the
	// largest probability is exactly zero.
	ErrZeroTopProbability = errors.New("uncertainty: top probability is zero")
)
