package uncertainty

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultBase is the exponent base used by Softmax (Euler's number).
const DefaultBase = math.E

// Softmax converts raw model scores into a probability distribution
// using base e. See SoftmaxBase.
func Softmax(scores []float64) ([]float64, error) {
	return SoftmaxBase(scores, DefaultBase)
}

// SoftmaxBase computes base^x for each score and normalizes by the sum,
// yielding non-negative values that total 1.0. The input is not
// modified.
//
// Large scores overflow base^x to +Inf; callers needing numerical
// stability should subtract the maximum score from every entry before
// calling, which leaves the output unchanged.
func SoftmaxBase(scores []float64, base float64) ([]float64, error) {
	if len(scores) == 0 {
		return nil, ErrEmptyInput
	}
	if base <= 0 {
		return nil, ErrInvalidBase
	}

	exps := make([]float64, len(scores))
	for i, s := range scores {
		exps[i] = math.Pow(base, s)
	}

	sum := floats.Sum(exps)
	floats.Scale(1/sum, exps)
	return exps, nil
}
