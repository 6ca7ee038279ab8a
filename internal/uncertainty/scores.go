package uncertainty

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// MarginConfidence computes 1 - (p1 - p2) where p1 and p2 are the two
// largest probabilities. Near 0 the top two classes are far apart
// (confident); near 1 they are almost tied. Pass sorted=true when dist
// is already ordered largest first to skip the internal sort.
func MarginConfidence(dist []float64, sorted bool) (float64, error) {
	if len(dist) < 2 {
		return 0, ErrTooFewClasses
	}
	if !sorted {
		dist = sortDescending(dist)
	}
	return 1 - (dist[0] - dist[1]), nil
}

// RatioConfidence computes p2 / p1 for the two largest probabilities.
// Fails with ErrZeroTopProbability when the largest probability is
// exactly zero, which only happens for degenerate input.
func RatioConfidence(dist []float64, sorted bool) (float64, error) {
	if len(dist) < 2 {
		return 0, ErrTooFewClasses
	}
	if !sorted {
		dist = sortDescending(dist)
	}
	if dist[0] == 0 {
		return 0, ErrZeroTopProbability
	}
	return dist[1] / dist[0], nil
}

// LeastConfidence computes (1 - pMax) * N/(N-1): 0 when one class holds
// all the probability, approaching 1 as the distribution flattens.
//
// When sorted is true the first element is trusted to be the maximum
// and the vector is not re-scanned; passing sorted=true with an
// unsorted vector silently yields a wrong score.
func LeastConfidence(dist []float64, sorted bool) (float64, error) {
	if len(dist) < 2 {
		return 0, ErrTooFewClasses
	}

	mostConfident := dist[0]
	if !sorted {
		mostConfident = floats.Max(dist)
	}

	n := float64(len(dist))
	return (1 - mostConfident) * (n / (n - 1)), nil
}

// EntropyScore computes the Shannon entropy -sum(p*log2(p)) of the
// distribution, normalized by log2(N) so the result is in the 0-1
// range for any number of classes. Zero probabilities contribute
// nothing to the sum (the 0*log2(0)=0 convention), so a one-hot
// distribution scores 0 rather than NaN.
func EntropyScore(dist []float64) (float64, error) {
	if len(dist) < 2 {
		return 0, ErrTooFewClasses
	}

	raw := 0.0
	for _, p := range dist {
		if p == 0 {
			continue
		}
		raw -= p * math.Log2(p)
	}
	return raw / math.Log2(float64(len(dist))), nil
}

// sortDescending returns a copy of dist ordered largest first; the
// caller's slice is never mutated.
func sortDescending(dist []float64) []float64 {
	cp := append([]float64(nil), dist...)
	sort.Sort(sort.Reverse(sort.Float64Slice(cp)))
	return cp
}
