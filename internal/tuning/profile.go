package tuning

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// gaussianProfile generates one smooth, non-negative delta profile within all
// constraint bounds.
//
// The Gaussian shape makes the smoothness constraint hold by construction: a
// bell of amplitude peak has curvature of at most peak/sigma², so choosing
//
//	sigma >= sqrt(peak / maxSecondDerivative)
//
// keeps the second difference of the delta curve under the bound without a
// reject-and-retry loop, which would otherwise eat the cycle budget.
//
// scale narrows the peak amplitude; the search loop lowers it across cycles.
func gaussianProfile(stream *Stream, baseline []float64, c Constraints, scale float64) []float64 {
	n := len(baseline)
	deltas := make([]float64, n)
	if n == 0 {
		return deltas
	}

	maxSecondDeriv := c.Smoothness.MaxSecondDerivative

	// Per-bin ceiling: tightest of the absolute and ratio limits.
	limits := make([]float64, n)
	for i, b := range baseline {
		limits[i] = math.Min(c.MaxBinDeltaNm, b*c.MaxBinDeltaRatio)
	}
	globalLimit := floats.Min(limits) * scale

	if globalLimit <= 0 || maxSecondDeriv <= 0 {
		return deltas
	}

	peak := stream.Uniform(0, globalLimit)
	if peak <= 0 {
		return deltas
	}

	// Smallest width that keeps the bell's curvature under the bound.
	minSigma := math.Sqrt(peak / maxSecondDeriv)
	maxSigma := math.Max(float64(n), minSigma+0.1)
	sigma := stream.Uniform(minSigma, maxSigma)

	center := stream.Uniform(0, float64(n-1))

	for i := range deltas {
		z := (float64(i) - center) / sigma
		d := peak * math.Exp(-0.5*z*z)
		// The clamp covers floating-point rounding at the per-bin caps.
		deltas[i] = clamp(d, 0, limits[i])
	}
	return deltas
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
