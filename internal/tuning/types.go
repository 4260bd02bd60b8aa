// Package tuning implements the bounded stochastic search that proposes a
// small torque-curve adjustment and a matching calibration for an engine.
//
// The search is fully deterministic: all randomness flows through a single
// seeded Stream, consumed in a fixed order, so replaying the same inputs and
// seed reproduces the same proposal bit for bit. Candidates are Gaussian
// bell profiles whose width is chosen analytically so that the smoothness
// constraint holds before validation ever runs.
package tuning

// Calibration parameter names. The sampler always proposes exactly this set.
const (
	ParamAFRTarget      = "afr_target"
	ParamIgnTimingDeg   = "ign_timing_deg"
	ParamBoostTargetPsi = "boost_target_psi"
)

// Default constraint values applied when a field is absent from the request.
const (
	DefaultMaxPeakGainRatio    = 0.02
	DefaultMaxBinDeltaNm       = 8.0
	DefaultMaxBinDeltaRatio    = 0.03
	DefaultMaxSecondDerivative = 0.15
)

// BaselineCurve is the dyno curve the search adjusts: parallel arrays of
// strictly ascending RPM bins and finite, positive torque values. The caller
// validates it before the search runs; the curve is never mutated.
type BaselineCurve struct {
	RPMBins  []int     `json:"rpm_bins"`
	TorqueNm []float64 `json:"torque_nm"`
}

// Len returns the number of bins in the curve.
func (c BaselineCurve) Len() int { return len(c.RPMBins) }

// Smoothness bounds the discrete second difference of the delta profile.
type Smoothness struct {
	MaxSecondDerivative float64 `json:"max_second_derivative"`
}

// Constraints is the immutable safety envelope every proposal must satisfy.
type Constraints struct {
	MaxPeakGainRatio  float64               `json:"max_peak_gain_ratio"`
	MaxBinDeltaNm     float64               `json:"max_bin_delta_nm"`
	MaxBinDeltaRatio  float64               `json:"max_bin_delta_ratio"`
	Smoothness        Smoothness            `json:"smoothness"`
	CalibrationRanges map[string][2]float64 `json:"calibration_ranges"`
}

// withDefaults fills zero-valued limits with the built-in defaults. A zero
// limit can only come from an absent field: the schema validator rejects
// explicit zeroes for the fields it requires.
func (c Constraints) withDefaults() Constraints {
	if c.MaxPeakGainRatio == 0 {
		c.MaxPeakGainRatio = DefaultMaxPeakGainRatio
	}
	if c.MaxBinDeltaNm == 0 {
		c.MaxBinDeltaNm = DefaultMaxBinDeltaNm
	}
	if c.MaxBinDeltaRatio == 0 {
		c.MaxBinDeltaRatio = DefaultMaxBinDeltaRatio
	}
	if c.Smoothness.MaxSecondDerivative == 0 {
		c.Smoothness.MaxSecondDerivative = DefaultMaxSecondDerivative
	}
	return c
}

// Calibration maps parameter names to proposed values.
type Calibration map[string]float64

// Candidate pairs a delta profile with a calibration. Candidates live for a
// single search cycle and are discarded on rejection.
type Candidate struct {
	Delta       []float64
	Calibration Calibration
}

// SearchConfig carries everything one search invocation needs.
type SearchConfig struct {
	Baseline    BaselineCurve
	Constraints Constraints
	CycleBudget int
	Seed        int64
}

// SearchResult is the immutable outcome of one search run. When no candidate
// within the budget improves on the baseline the delta is all zeroes, which
// is a valid "no improvement found" outcome rather than an error.
type SearchResult struct {
	Delta                  []float64
	Calibration            Calibration
	BestScore              float64
	EstimatedPeakGainRatio float64
	Confidence             float64
	CyclesUsed             int
	Warnings               []string
}
