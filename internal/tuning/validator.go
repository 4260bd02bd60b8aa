package tuning

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Verdict is the outcome of validating a candidate. Rejection is ordinary
// data consumed inline by the search loop, not an error value: the loop
// discards the candidate and moves on.
type Verdict struct {
	OK       bool
	Reason   string
	Warnings []string
}

func rejected(format string, args ...interface{}) Verdict {
	return Verdict{Reason: fmt.Sprintf(format, args...)}
}

// Validate checks a (delta, calibration) candidate against every hard
// constraint, stopping at the first violation. Checks run in a fixed order:
// structure, finiteness, per-bin caps, peak gain, smoothness, calibration
// ranges. A passing candidate may still carry non-fatal warnings.
func Validate(delta []float64, cal Calibration, baseline BaselineCurve, c Constraints) Verdict {
	c = c.withDefaults()
	var warnings []string

	if len(delta) != len(baseline.RPMBins) {
		return rejected("torque_delta length %d != rpm_bins length %d", len(delta), len(baseline.RPMBins))
	}
	if len(baseline.TorqueNm) != len(baseline.RPMBins) {
		return rejected("baseline_torque length %d != rpm_bins length %d", len(baseline.TorqueNm), len(baseline.RPMBins))
	}

	for i, d := range delta {
		if !isFinite(d) {
			return rejected("torque_delta[%d] is not finite: %v", i, d)
		}
	}

	for i, d := range delta {
		b := baseline.TorqueNm[i]
		if !isFinite(b) || b <= 0 {
			return rejected("baseline_torque_nm[%d] is invalid: %v", i, b)
		}
		absDelta := math.Abs(d)
		if absDelta > c.MaxBinDeltaNm {
			return rejected("bin %d delta %.4f Nm exceeds max_bin_delta_nm %v", i, d, c.MaxBinDeltaNm)
		}
		if ratio := absDelta / b; ratio > c.MaxBinDeltaRatio {
			return rejected("bin %d delta ratio %.4f exceeds max_bin_delta_ratio %v", i, ratio, c.MaxBinDeltaRatio)
		}
	}

	if n := len(delta); n > 0 {
		baselinePeak := floats.Max(baseline.TorqueNm)
		proposed := make([]float64, n)
		copy(proposed, baseline.TorqueNm)
		floats.Add(proposed, delta)
		if baselinePeak > 0 {
			gain := (floats.Max(proposed) - baselinePeak) / baselinePeak
			if gain > c.MaxPeakGainRatio {
				return rejected("peak gain ratio %.4f exceeds cap %v", gain, c.MaxPeakGainRatio)
			}
			if gain < 0 {
				// Shrinking peak torque is allowed; just flag it.
				warnings = append(warnings, fmt.Sprintf("proposal reduces peak torque by %.2f%%", math.Abs(gain)*100))
			}
		}
	}

	// Smoothness is enforced on the delta curve, not the baseline: the
	// baseline is the caller's and is already valid.
	if len(delta) >= 3 {
		maxD2 := c.Smoothness.MaxSecondDerivative
		for i := 1; i < len(delta)-1; i++ {
			d2 := math.Abs(delta[i+1] - 2*delta[i] + delta[i-1])
			if d2 > maxD2 {
				return rejected("smoothness violation at bin %d: delta second_derivative=%.4f > max %v", i, d2, maxD2)
			}
		}
	}

	// Sorted keys keep the first-reported violation deterministic.
	params := make([]string, 0, len(cal))
	for p := range cal {
		params = append(params, p)
	}
	sort.Strings(params)
	for _, p := range params {
		v := cal[p]
		if !isFinite(v) {
			return rejected("calibration.%s is not finite: %v", p, v)
		}
		if r, ok := c.CalibrationRanges[p]; ok {
			if v < r[0] || v > r[1] {
				return rejected("calibration.%s=%v outside allowed range [%v, %v]", p, v, r[0], r[1])
			}
		}
	}

	return Verdict{OK: true, Warnings: warnings}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
