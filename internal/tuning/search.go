package tuning

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Search runs the seeded keep-best search for the best valid torque delta.
//
// The zero delta scores sum(baseline) and is always valid, so the loop has a
// safe floor: if every candidate in the budget is rejected or fails to
// improve, the untouched baseline comes back. Each cycle is exactly one
// generate-validate-score attempt and counts against the budget whether or
// not the candidate survives. Search never fails; it only degrades.
func Search(cfg SearchConfig) SearchResult {
	c := cfg.Constraints.withDefaults()
	baseline := cfg.Baseline
	n := baseline.Len()

	stream := NewStream(cfg.Seed)

	best := Candidate{
		Delta:       make([]float64, n),
		Calibration: sampleCalibration(stream, c),
	}
	bestScore := floats.Sum(baseline.TorqueNm)

	for cycle := 0; cycle < cfg.CycleBudget; cycle++ {
		// Exploration narrows from 1.0 toward 0.5 across the budget.
		// This only shrinks the proposal scale; worse candidates are
		// never accepted, so it is not an annealing acceptance rule.
		scale := 1.0 - (float64(cycle)/float64(cfg.CycleBudget))*0.5

		delta := gaussianProfile(stream, baseline.TorqueNm, c, scale)
		cal := sampleCalibration(stream, c)

		if v := Validate(delta, cal, baseline, c); !v.OK {
			continue
		}

		proposed := make([]float64, n)
		copy(proposed, baseline.TorqueNm)
		floats.Add(proposed, delta)

		if score := floats.Sum(proposed); score > bestScore {
			best = Candidate{Delta: delta, Calibration: cal}
			bestScore = score
		}
	}

	return assembleResult(best, bestScore, baseline, c, cfg.CycleBudget)
}

// assembleResult derives the final metrics from the retained candidate. The
// peak gain and warnings are recomputed against the candidate actually being
// returned, not reused from whichever earlier cycle first produced it.
func assembleResult(best Candidate, bestScore float64, baseline BaselineCurve, c Constraints, cyclesUsed int) SearchResult {
	n := baseline.Len()

	proposed := make([]float64, n)
	copy(proposed, baseline.TorqueNm)
	floats.Add(proposed, best.Delta)

	gain := 0.0
	if n > 0 {
		if baselinePeak := floats.Max(baseline.TorqueNm); baselinePeak > 0 {
			gain = (floats.Max(proposed) - baselinePeak) / baselinePeak
		}
	}

	// Confidence measures proximity to the allowed gain ceiling, not a
	// statistical interval.
	confidence := 0.0
	if c.MaxPeakGainRatio > 0 {
		confidence = clamp(gain/c.MaxPeakGainRatio, 0, 1)
	}

	warnings := Validate(best.Delta, best.Calibration, baseline, c).Warnings

	return SearchResult{
		Delta:                  best.Delta,
		Calibration:            best.Calibration,
		BestScore:              roundTo(bestScore, 4),
		EstimatedPeakGainRatio: roundTo(gain, 6),
		Confidence:             roundTo(confidence, 4),
		CyclesUsed:             cyclesUsed,
		Warnings:               warnings,
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
