package modifier

import (
	"fmt"
	"math"
	"strings"
)

// IntakeBaseGain is the fractional torque gain at redline for a Level-1 NA
// intake in new condition, taken from typical cold-air-intake dyno data.
const IntakeBaseGain = 0.04

// Part is one equipped upgrade. Condition is in [0, 1]; level in 1..5.
type Part struct {
	PartID    string  `json:"part_id,omitempty"`
	Category  string  `json:"category"`
	Level     int     `json:"level"`
	Condition float64 `json:"condition"`
}

// PartProfile describes how one part category modifies the torque curve.
//
// For intakes the physics is a Bernoulli pressure drop across the intake
// restriction: ΔP ∝ RPM², so the gain is near zero at idle and grows
// quadratically to its maximum at redline.
type PartProfile struct {
	Category        string
	BaseGain        float64
	LevelScale      [6]float64 // index 0 unused; 1..5 map to Level 1..5
	AspirationScale map[string]float64
}

// GainAtRPM returns the fractional torque gain at a single RPM bin.
func (p PartProfile) GainAtRPM(rpm, redlineRPM int, aspiration string, level int, condition float64) float64 {
	if redlineRPM <= 0 {
		return 0
	}

	rpmNorm := float64(rpm) / float64(redlineRPM)
	rpmFactor := rpmNorm * rpmNorm

	lvl := level
	if lvl < 1 {
		lvl = 1
	} else if lvl > 5 {
		lvl = 5
	}

	aspScale, ok := p.AspirationScale[aspiration]
	if !ok {
		aspScale = 1.0
	}

	return p.BaseGain * p.LevelScale[lvl] * aspScale * condition * rpmFactor
}

// IntakeProfile models intake upgrades: forced-induction engines already
// overcome intake restriction, so they benefit less.
var IntakeProfile = PartProfile{
	Category: "intake",
	BaseGain: IntakeBaseGain,
	LevelScale: [6]float64{
		0,    // unused
		1.00, // stock replacement filter
		1.25, // high-flow panel filter
		1.55, // short-ram intake
		1.90, // cold-air intake
		2.30, // race intake / velocity stacks
	},
	AspirationScale: map[string]float64{
		"NA":           1.00,
		"Turbo":        0.60,
		"Supercharged": 0.50,
	},
}

// PartProfiles registers the built-in profiles by category.
var PartProfiles = map[string]PartProfile{
	"intake": IntakeProfile,
}

// ApplyParts applies all equipped upgrades to a baseline torque curve. Gains
// from multiple parts stack additively; diminishing returns are a gameplay
// concern handled upstream. Unsupported categories and parts with
// non-finite condition are skipped. Runs after ApplyBiome and before the
// optimizer.
func ApplyParts(torqueNm []float64, rpmBins []int, redlineRPM int, parts []Part, aspiration string) ([]float64, error) {
	if len(torqueNm) == 0 {
		return nil, fmt.Errorf("torque_nm must not be empty")
	}
	if len(torqueNm) != len(rpmBins) {
		return nil, fmt.Errorf("array length mismatch: torque_nm=%d, rpm_bins=%d", len(torqueNm), len(rpmBins))
	}
	if redlineRPM <= 0 {
		return nil, fmt.Errorf("redline_rpm must be positive, got %d", redlineRPM)
	}
	for i, tq := range torqueNm {
		if !isFinite(tq) {
			return nil, fmt.Errorf("non-finite torque value at index %d: %v", i, tq)
		}
	}

	gains := make([]float64, len(torqueNm))
	for _, part := range parts {
		profile, ok := PartProfiles[strings.ToLower(part.Category)]
		if !ok {
			continue
		}
		if !isFinite(part.Condition) {
			continue
		}
		condition := math.Max(0, math.Min(1, part.Condition))

		for i, rpm := range rpmBins {
			gains[i] += profile.GainAtRPM(rpm, redlineRPM, aspiration, part.Level, condition)
		}
	}

	result := make([]float64, len(torqueNm))
	for i, tq := range torqueNm {
		v := tq * (1 + gains[i])
		if !isFinite(v) {
			return nil, fmt.Errorf("non-finite result after applying part gains: tq=%v, gain_ratio=%v", tq, gains[i])
		}
		result[i] = roundTo(v, 4)
	}
	return result, nil
}

// IntakeGainCurve returns the fractional intake gain at each RPM bin, for
// visualisation and debugging.
func IntakeGainCurve(rpmBins []int, redlineRPM int, aspiration string, level int, condition float64) []float64 {
	gains := make([]float64, len(rpmBins))
	for i, rpm := range rpmBins {
		gains[i] = IntakeProfile.GainAtRPM(rpm, redlineRPM, aspiration, level, condition)
	}
	return gains
}
