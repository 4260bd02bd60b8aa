// Package dyno holds the core dyno-curve math: horsepower derivation, peak
// finding, delta application, and baseline curve generation. Curves are
// parallel arrays of RPM bins (int) and torque values (float64); HP is
// always derived from torque, never stored as source of truth.
package dyno

import (
	"fmt"
	"math"
)

// HPConstant converts torque (Nm) and RPM to horsepower: HP = TQ*RPM/5252.
const HPConstant = 5252

// CurvePeaks holds the peak values extracted from a dyno curve.
type CurvePeaks struct {
	PeakTorqueNm  float64
	PeakTorqueRPM int
	PeakHP        float64
	PeakHPRPM     int
}

// ComputeHP returns horsepower for a single RPM/torque point.
func ComputeHP(torqueNm float64, rpm int) (float64, error) {
	if !isFinite(torqueNm) {
		return 0, fmt.Errorf("non-finite torque: %v", torqueNm)
	}
	if rpm == 0 {
		return 0, nil
	}
	return torqueNm * float64(rpm) / HPConstant, nil
}

// ComputeHPCurve derives an HP array from parallel RPM/torque arrays.
func ComputeHPCurve(rpmBins []int, torqueNm []float64) ([]float64, error) {
	if len(rpmBins) != len(torqueNm) {
		return nil, fmt.Errorf("array length mismatch: rpm_bins=%d, torque_nm=%d", len(rpmBins), len(torqueNm))
	}
	hp := make([]float64, len(rpmBins))
	for i, rpm := range rpmBins {
		h, err := ComputeHP(torqueNm[i], rpm)
		if err != nil {
			return nil, fmt.Errorf("at index %d: %w", i, err)
		}
		hp[i] = h
	}
	return hp, nil
}

// FindPeaks returns peak torque and peak HP with their RPM locations.
func FindPeaks(rpmBins []int, torqueNm []float64) (CurvePeaks, error) {
	if len(rpmBins) == 0 {
		return CurvePeaks{}, fmt.Errorf("empty curve")
	}
	hp, err := ComputeHPCurve(rpmBins, torqueNm)
	if err != nil {
		return CurvePeaks{}, err
	}

	maxTq, maxHP := 0, 0
	for i := range rpmBins {
		if torqueNm[i] > torqueNm[maxTq] {
			maxTq = i
		}
		if hp[i] > hp[maxHP] {
			maxHP = i
		}
	}

	return CurvePeaks{
		PeakTorqueNm:  torqueNm[maxTq],
		PeakTorqueRPM: rpmBins[maxTq],
		PeakHP:        hp[maxHP],
		PeakHPRPM:     rpmBins[maxHP],
	}, nil
}

// ApplyDeltas returns a new torque array with per-bin deltas applied.
func ApplyDeltas(torqueNm, deltas []float64) ([]float64, error) {
	if len(torqueNm) != len(deltas) {
		return nil, fmt.Errorf("array length mismatch: torque_nm=%d, deltas=%d", len(torqueNm), len(deltas))
	}
	result := make([]float64, len(torqueNm))
	for i := range torqueNm {
		v := torqueNm[i] + deltas[i]
		if !isFinite(v) {
			return nil, fmt.Errorf("non-finite result at index %d: %v + %v", i, torqueNm[i], deltas[i])
		}
		result[i] = v
	}
	return result, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
