// Package modifier adjusts a baseline torque curve for real-world effects
// before the optimizer runs: environment (altitude, temperature), part
// upgrades, and part wear. All functions are pure and deterministic.
package modifier

import (
	"fmt"
	"math"
)

// Atmospheric and temperature constants.
const (
	ScaleHeightM        = 8500.0 // approximate atmospheric scale height
	StdTempC            = 25.0   // standard reference temperature
	tempPowerLossPerDeg = 0.001  // 0.1 % power per °C above standard
	tempWearGainPerDeg  = 0.005  // 0.5 % wear per °C above standard

	minAltitudePowerFactor = 0.30
	minTempPowerFactor     = 0.5
)

// altitudeCompensation is the fraction of altitude-induced density loss each
// aspiration type claws back. Forced induction partially compensates.
var altitudeCompensation = map[string]float64{
	"NA":           0.0,
	"Turbo":        0.5,
	"Supercharged": 0.3,
}

// BiomeSummary reports every environmental factor for one condition set.
type BiomeSummary struct {
	AirDensityRatio        float64 `json:"air_density_ratio"`
	AltitudePowerFactor    float64 `json:"altitude_power_factor"`
	TemperaturePowerFactor float64 `json:"temperature_power_factor"`
	TotalPowerFactor       float64 `json:"total_power_factor"`
	WearMultiplier         float64 `json:"wear_multiplier"`
}

// airDensityRatio returns air density relative to sea level using the
// barometric formula; sea level maps to 1.0.
func airDensityRatio(altitudeM float64) float64 {
	return math.Exp(-altitudeM / ScaleHeightM)
}

// altitudePowerFactor is in [minAltitudePowerFactor, 1.0]. Unknown
// aspiration values get no compensation, the most conservative choice.
func altitudePowerFactor(altitudeM float64, aspiration string) float64 {
	powerLoss := (1 - airDensityRatio(altitudeM)) * (1 - altitudeCompensation[aspiration])
	return math.Max(minAltitudePowerFactor, 1-powerLoss)
}

// temperaturePowerFactor is in [minTempPowerFactor, 1.0]; temperatures at or
// below standard incur no penalty.
func temperaturePowerFactor(ambientTempC float64) float64 {
	delta := math.Max(0, ambientTempC-StdTempC)
	return math.Max(minTempPowerFactor, 1-delta*tempPowerLossPerDeg)
}

// ApplyBiome applies altitude and temperature modifiers to a torque curve.
// It must run before the optimizer so the search works within the
// biome-adjusted baseline.
func ApplyBiome(torqueNm []float64, altitudeM, ambientTempC float64, aspiration string) ([]float64, error) {
	if len(torqueNm) == 0 {
		return nil, fmt.Errorf("torque_nm must not be empty")
	}
	if !isFinite(altitudeM) || altitudeM < 0 {
		return nil, fmt.Errorf("altitude_m must be a non-negative finite number, got %v", altitudeM)
	}
	if !isFinite(ambientTempC) {
		return nil, fmt.Errorf("ambient_temp_c must be finite, got %v", ambientTempC)
	}
	for i, tq := range torqueNm {
		if !isFinite(tq) {
			return nil, fmt.Errorf("non-finite torque value at index %d: %v", i, tq)
		}
	}

	factor := altitudePowerFactor(altitudeM, aspiration) * temperaturePowerFactor(ambientTempC)

	result := make([]float64, len(torqueNm))
	for i, tq := range torqueNm {
		result[i] = roundTo(tq*factor, 4)
	}
	return result, nil
}

// WearMultiplier returns a wear-rate multiplier >= 1.0; heat accelerates
// part wear at 5 % per 10 °C above standard.
func WearMultiplier(ambientTempC float64) (float64, error) {
	if !isFinite(ambientTempC) {
		return 0, fmt.Errorf("ambient_temp_c must be finite, got %v", ambientTempC)
	}
	delta := math.Max(0, ambientTempC-StdTempC)
	return roundTo(1+delta*tempWearGainPerDeg, 6), nil
}

// Summarize returns all biome factors for debugging and response notes.
func Summarize(altitudeM, ambientTempC float64, aspiration string) (BiomeSummary, error) {
	if !isFinite(altitudeM) || altitudeM < 0 {
		return BiomeSummary{}, fmt.Errorf("altitude_m must be a non-negative finite number, got %v", altitudeM)
	}
	wear, err := WearMultiplier(ambientTempC)
	if err != nil {
		return BiomeSummary{}, err
	}

	altFactor := altitudePowerFactor(altitudeM, aspiration)
	tempFactor := temperaturePowerFactor(ambientTempC)
	return BiomeSummary{
		AirDensityRatio:        roundTo(airDensityRatio(altitudeM), 6),
		AltitudePowerFactor:    roundTo(altFactor, 6),
		TemperaturePowerFactor: roundTo(tempFactor, 6),
		TotalPowerFactor:       roundTo(altFactor*tempFactor, 6),
		WearMultiplier:         wear,
	}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
