package modifier

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyBiomeSeaLevelStandardTempIsIdentity(t *testing.T) {
	torque := []float64{200, 210, 220}

	result, err := ApplyBiome(torque, 0, StdTempC, "NA")
	require.NoError(t, err)
	assert.Equal(t, torque, result)
}

func TestApplyBiomeAltitudeReducesTorque(t *testing.T) {
	torque := []float64{300}

	result, err := ApplyBiome(torque, 2000, StdTempC, "NA")
	require.NoError(t, err)

	// NA gets no compensation: power factor equals the density ratio.
	want := 300 * math.Exp(-2000/ScaleHeightM)
	assert.InDelta(t, want, result[0], 0.001)
	assert.Less(t, result[0], 300.0)
}

func TestApplyBiomeAspirationCompensation(t *testing.T) {
	torque := []float64{300}
	altitude := 3000.0

	retained := make(map[string]float64)
	for _, asp := range []string{"NA", "Supercharged", "Turbo"} {
		result, err := ApplyBiome(torque, altitude, StdTempC, asp)
		require.NoError(t, err)
		retained[asp] = result[0]
	}

	// Turbochargers compensate the most, superchargers partially, NA not
	// at all.
	assert.Less(t, retained["NA"], retained["Supercharged"])
	assert.Less(t, retained["Supercharged"], retained["Turbo"])
}

func TestApplyBiomeTemperaturePenalty(t *testing.T) {
	torque := []float64{200}

	hot, err := ApplyBiome(torque, 0, 45, "NA")
	require.NoError(t, err)
	// 20 °C over standard at 0.1 % per degree.
	assert.InDelta(t, 200*0.98, hot[0], 0.001)

	cold, err := ApplyBiome(torque, 0, -10, "NA")
	require.NoError(t, err)
	assert.Equal(t, 200.0, cold[0])
}

func TestApplyBiomeFloors(t *testing.T) {
	summary, err := Summarize(80000, 600, "NA")
	require.NoError(t, err)

	assert.Equal(t, minAltitudePowerFactor, summary.AltitudePowerFactor)
	assert.Equal(t, minTempPowerFactor, summary.TemperaturePowerFactor)
}

func TestApplyBiomeErrors(t *testing.T) {
	tests := []struct {
		name     string
		torque   []float64
		altitude float64
		temp     float64
		errText  string
	}{
		{"empty curve", nil, 0, 25, "must not be empty"},
		{"negative altitude", []float64{200}, -10, 25, "altitude_m"},
		{"NaN altitude", []float64{200}, math.NaN(), 25, "altitude_m"},
		{"infinite temp", []float64{200}, 0, math.Inf(1), "ambient_temp_c"},
		{"non-finite torque", []float64{math.NaN()}, 0, 25, "non-finite torque"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ApplyBiome(tt.torque, tt.altitude, tt.temp, "NA")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestWearMultiplier(t *testing.T) {
	tests := []struct {
		name string
		temp float64
		want float64
	}{
		{"standard temp", 25, 1.0},
		{"below standard", 0, 1.0},
		{"ten over", 35, 1.05},
		{"forty over", 65, 1.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WearMultiplier(tt.temp)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummarize(t *testing.T) {
	summary, err := Summarize(1500, 35, "Turbo")
	require.NoError(t, err)

	density := math.Exp(-1500 / ScaleHeightM)
	assert.InDelta(t, density, summary.AirDensityRatio, 1e-6)
	assert.InDelta(t, 1-(1-density)*0.5, summary.AltitudePowerFactor, 1e-6)
	assert.InDelta(t, 0.99, summary.TemperaturePowerFactor, 1e-6)
	assert.InDelta(t, summary.AltitudePowerFactor*summary.TemperaturePowerFactor, summary.TotalPowerFactor, 1e-5)
	assert.Equal(t, 1.05, summary.WearMultiplier)
}
