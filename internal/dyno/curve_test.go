package dyno

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHP(t *testing.T) {
	tests := []struct {
		name     string
		torqueNm float64
		rpm      int
		want     float64
	}{
		{"standard point", 300, 5252, 300},
		{"zero rpm", 300, 0, 0},
		{"zero torque", 0, 3000, 0},
		{"half constant", 100, 2626, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeHP(tt.torqueNm, tt.rpm)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestComputeHPNonFinite(t *testing.T) {
	_, err := ComputeHP(math.NaN(), 3000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-finite torque")
}

func TestComputeHPCurve(t *testing.T) {
	rpm := []int{1000, 2626, 5252}
	torque := []float64{200, 100, 300}

	hp, err := ComputeHPCurve(rpm, torque)
	require.NoError(t, err)
	require.Len(t, hp, 3)
	assert.InDelta(t, 200.0*1000/HPConstant, hp[0], 1e-9)
	assert.InDelta(t, 50.0, hp[1], 1e-9)
	assert.InDelta(t, 300.0, hp[2], 1e-9)
}

func TestComputeHPCurveLengthMismatch(t *testing.T) {
	_, err := ComputeHPCurve([]int{1000, 2000}, []float64{200})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "array length mismatch")
}

func TestFindPeaks(t *testing.T) {
	rpm := []int{2000, 3000, 4000, 5000, 6000}
	torque := []float64{250, 280, 300, 290, 260}

	peaks, err := FindPeaks(rpm, torque)
	require.NoError(t, err)

	assert.Equal(t, 300.0, peaks.PeakTorqueNm)
	assert.Equal(t, 4000, peaks.PeakTorqueRPM)
	// HP keeps climbing past the torque peak while torque falls slower
	// than RPM rises.
	assert.Equal(t, 6000, peaks.PeakHPRPM)
	assert.InDelta(t, 260.0*6000/HPConstant, peaks.PeakHP, 1e-9)
}

func TestFindPeaksEmptyCurve(t *testing.T) {
	_, err := FindPeaks(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty curve")
}

func TestApplyDeltas(t *testing.T) {
	torque := []float64{200, 210, 220}
	deltas := []float64{1.5, -2, 0}

	result, err := ApplyDeltas(torque, deltas)
	require.NoError(t, err)
	assert.Equal(t, []float64{201.5, 208, 220}, result)
	// Input untouched.
	assert.Equal(t, []float64{200, 210, 220}, torque)
}

func TestApplyDeltasErrors(t *testing.T) {
	t.Run("length mismatch", func(t *testing.T) {
		_, err := ApplyDeltas([]float64{200, 210}, []float64{1})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "array length mismatch")
	})

	t.Run("non-finite result", func(t *testing.T) {
		_, err := ApplyDeltas([]float64{200}, []float64{math.Inf(1)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "non-finite result at index 0")
	})
}
