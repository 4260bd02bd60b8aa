package modifier

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntakeGainAtRPM(t *testing.T) {
	redline := 7000

	t.Run("zero at zero rpm", func(t *testing.T) {
		assert.Equal(t, 0.0, IntakeProfile.GainAtRPM(0, redline, "NA", 1, 1.0))
	})

	t.Run("max at redline", func(t *testing.T) {
		got := IntakeProfile.GainAtRPM(redline, redline, "NA", 1, 1.0)
		assert.InDelta(t, IntakeBaseGain, got, 1e-9)
	})

	t.Run("quadratic in rpm", func(t *testing.T) {
		half := IntakeProfile.GainAtRPM(redline/2, redline, "NA", 1, 1.0)
		full := IntakeProfile.GainAtRPM(redline, redline, "NA", 1, 1.0)
		assert.InDelta(t, full/4, half, 1e-9)
	})

	t.Run("level scaling", func(t *testing.T) {
		l1 := IntakeProfile.GainAtRPM(redline, redline, "NA", 1, 1.0)
		l5 := IntakeProfile.GainAtRPM(redline, redline, "NA", 5, 1.0)
		assert.InDelta(t, 2.30, l5/l1, 1e-9)
	})

	t.Run("level clamped to valid range", func(t *testing.T) {
		low := IntakeProfile.GainAtRPM(redline, redline, "NA", -3, 1.0)
		assert.Equal(t, IntakeProfile.GainAtRPM(redline, redline, "NA", 1, 1.0), low)
		high := IntakeProfile.GainAtRPM(redline, redline, "NA", 99, 1.0)
		assert.Equal(t, IntakeProfile.GainAtRPM(redline, redline, "NA", 5, 1.0), high)
	})

	t.Run("forced induction benefits less", func(t *testing.T) {
		na := IntakeProfile.GainAtRPM(redline, redline, "NA", 4, 1.0)
		turbo := IntakeProfile.GainAtRPM(redline, redline, "Turbo", 4, 1.0)
		super := IntakeProfile.GainAtRPM(redline, redline, "Supercharged", 4, 1.0)
		assert.InDelta(t, na*0.60, turbo, 1e-9)
		assert.InDelta(t, na*0.50, super, 1e-9)
	})

	t.Run("condition scales linearly", func(t *testing.T) {
		full := IntakeProfile.GainAtRPM(redline, redline, "NA", 3, 1.0)
		worn := IntakeProfile.GainAtRPM(redline, redline, "NA", 3, 0.25)
		assert.InDelta(t, full*0.25, worn, 1e-9)
	})
}

func TestApplyParts(t *testing.T) {
	torque := []float64{200, 220, 240}
	rpm := []int{2000, 4500, 7000}
	redline := 7000

	t.Run("no parts is identity", func(t *testing.T) {
		result, err := ApplyParts(torque, rpm, redline, nil, "NA")
		require.NoError(t, err)
		assert.Equal(t, torque, result)
	})

	t.Run("single intake", func(t *testing.T) {
		parts := []Part{{PartID: "cai-1", Category: "intake", Level: 4, Condition: 1.0}}
		result, err := ApplyParts(torque, rpm, redline, parts, "NA")
		require.NoError(t, err)

		for i := range torque {
			gain := IntakeProfile.GainAtRPM(rpm[i], redline, "NA", 4, 1.0)
			assert.InDelta(t, torque[i]*(1+gain), result[i], 0.001, "bin %d", i)
			assert.GreaterOrEqual(t, result[i], torque[i], "bin %d", i)
		}
	})

	t.Run("parts stack additively", func(t *testing.T) {
		parts := []Part{
			{Category: "intake", Level: 2, Condition: 1.0},
			{Category: "intake", Level: 2, Condition: 1.0},
		}
		result, err := ApplyParts(torque, rpm, redline, parts, "NA")
		require.NoError(t, err)

		gain := 2 * IntakeProfile.GainAtRPM(rpm[2], redline, "NA", 2, 1.0)
		assert.InDelta(t, torque[2]*(1+gain), result[2], 0.001)
	})

	t.Run("unsupported category skipped", func(t *testing.T) {
		parts := []Part{{Category: "nitrous", Level: 5, Condition: 1.0}}
		result, err := ApplyParts(torque, rpm, redline, parts, "NA")
		require.NoError(t, err)
		assert.Equal(t, torque, result)
	})

	t.Run("non-finite condition skipped", func(t *testing.T) {
		parts := []Part{{Category: "intake", Level: 3, Condition: math.NaN()}}
		result, err := ApplyParts(torque, rpm, redline, parts, "NA")
		require.NoError(t, err)
		assert.Equal(t, torque, result)
	})

	t.Run("condition clamped to unit interval", func(t *testing.T) {
		over := []Part{{Category: "intake", Level: 3, Condition: 5.0}}
		capped, err := ApplyParts(torque, rpm, redline, over, "NA")
		require.NoError(t, err)

		fresh := []Part{{Category: "intake", Level: 3, Condition: 1.0}}
		want, err := ApplyParts(torque, rpm, redline, fresh, "NA")
		require.NoError(t, err)
		assert.Equal(t, want, capped)
	})

	t.Run("category case insensitive", func(t *testing.T) {
		parts := []Part{{Category: "Intake", Level: 1, Condition: 1.0}}
		result, err := ApplyParts(torque, rpm, redline, parts, "NA")
		require.NoError(t, err)
		assert.Greater(t, result[2], torque[2])
	})
}

func TestApplyPartsErrors(t *testing.T) {
	t.Run("empty curve", func(t *testing.T) {
		_, err := ApplyParts(nil, nil, 7000, nil, "NA")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must not be empty")
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := ApplyParts([]float64{200}, []int{1000, 2000}, 7000, nil, "NA")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "array length mismatch")
	})

	t.Run("zero redline", func(t *testing.T) {
		_, err := ApplyParts([]float64{200}, []int{1000}, 0, nil, "NA")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redline_rpm must be positive")
	})
}

func TestIntakeGainCurve(t *testing.T) {
	rpm := []int{1000, 3500, 7000}
	gains := IntakeGainCurve(rpm, 7000, "NA", 4, 1.0)

	require.Len(t, gains, 3)
	assert.Less(t, gains[0], gains[1])
	assert.Less(t, gains[1], gains[2])
	assert.InDelta(t, IntakeBaseGain*1.90, gains[2], 1e-9)
}
