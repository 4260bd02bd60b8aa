package tuning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleCalibrationDeterminism(t *testing.T) {
	c := Constraints{}

	first := sampleCalibration(NewStream(99), c)
	second := sampleCalibration(NewStream(99), c)

	assert.Equal(t, first, second)
}

func TestSampleCalibrationUsesConfiguredRanges(t *testing.T) {
	c := Constraints{
		CalibrationRanges: map[string][2]float64{
			ParamAFRTarget:      {11.5, 14.7},
			ParamIgnTimingDeg:   {-2.0, 8.0},
			ParamBoostTargetPsi: {0.0, 22.0},
		},
	}

	for seed := int64(0); seed < 50; seed++ {
		cal := sampleCalibration(NewStream(seed), c)
		require.Len(t, cal, 3)
		for param, r := range c.CalibrationRanges {
			v, ok := cal[param]
			require.True(t, ok, "seed %d missing %s", seed, param)
			assert.GreaterOrEqual(t, v, r[0], "seed %d %s", seed, param)
			assert.LessOrEqual(t, v, r[1], "seed %d %s", seed, param)
		}
	}
}

func TestSampleCalibrationFallbackRanges(t *testing.T) {
	cal := sampleCalibration(NewStream(5), Constraints{})

	require.Len(t, cal, 3)
	assert.GreaterOrEqual(t, cal[ParamAFRTarget], 12.5)
	assert.LessOrEqual(t, cal[ParamAFRTarget], 13.5)
	assert.GreaterOrEqual(t, cal[ParamIgnTimingDeg], 0.0)
	assert.LessOrEqual(t, cal[ParamIgnTimingDeg], 4.0)
	assert.GreaterOrEqual(t, cal[ParamBoostTargetPsi], 0.0)
	assert.LessOrEqual(t, cal[ParamBoostTargetPsi], 14.0)
}

func TestSampleCalibrationSwapsInvertedBounds(t *testing.T) {
	c := Constraints{
		CalibrationRanges: map[string][2]float64{
			ParamAFRTarget: {14.7, 11.5},
		},
	}

	cal := sampleCalibration(NewStream(5), c)

	assert.GreaterOrEqual(t, cal[ParamAFRTarget], 11.5)
	assert.LessOrEqual(t, cal[ParamAFRTarget], 14.7)
}

func TestStreamUniformBounds(t *testing.T) {
	stream := NewStream(1)
	for i := 0; i < 1000; i++ {
		v := stream.Uniform(2.5, 7.5)
		assert.GreaterOrEqual(t, v, 2.5)
		assert.Less(t, v, 7.5)
	}
}
