package modifier

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyRaceWear(t *testing.T) {
	tests := []struct {
		name      string
		condition float64
		races     int
		want      float64
	}{
		{"no races", 1.0, 0, 1.0},
		{"ten races", 1.0, 10, 0.9},
		{"clamped at zero", 0.05, 100, 0.0},
		{"from partial condition", 0.5, 20, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyRaceWear(tt.condition, tt.races)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestApplyRaceWearErrors(t *testing.T) {
	_, err := ApplyRaceWear(math.NaN(), 1)
	assert.Error(t, err)

	_, err = ApplyRaceWear(1.5, 1)
	assert.Error(t, err)

	_, err = ApplyRaceWear(0.5, -1)
	assert.Error(t, err)
}

func TestApplyWearToParts(t *testing.T) {
	parts := []Part{
		{PartID: "a", Category: "intake", Level: 2, Condition: 1.0},
		{PartID: "b", Category: "intake", Level: 4, Condition: 0.4},
	}

	worn, err := ApplyWearToParts(parts, 25)
	require.NoError(t, err)
	require.Len(t, worn, 2)
	assert.InDelta(t, 0.75, worn[0].Condition, 1e-9)
	assert.InDelta(t, 0.15, worn[1].Condition, 1e-9)

	// Originals untouched.
	assert.Equal(t, 1.0, parts[0].Condition)
	assert.Equal(t, 0.4, parts[1].Condition)
}

func TestRacesUntilWornOut(t *testing.T) {
	tests := []struct {
		name      string
		condition float64
		want      int
	}{
		{"brand new", 1.0, 100},
		{"half worn", 0.5, 50},
		{"nearly gone", 0.015, 1},
		{"worn out", 0.0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RacesUntilWornOut(tt.condition)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
