package modifier

import (
	"fmt"
	"math"
)

// Wear constants. Condition is a float in [0, 1]: 1.0 is brand-new, 0.0 is
// completely worn out.
const (
	WearPerRace  = 0.01
	MinCondition = 0.0
	MaxCondition = 1.0
)

// ApplyRaceWear returns the condition after races races, clamped so it
// never goes negative.
func ApplyRaceWear(condition float64, races int) (float64, error) {
	if !isFinite(condition) {
		return 0, fmt.Errorf("condition must be a finite number, got %v", condition)
	}
	if condition < MinCondition || condition > MaxCondition {
		return 0, fmt.Errorf("condition must be in [%v, %v], got %v", MinCondition, MaxCondition, condition)
	}
	if races < 0 {
		return 0, fmt.Errorf("races must be non-negative, got %d", races)
	}
	return math.Max(MinCondition, condition-WearPerRace*float64(races)), nil
}

// ApplyWearToParts returns a new slice with race wear applied to every
// part's condition; the originals are not mutated.
func ApplyWearToParts(parts []Part, races int) ([]Part, error) {
	if races < 0 {
		return nil, fmt.Errorf("races must be non-negative, got %d", races)
	}
	result := make([]Part, len(parts))
	for i, part := range parts {
		worn, err := ApplyRaceWear(part.Condition, races)
		if err != nil {
			return nil, fmt.Errorf("part %d: %w", i, err)
		}
		part.Condition = worn
		result[i] = part
	}
	return result, nil
}

// RacesUntilWornOut returns the number of full races remaining before the
// part reaches condition 0.0.
func RacesUntilWornOut(condition float64) (int, error) {
	if !isFinite(condition) {
		return 0, fmt.Errorf("condition must be a finite number, got %v", condition)
	}
	if condition < MinCondition || condition > MaxCondition {
		return 0, fmt.Errorf("condition must be in [%v, %v], got %v", MinCondition, MaxCondition, condition)
	}
	if condition <= MinCondition {
		return 0, nil
	}
	return int(math.Floor(condition / WearPerRace)), nil
}
