package tuning

// calibrationDefaults lists the fixed parameter set in sampling order with
// the fallback range used when the request configures no range. The order
// matters: it pins the position of each draw in the seeded stream.
var calibrationDefaults = []struct {
	name string
	lo   float64
	hi   float64
}{
	{ParamAFRTarget, 12.5, 13.5},
	{ParamIgnTimingDeg, 0.0, 4.0},
	{ParamBoostTargetPsi, 0.0, 14.0},
}

// sampleCalibration draws one value per parameter, uniformly within the
// configured range when present and the built-in fallback otherwise.
// Inverted bounds are swapped rather than rejected.
func sampleCalibration(stream *Stream, c Constraints) Calibration {
	cal := make(Calibration, len(calibrationDefaults))
	for _, p := range calibrationDefaults {
		lo, hi := p.lo, p.hi
		if r, ok := c.CalibrationRanges[p.name]; ok {
			lo, hi = r[0], r[1]
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		cal[p.name] = stream.Uniform(lo, hi)
	}
	return cal
}
