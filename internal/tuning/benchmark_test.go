package tuning

import "testing"

// BenchmarkSearch measures one full search run at the typical budget.
func BenchmarkSearch(b *testing.B) {
	cfg := referenceConfig()
	cfg.CycleBudget = 100

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Search(cfg)
	}
}

// BenchmarkGaussianProfile measures candidate generation alone.
func BenchmarkGaussianProfile(b *testing.B) {
	baseline := make([]float64, 500)
	for i := range baseline {
		baseline[i] = 200 + float64(i)*0.1
	}
	c := Constraints{}.withDefaults()
	stream := NewStream(42)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = gaussianProfile(stream, baseline, c, 1.0)
	}
}

// BenchmarkValidate measures one validation pass over a realistic candidate.
func BenchmarkValidate(b *testing.B) {
	cfg := referenceConfig()
	delta := gaussianProfile(NewStream(7), cfg.Baseline.TorqueNm, cfg.Constraints.withDefaults(), 1.0)
	cal := sampleCalibration(NewStream(7), cfg.Constraints)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Validate(delta, cal, cfg.Baseline, cfg.Constraints)
	}
}
