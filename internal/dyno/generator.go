package dyno

import (
	"fmt"
	"math"
	"strings"

	"github.com/dynomonsters/ecud/internal/vehicle"
)

// CurvePoints is the number of data points in every generated curve.
const CurvePoints = 500

// Gaussian shape parameters over the normalised RPM position [0, 1].
const (
	peakPosition    = 0.65 // torque peak at 65 % of the RPM range
	shapeSigma      = 0.30
	minTorqueFactor = 0.55 // idle torque as a fraction of peak torque
)

// Curve is a fully computed dyno curve with derived horsepower.
type Curve struct {
	RPMBins  []int     `json:"rpm_bins"`
	TorqueNm []float64 `json:"torque_nm"`
	HP       []float64 `json:"hp"`
}

// GenerateCurve produces a CurvePoints-point HP/TQ curve for car. The torque
// shape is a Gaussian bell: it rises from idle, peaks at roughly 65 % of the
// RPM range, and falls toward redline.
func GenerateCurve(car vehicle.Car, idleRPM int) (Curve, error) {
	if errs := car.Validate(); len(errs) > 0 {
		return Curve{}, fmt.Errorf("invalid car: %s", strings.Join(errs, "; "))
	}
	if idleRPM <= 0 {
		return Curve{}, fmt.Errorf("idle_rpm must be positive, got %d", idleRPM)
	}
	if idleRPM >= car.RedlineRPM {
		return Curve{}, fmt.Errorf("idle_rpm (%d) must be less than redline_rpm (%d)", idleRPM, car.RedlineRPM)
	}

	step := float64(car.RedlineRPM-idleRPM) / float64(CurvePoints-1)
	rpmBins := make([]int, CurvePoints)
	for i := range rpmBins {
		rpmBins[i] = int(math.Round(float64(idleRPM) + float64(i)*step))
	}
	// Pin the last bin to redline to avoid float rounding drift.
	rpmBins[CurvePoints-1] = car.RedlineRPM

	torque := make([]float64, CurvePoints)
	for i, rpm := range rpmBins {
		torque[i] = torqueAtRPM(car.BaseTorqueNm, rpm, idleRPM, car.RedlineRPM)
	}

	hpRaw, err := ComputeHPCurve(rpmBins, torque)
	if err != nil {
		return Curve{}, err
	}
	hp := make([]float64, len(hpRaw))
	for i, h := range hpRaw {
		hp[i] = roundTo(h, 4)
	}

	return Curve{RPMBins: rpmBins, TorqueNm: torque, HP: hp}, nil
}

// torqueAtRPM models torque at a single RPM point with a Gaussian envelope,
// so the shape feels like a real engine: minimum torque at idle and a single
// broad peak.
func torqueAtRPM(baseTorqueNm float64, rpm, idleRPM, redlineRPM int) float64 {
	rpmRange := redlineRPM - idleRPM
	if rpmRange <= 0 {
		return baseTorqueNm
	}

	t := float64(rpm-idleRPM) / float64(rpmRange)
	gaussian := math.Exp(-((t - peakPosition) * (t - peakPosition)) / (2 * shapeSigma * shapeSigma))

	return roundTo(baseTorqueNm*(minTorqueFactor+(1-minTorqueFactor)*gaussian), 4)
}
