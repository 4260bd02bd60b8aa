package server

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dynomonsters/ecud/internal/contract"
	"github.com/dynomonsters/ecud/internal/logging"
	"github.com/dynomonsters/ecud/internal/modifier"
	"github.com/dynomonsters/ecud/internal/tuning"
)

// Limits caps what a single request may ask of the service. Zero values
// disable the corresponding cap.
type Limits struct {
	MaxCycleBudget int
	MaxCurveBins   int
}

// Process runs the full tuning pipeline for one request: schema validation,
// environmental and part adjustment of the baseline, the bounded search,
// and a final self-validation that mirrors the engine's own checks. It
// always returns a well-formed response; failures surface as status=error
// or status=rejected envelopes, never as a Go error.
func Process(req *contract.Request, limits Limits, logger *logging.Logger) *contract.Response {
	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = "unknown"
	}

	if errs := contract.ValidateRequest(req); len(errs) > 0 {
		logger.Warn("Request schema validation failed", map[string]interface{}{
			"request_id": requestID,
			"errors":     strings.Join(errs, "; "),
		})
		tuneRequests.WithLabelValues(contract.StatusError).Inc()
		return contract.ErrorResponse(requestID, contract.CodeSchemaError, strings.Join(errs, "; "))
	}
	if limits.MaxCurveBins > 0 && req.BaselineCurve.Len() > limits.MaxCurveBins {
		tuneRequests.WithLabelValues(contract.StatusError).Inc()
		return contract.ErrorResponse(requestID, contract.CodeSchemaError,
			fmt.Sprintf("baseline_curve has %d bins, exceeding the limit of %d",
				req.BaselineCurve.Len(), limits.MaxCurveBins))
	}

	cycleBudget := req.CycleBudget
	if limits.MaxCycleBudget > 0 && cycleBudget > limits.MaxCycleBudget {
		cycleBudget = limits.MaxCycleBudget
	}

	logger.Info("Processing tuning request", map[string]interface{}{
		"request_id":   requestID,
		"seed":         req.Seed,
		"cycle_budget": cycleBudget,
		"bins":         req.BaselineCurve.Len(),
	})

	baseline, notes, err := adjustBaseline(req)
	if err != nil {
		logger.Error("Baseline adjustment failed", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		tuneRequests.WithLabelValues(contract.StatusError).Inc()
		return contract.ErrorResponse(requestID, contract.CodeModifierError, err.Error())
	}

	result := tuning.Search(tuning.SearchConfig{
		Baseline:    baseline,
		Constraints: req.Constraints,
		CycleBudget: cycleBudget,
		Seed:        req.Seed,
	})

	// Final self-validation mirrors the engine-side checks so the service
	// rejects its own proposal before the engine has to.
	verdict := tuning.Validate(result.Delta, result.Calibration, baseline, req.Constraints)
	if !verdict.OK {
		logger.Warn("Final validation rejected proposal", map[string]interface{}{
			"request_id": requestID,
			"reason":     verdict.Reason,
		})
		tuneRequests.WithLabelValues(contract.StatusRejected).Inc()
		return contract.RejectedResponse(requestID,
			[]string{verdict.Reason},
			[]string{"Proposal failed final self-validation."})
	}
	warnings := mergeWarnings(result.Warnings, verdict.Warnings)

	for i, d := range result.Delta {
		if math.IsNaN(d) || math.IsInf(d, 0) {
			tuneRequests.WithLabelValues(contract.StatusError).Inc()
			return contract.ErrorResponse(requestID, contract.CodeNonFiniteOutput,
				fmt.Sprintf("torque_delta_nm[%d] is not finite: %v", i, d))
		}
	}

	runtimeMs := math.Round(float64(time.Since(start).Microseconds())/10) / 100

	proposal := contract.Proposal{
		Calibration:            result.Calibration,
		TorqueDeltaNm:          result.Delta,
		Confidence:             result.Confidence,
		EstimatedPeakGainRatio: result.EstimatedPeakGainRatio,
	}
	metrics := contract.Metrics{
		CyclesUsed: result.CyclesUsed,
		RuntimeMs:  runtimeMs,
		BestScore:  result.BestScore,
	}
	notes = append(notes,
		fmt.Sprintf("ecud v%s", contract.Version),
		fmt.Sprintf("Optimization completed in %d cycles", result.CyclesUsed))

	tuneRequests.WithLabelValues(contract.StatusOK).Inc()
	tuneDuration.Observe(time.Since(start).Seconds())
	tuneCyclesUsed.Observe(float64(result.CyclesUsed))
	tunePeakGain.Observe(result.EstimatedPeakGainRatio)

	logger.Info("Tuning request complete", map[string]interface{}{
		"request_id": requestID,
		"runtime_ms": runtimeMs,
		"best_score": result.BestScore,
		"peak_gain":  result.EstimatedPeakGainRatio,
		"confidence": result.Confidence,
	})

	return contract.OKResponse(requestID, proposal, metrics, notes, warnings)
}

// adjustBaseline applies the biome and part modifiers, in that order, so
// the search works within the adjusted curve. Both need vehicle context;
// without a vehicle the aspiration defaults to NA and the redline to the
// last RPM bin.
func adjustBaseline(req *contract.Request) (tuning.BaselineCurve, []string, error) {
	torque := req.BaselineCurve.TorqueNm
	var notes []string

	aspiration := "NA"
	redline := req.BaselineCurve.RPMBins[len(req.BaselineCurve.RPMBins)-1]
	if req.Vehicle != nil {
		aspiration = req.Vehicle.Aspiration
		redline = req.Vehicle.RedlineRPM
	}

	if env := req.Environment; env != nil {
		adjusted, err := modifier.ApplyBiome(torque, env.AltitudeM, env.AmbientTempC, aspiration)
		if err != nil {
			return tuning.BaselineCurve{}, nil, err
		}
		torque = adjusted

		summary, err := modifier.Summarize(env.AltitudeM, env.AmbientTempC, aspiration)
		if err != nil {
			return tuning.BaselineCurve{}, nil, err
		}
		notes = append(notes, fmt.Sprintf("biome power factor %.4f (density %.4f)",
			summary.TotalPowerFactor, summary.AirDensityRatio))
	}

	if len(req.Parts) > 0 {
		adjusted, err := modifier.ApplyParts(torque, req.BaselineCurve.RPMBins, redline, req.Parts, aspiration)
		if err != nil {
			return tuning.BaselineCurve{}, nil, err
		}
		torque = adjusted
		notes = append(notes, fmt.Sprintf("%d part(s) applied to baseline", len(req.Parts)))
	}

	return tuning.BaselineCurve{RPMBins: req.BaselineCurve.RPMBins, TorqueNm: torque}, notes, nil
}

// mergeWarnings deduplicates while keeping first-seen order.
func mergeWarnings(lists ...[]string) []string {
	seen := make(map[string]bool)
	var merged []string
	for _, list := range lists {
		for _, w := range list {
			if !seen[w] {
				seen[w] = true
				merged = append(merged, w)
			}
		}
	}
	return merged
}
