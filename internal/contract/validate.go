package contract

import (
	"fmt"
	"math"
)

// ValidateRequest checks the structure of an incoming request and returns
// the full list of violations; empty means the request is safe to hand to
// the modifiers and the search. This is the hard gate of the pipeline: the
// core assumes a well-formed baseline and constraints record.
func ValidateRequest(req *Request) []string {
	var errs []string

	if req.ContractVersion != Version {
		errs = append(errs, fmt.Sprintf("unsupported contract_version %q, expected %q", req.ContractVersion, Version))
	}
	if req.RequestID == "" {
		errs = append(errs, "request_id must be a non-empty string")
	}
	if req.CycleBudget < 1 {
		errs = append(errs, fmt.Sprintf("cycle_budget must be a positive integer, got %d", req.CycleBudget))
	}

	rpm := req.BaselineCurve.RPMBins
	torque := req.BaselineCurve.TorqueNm
	if len(rpm) == 0 {
		errs = append(errs, "baseline_curve.rpm_bins must be a non-empty list")
	}
	if len(torque) == 0 {
		errs = append(errs, "baseline_curve.torque_nm must be a non-empty list")
	}
	if len(rpm) != len(torque) {
		errs = append(errs, fmt.Sprintf("rpm_bins length %d != torque_nm length %d", len(rpm), len(torque)))
	}
	for i := 1; i < len(rpm); i++ {
		if rpm[i] <= rpm[i-1] {
			errs = append(errs, fmt.Sprintf("rpm_bins must be strictly ascending: rpm_bins[%d]=%d >= rpm_bins[%d]=%d", i-1, rpm[i-1], i, rpm[i]))
			break
		}
	}
	for i, t := range torque {
		if math.IsNaN(t) || math.IsInf(t, 0) || t <= 0 {
			errs = append(errs, fmt.Sprintf("baseline_curve.torque_nm[%d]=%v must be finite and positive", i, t))
			break
		}
	}

	for name, r := range req.Constraints.CalibrationRanges {
		if math.IsNaN(r[0]) || math.IsNaN(r[1]) || math.IsInf(r[0], 0) || math.IsInf(r[1], 0) {
			errs = append(errs, fmt.Sprintf("calibration_ranges.%s bounds must be finite", name))
		}
	}

	if req.Vehicle != nil {
		for _, e := range req.Vehicle.Validate() {
			errs = append(errs, "vehicle: "+e)
		}
	}
	if req.Environment != nil {
		if math.IsNaN(req.Environment.AltitudeM) || math.IsInf(req.Environment.AltitudeM, 0) || req.Environment.AltitudeM < 0 {
			errs = append(errs, fmt.Sprintf("environment.altitude_m must be a non-negative finite number, got %v", req.Environment.AltitudeM))
		}
		if math.IsNaN(req.Environment.AmbientTempC) || math.IsInf(req.Environment.AmbientTempC, 0) {
			errs = append(errs, fmt.Sprintf("environment.ambient_temp_c must be finite, got %v", req.Environment.AmbientTempC))
		}
	}

	return errs
}

// ValidateResponse is the self-check run before a response is emitted: a
// status=ok response must carry a proposal with only finite deltas.
func ValidateResponse(resp *Response) []string {
	var errs []string

	if resp.ContractVersion != Version {
		errs = append(errs, "bad contract_version in response")
	}
	switch resp.Status {
	case StatusOK:
		if resp.Proposal == nil {
			errs = append(errs, "status=ok but proposal is nil")
			break
		}
		for i, d := range resp.Proposal.TorqueDeltaNm {
			if math.IsNaN(d) || math.IsInf(d, 0) {
				errs = append(errs, fmt.Sprintf("non-finite delta at index %d: %v", i, d))
				break
			}
		}
	case StatusRejected, StatusError:
	default:
		errs = append(errs, fmt.Sprintf("invalid status: %q", resp.Status))
	}

	return errs
}
