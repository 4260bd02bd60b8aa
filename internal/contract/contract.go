// Package contract defines the versioned request/response envelope between
// the game engine and the tuning service, along with the schema validation
// that runs before the core search is ever invoked. The engine is
// authoritative; this service only proposes.
package contract

import (
	"github.com/dynomonsters/ecud/internal/modifier"
	"github.com/dynomonsters/ecud/internal/tuning"
	"github.com/dynomonsters/ecud/internal/vehicle"
)

// Version is the contract version this service speaks.
const Version = "1.0"

// Response status values.
const (
	StatusOK       = "ok"
	StatusRejected = "rejected"
	StatusError    = "error"
)

// Error codes for status=error responses.
const (
	CodeSchemaError     = "SCHEMA_ERROR"
	CodeModifierError   = "MODIFIER_ERROR"
	CodeOptimizerError  = "OPTIMIZER_ERROR"
	CodeNonFiniteOutput = "NON_FINITE_OUTPUT"
	CodeJSONParseError  = "JSON_PARSE_ERROR"
	CodeEmptyInput      = "EMPTY_INPUT"
)

// Environment carries the ambient conditions of the run.
type Environment struct {
	AltitudeM    float64 `json:"altitude_m"`
	AmbientTempC float64 `json:"ambient_temp_c"`
}

// Request is one tuning request. Vehicle, Environment, and Parts are
// optional; when present they adjust the baseline before the search runs.
type Request struct {
	ContractVersion string               `json:"contract_version"`
	RequestID       string               `json:"request_id"`
	Seed            int64                `json:"seed"`
	CycleBudget     int                  `json:"cycle_budget"`
	Vehicle         *vehicle.Car         `json:"vehicle,omitempty"`
	Environment     *Environment         `json:"environment,omitempty"`
	Parts           []modifier.Part      `json:"parts,omitempty"`
	BaselineCurve   tuning.BaselineCurve `json:"baseline_curve"`
	Constraints     tuning.Constraints   `json:"constraints"`
}

// Proposal is the accepted tuning outcome.
type Proposal struct {
	Calibration            tuning.Calibration `json:"calibration"`
	TorqueDeltaNm          []float64          `json:"torque_delta_nm"`
	Confidence             float64            `json:"confidence"`
	EstimatedPeakGainRatio float64            `json:"estimated_peak_gain_ratio"`
}

// Metrics reports how the run went.
type Metrics struct {
	CyclesUsed int     `json:"cycles_used"`
	RuntimeMs  float64 `json:"runtime_ms"`
	BestScore  float64 `json:"best_score"`
}

// Debug carries free-form notes and warnings.
type Debug struct {
	Notes    []string `json:"notes"`
	Warnings []string `json:"warnings"`
}

// ResponseError describes a transport- or service-level failure.
type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Response is the single reply to a Request.
type Response struct {
	ContractVersion string         `json:"contract_version"`
	RequestID       string         `json:"request_id"`
	Status          string         `json:"status"`
	Proposal        *Proposal      `json:"proposal"`
	Metrics         *Metrics       `json:"metrics"`
	Debug           Debug          `json:"debug"`
	Error           *ResponseError `json:"error,omitempty"`
}

// OKResponse builds a well-formed status=ok response.
func OKResponse(requestID string, proposal Proposal, metrics Metrics, notes, warnings []string) *Response {
	return &Response{
		ContractVersion: Version,
		RequestID:       requestID,
		Status:          StatusOK,
		Proposal:        &proposal,
		Metrics:         &metrics,
		Debug:           Debug{Notes: emptyIfNil(notes), Warnings: emptyIfNil(warnings)},
	}
}

// RejectedResponse builds a status=rejected response: the service ran but
// declined to return a proposal.
func RejectedResponse(requestID string, warnings, notes []string) *Response {
	return &Response{
		ContractVersion: Version,
		RequestID:       requestID,
		Status:          StatusRejected,
		Debug:           Debug{Notes: emptyIfNil(notes), Warnings: emptyIfNil(warnings)},
	}
}

// ErrorResponse builds a status=error response with a machine-readable code.
func ErrorResponse(requestID, code, message string) *Response {
	return &Response{
		ContractVersion: Version,
		RequestID:       requestID,
		Status:          StatusError,
		Debug:           Debug{Notes: []string{}, Warnings: []string{}},
		Error:           &ResponseError{Code: code, Message: message},
	}
}

// emptyIfNil keeps debug arrays serialising as [] rather than null.
func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
