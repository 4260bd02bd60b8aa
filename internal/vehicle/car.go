// Package vehicle defines the Car record used as input to the dyno
// generator and the modifiers, plus a client for the NHTSA vPIC catalog
// that builds Car records from real vehicle data.
package vehicle

import (
	"fmt"
	"math"
)

// Valid enum values for Car fields.
var (
	ValidAspirations = map[string]bool{"NA": true, "Turbo": true, "Supercharged": true}
	ValidDrivetrains = map[string]bool{"FWD": true, "RWD": true, "AWD": true}
)

// Car is the base physical specification of a vehicle.
type Car struct {
	VehicleID    string  `json:"vehicle_id"`
	Make         string  `json:"make"`
	Model        string  `json:"model"`
	Year         int     `json:"year"`
	BaseTorqueNm float64 `json:"base_torque_nm"`
	WeightKg     float64 `json:"weight_kg"`
	RedlineRPM   int     `json:"redline_rpm"`
	Aspiration   string  `json:"aspiration"`
	Drivetrain   string  `json:"drivetrain"`
}

// Validate returns the full list of validation errors; empty means valid.
func (c Car) Validate() []string {
	var errs []string

	if c.VehicleID == "" {
		errs = append(errs, "vehicle_id must be a non-empty string")
	}
	if c.Make == "" {
		errs = append(errs, "make must be a non-empty string")
	}
	if c.Model == "" {
		errs = append(errs, "model must be a non-empty string")
	}
	if c.Year < 1886 || c.Year > 2100 {
		errs = append(errs, fmt.Sprintf("year must be between 1886 and 2100, got %d", c.Year))
	}
	if !isFinite(c.BaseTorqueNm) || c.BaseTorqueNm <= 0 {
		errs = append(errs, fmt.Sprintf("base_torque_nm must be a positive finite number, got %v", c.BaseTorqueNm))
	}
	if !isFinite(c.WeightKg) || c.WeightKg <= 0 {
		errs = append(errs, fmt.Sprintf("weight_kg must be a positive finite number, got %v", c.WeightKg))
	}
	if c.RedlineRPM <= 0 {
		errs = append(errs, fmt.Sprintf("redline_rpm must be a positive integer, got %d", c.RedlineRPM))
	}
	if !ValidAspirations[c.Aspiration] {
		errs = append(errs, fmt.Sprintf("aspiration must be one of NA, Supercharged, Turbo, got %q", c.Aspiration))
	}
	if !ValidDrivetrains[c.Drivetrain] {
		errs = append(errs, fmt.Sprintf("drivetrain must be one of AWD, FWD, RWD, got %q", c.Drivetrain))
	}

	return errs
}

// IsValid reports whether the Car passes all validation checks.
func (c Car) IsValid() bool { return len(c.Validate()) == 0 }

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
