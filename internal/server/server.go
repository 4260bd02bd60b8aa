// Package server exposes the tuning pipeline over HTTP.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dynomonsters/ecud/internal/config"
	"github.com/dynomonsters/ecud/internal/contract"
	"github.com/dynomonsters/ecud/internal/dyno"
	apperrors "github.com/dynomonsters/ecud/internal/errors"
	"github.com/dynomonsters/ecud/internal/logging"
	"github.com/dynomonsters/ecud/internal/vehicle"
)

// Server handles tuning and curve requests. Each request is self-contained:
// no state is shared or persisted across invocations.
type Server struct {
	cfg    *config.Config
	logger *logging.Logger
	nhtsa  *vehicle.NHTSAClient
}

// NewServer creates a server from the given config and logger.
func NewServer(cfg *config.Config, logger *logging.Logger) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
		nhtsa: vehicle.NewNHTSAClient(cfg.NHTSA.BaseURL, cfg.NHTSA.Timeout,
			logging.NewZapLogger(logger.WithField("component", "nhtsa"))),
	}
}

// RegisterRoutes mounts the API under /api/v1.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/tune", s.handleTune)
		r.Post("/curve", s.handleCurve)
		r.Get("/vehicle/{vin}", s.handleVehicleLookup)
	})
}

// handleTune runs one synchronous tuning request. Schema failures come back
// as HTTP 400 with a status=error envelope; rejections and successes are
// both HTTP 200, distinguished by the envelope status.
func (s *Server) handleTune(w http.ResponseWriter, r *http.Request) {
	var req contract.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest,
			contract.ErrorResponse("unknown", contract.CodeJSONParseError, err.Error()))
		return
	}

	resp := Process(&req, s.limits(), s.requestLogger(r))

	status := http.StatusOK
	if resp.Status == contract.StatusError {
		status = http.StatusBadRequest
	}
	s.writeJSON(w, status, resp)
}

// handleCurve generates a dyno curve for a vehicle record.
func (s *Server) handleCurve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Vehicle vehicle.Car `json:"vehicle"`
		IdleRPM int         `json:"idle_rpm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.IdleRPM == 0 {
		req.IdleRPM = 800
	}

	curve, err := dyno.GenerateCurve(req.Vehicle, req.IdleRPM)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	peaks, err := dyno.FindPeaks(curve.RPMBins, curve.TorqueNm)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"curve": curve,
		"peaks": map[string]interface{}{
			"peak_torque_nm":  peaks.PeakTorqueNm,
			"peak_torque_rpm": peaks.PeakTorqueRPM,
			"peak_hp":         peaks.PeakHP,
			"peak_hp_rpm":     peaks.PeakHPRPM,
		},
	})
}

// handleVehicleLookup builds a Car from NHTSA vPIC VIN decode data.
func (s *Server) handleVehicleLookup(w http.ResponseWriter, r *http.Request) {
	vin := chi.URLParam(r, "vin")
	if vin == "" {
		s.writeError(w, http.StatusBadRequest, "missing VIN")
		return
	}

	car, err := s.nhtsa.CarFromVIN(r.Context(), vin)
	if err != nil {
		wrapped := apperrors.Wrap(err, "VIN lookup failed").
			WithOperation("CarFromVIN").WithComponent("nhtsa")
		s.requestLogger(r).Warn("VIN lookup failed", map[string]interface{}{
			"vin":   vin,
			"error": wrapped.Error(),
		})
		s.writeError(w, http.StatusBadGateway, wrapped.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, car)
}

func (s *Server) limits() Limits {
	return Limits{
		MaxCycleBudget: s.cfg.Tuning.MaxCycleBudget,
		MaxCurveBins:   s.cfg.Tuning.MaxCurveBins,
	}
}

func (s *Server) requestLogger(r *http.Request) *logging.Logger {
	if ctxLogger := logging.FromContext(r.Context()); ctxLogger != nil {
		return ctxLogger.Logger
	}
	return s.logger
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
