package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dynomonsters/ecud/internal/config"
	"github.com/dynomonsters/ecud/internal/contract"
	"github.com/dynomonsters/ecud/internal/errors"
	"github.com/dynomonsters/ecud/internal/logging"
	"github.com/dynomonsters/ecud/internal/server"
)

func main() {
	oneShot := flag.Bool("oneshot", false,
		"read one JSON request from stdin, write one JSON response to stdout, then exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(&logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	serviceLogger := logger.WithFields(map[string]interface{}{
		"service": "ecud",
		"version": contract.Version,
	})

	if *oneShot {
		os.Exit(runOneShot(cfg, serviceLogger))
	}

	runHTTP(cfg, logger, serviceLogger)
}

// runOneShot speaks the subprocess contract: one JSON request on stdin, one
// JSON response on stdout, logs on stderr only. The exit code is non-zero
// only for transport-level failures; tuning rejections still exit 0 with a
// status=rejected envelope.
func runOneShot(cfg *config.Config, logger *logging.Logger) int {
	logger.Info("ECU runner started, waiting for request on stdin")

	emit := func(resp *contract.Response) {
		data, err := json.Marshal(resp)
		if err != nil {
			logger.Error("Failed to marshal response", map[string]interface{}{"error": err.Error()})
			return
		}
		fmt.Println(string(data))
	}

	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		emit(contract.ErrorResponse("unknown", contract.CodeEmptyInput, err.Error()))
		return 1
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		emit(contract.ErrorResponse("unknown", contract.CodeEmptyInput, "stdin was empty"))
		return 1
	}

	var req contract.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		logger.Error("Failed to parse JSON from stdin", map[string]interface{}{"error": err.Error()})
		emit(contract.ErrorResponse("unknown", contract.CodeJSONParseError, err.Error()))
		return 1
	}

	limits := server.Limits{
		MaxCycleBudget: cfg.Tuning.MaxCycleBudget,
		MaxCurveBins:   cfg.Tuning.MaxCurveBins,
	}
	resp := server.Process(&req, limits, logger)
	if errs := contract.ValidateResponse(resp); len(errs) > 0 {
		logger.Error("Response failed self-check", map[string]interface{}{
			"errors": strings.Join(errs, "; "),
		})
	}
	emit(resp)
	return 0
}

func runHTTP(cfg *config.Config, logger, serviceLogger *logging.Logger) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(logger))
	r.Use(errors.RecoveryMiddleware(serviceLogger))
	r.Use(middleware.Timeout(cfg.HTTP.RequestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	srv := server.NewServer(cfg, serviceLogger)
	srv.RegisterRoutes(r)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		serviceLogger.Info("Starting server", map[string]interface{}{
			"address": httpServer.Addr,
		})
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serviceLogger.Fatal("Failed to start server", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	serviceLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		serviceLogger.Error("Server forced to shutdown", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	serviceLogger.Info("Server stopped")
}
