package logging

import (
	"io"
	"os"
	"strings"
)

// Config holds the logger configuration.
type Config struct {
	// Level is the minimum level to output (DEBUG, INFO, WARN, ERROR, FATAL).
	Level string
	// Format is the output format (json, text).
	Format string
	// Output is the destination (stdout, stderr, or a file path).
	Output string
}

// DefaultConfig returns the default logging configuration: INFO-level JSON
// on stderr.
func DefaultConfig() *Config {
	return &Config{Level: "info", Format: "json", Output: "stderr"}
}

// NewLogger creates a logger from cfg; a nil cfg selects the defaults.
func NewLogger(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	output, err := getOutput(cfg.Output)
	if err != nil {
		return nil, err
	}
	return New(parseLevel(cfg.Level), output), nil
}

func parseLevel(level string) LogLevel {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return DebugLevel
	case "INFO":
		return InfoLevel
	case "WARN":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	case "FATAL":
		return FatalLevel
	default:
		return InfoLevel
	}
}

func getOutput(output string) (io.Writer, error) {
	switch output {
	case "stdout":
		return os.Stdout, nil
	case "stderr", "":
		return os.Stderr, nil
	default:
		return os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	}
}
