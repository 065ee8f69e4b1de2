package main

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
)

// logEnv holds the logging knobs read from the environment before
// flags are parsed.
type logEnv struct {
	Logfile string `env:"LETTERPRESS_LOGFILE"`
	Debug   bool   `env:"LETTERPRESS_DEBUG" envDefault:"false"`
}

// setupLog configures the process-wide logger. Logs go to stderr at
// warn level unless LETTERPRESS_LOGFILE redirects them to a file,
// which also turns on debug logging. The returned closer releases the
// log file, if any.
func setupLog() (func() error, error) {
	cfg, err := env.ParseAs[logEnv]()
	if err != nil {
		return nil, fmt.Errorf("error parsing environment: %v", err)
	}

	log.SetReportTimestamp(false)
	log.SetLevel(log.WarnLevel)
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	if cfg.Logfile != "" {
		f, err := os.OpenFile(cfg.Logfile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("error opening log file: %w", err)
		}
		log.SetOutput(f)
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
		log.SetTimeFormat(time.RFC3339)
		return f.Close, nil
	}

	log.SetOutput(os.Stderr)
	return func() error { return nil }, nil
}
