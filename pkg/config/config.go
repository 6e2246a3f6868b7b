package config

import (
	"os"
	"runtime"
	"strconv"

	"github.com/pkg/errors"
)

type Config struct {
	Environment       string
	Hostname          string
	LibrariesFilePath string
	ScanWorkers       int
}

const environmentENV = "ENVIRONMENT"

func New() (*Config, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := &Config{
		Hostname:          hostname,
		LibrariesFilePath: "./libraries.yaml",
		ScanWorkers:       runtime.NumCPU(),
	}

	switch os.Getenv(environmentENV) {
	case "development", "":
		cfg.Environment = "development"
		loadDevelopmentConfig(cfg)
	case "test":
		cfg.Environment = "test"
		loadTestConfig(cfg)
	case "production":
		cfg.Environment = "production"
	}

	if v := os.Getenv("LIBRARIES_FILE"); v != "" {
		cfg.LibrariesFilePath = v
	}
	if v, err := strconv.Atoi(os.Getenv("SCAN_WORKERS")); err == nil && v > 0 {
		cfg.ScanWorkers = v
	}

	return cfg, nil
}
