package config

import (
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/emiliopalmerini/expconv/internal/util"
)

// Prefix is prepended to every environment variable name.
const Prefix = "EXPCONV"

// History holds the run history database configuration. DB is a local file
// path or a libsql:// URL.
type History struct {
	DB        string `envconfig:"HISTORY_DB"`
	AuthToken string `envconfig:"HISTORY_AUTH_TOKEN"`
}

// OTEL holds metrics exporter configuration.
type OTEL struct {
	Enabled  bool   `envconfig:"ENABLED" default:"false"`
	Endpoint string `envconfig:"ENDPOINT"`
	Insecure bool   `envconfig:"INSECURE" default:"false"`
	// ShutdownTimeout bounds the final flush to the collector.
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
}

// Config holds configuration for the converter CLI.
type Config struct {
	Input         string `envconfig:"INPUT" default:"experiments/master-experiments.csv"`
	Output        string `envconfig:"OUTPUT" default:"experiments/master-experiments.json"`
	ContextBudget int    `envconfig:"CONTEXT_BUDGET" default:"200000"`
	ModelLabel    string `envconfig:"MODEL_LABEL" default:"Claude 3.5 Sonnet"`
	History       History
	OTEL          OTEL `envconfig:"OTEL"`
}

// Load loads configuration from EXPCONV_* environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}

	if cfg.History.DB == "" {
		dir, err := util.GetXDGDataDir()
		if err != nil {
			return nil, err
		}
		cfg.History.DB = filepath.Join(dir, "history.db")
	}
	return &cfg, nil
}
