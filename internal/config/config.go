package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Config carries the client's environment-driven settings.
type Config struct {
	// BaseURL is the storefront backend root.
	BaseURL string `envconfig:"AZCART_BASE_URL" default:"http://localhost:8080"`
	// Timeout bounds every backend call.
	Timeout time.Duration `envconfig:"AZCART_TIMEOUT" default:"15s"`
	// SessionFile is where the credential is persisted between runs.
	// Defaults to ~/.azcart/session.json.
	SessionFile string `envconfig:"AZCART_SESSION_FILE"`
	// Env switches console output detail ("DEV" enables debug logging).
	Env string `envconfig:"AZCART_ENV" default:"PROD"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, errors.Wrap(err, "[config.Load] process environment")
	}

	if c.SessionFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, errors.Wrap(err, "[config.Load] resolve home directory")
		}
		c.SessionFile = filepath.Join(home, ".azcart", "session.json")
	}

	return c, nil
}
