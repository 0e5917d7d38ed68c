// Package cli implements the osintctl command line tool.
package cli

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Settings come from OSINTINFO_* environment variables.
type Settings struct {
	APIKey  string        `envconfig:"API_KEY"`
	BaseURL string        `envconfig:"BASE_URL"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"15s"`
	Site    string        `envconfig:"SITE"`
	Debug   bool          `envconfig:"DEBUG" default:"false"`
}

// LoadSettings reads .env when present, then the environment.
func LoadSettings() (Settings, error) {
	_ = godotenv.Load()

	var s Settings
	if err := envconfig.Process("osintinfo", &s); err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return s, nil
}
