// Package envcfg provides environment-variable defaults for the CLI.
// Flags always win over the environment; the environment wins over the
// compiled-in defaults.
package envcfg

import (
	"github.com/kelseyhightower/envconfig"
)

// Config holds the CMDBRIDGE_* environment configuration.
type Config struct {
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat     string `envconfig:"LOG_FORMAT" default:"json"`
	ManifestsPath string `envconfig:"MANIFESTS_PATH" default:"modules"`

	// Serve mode.
	NATSURL     string `envconfig:"NATS_URL" default:"nats://127.0.0.1:4222"`
	ServiceName string `envconfig:"SERVICE_NAME" default:"cmdbridgego"`
	Subject     string `envconfig:"SUBJECT" default:"cmdbridge.call"`
}

// Load reads configuration from CMDBRIDGE_-prefixed environment variables.
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("CMDBRIDGE", &c); err != nil {
		return nil, err
	}
	return &c, nil
}
