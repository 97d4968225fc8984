package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// Command is the name of the command to invoke in one-shot mode.
	// Empty when Serve is set.
	Command string

	// ManifestsPath points at the directory of command manifests.
	ManifestsPath string

	LogFormat string
	LogLevel  string

	// Serve switches the binary from one call per invocation into a
	// persistent NATS request/reply service over the same registry.
	Serve       bool
	NATSURL     string
	Subject     string
	ServiceName string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ManifestsPath == "" {
		return nil, errors.New("ManifestsPath is a required configuration field and cannot be empty")
	}
	if cfg.Command == "" && !cfg.Serve {
		return nil, errors.New("either a command name or Serve is required")
	}
	if cfg.Serve {
		if cfg.NATSURL == "" {
			return nil, errors.New("NATSURL is required in serve mode")
		}
		if cfg.Subject == "" {
			return nil, errors.New("Subject is required in serve mode")
		}
	}
	return &cfg, nil
}
