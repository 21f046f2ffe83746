// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading layers defaults, an optional YAML file, and environment variables.
// - Keep validation in the loader so a constructed Config is always usable.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address. The service has historically
	// been deployed on port 5000.
	Addr string `koanf:"addr"`

	// ModelPath is where the trained ensemble artifact is read from at
	// startup. A missing artifact is not fatal; see the model store.
	ModelPath string `koanf:"model_path"`

	// ExplainEnabled toggles per-feature attribution in /predict responses.
	ExplainEnabled bool `koanf:"explain_enabled"`
}

// New creates a Config with defaults applied.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":5000",
		ModelPath:      "outputs/credit_default.json",
		ExplainEnabled: true,
	}
}
