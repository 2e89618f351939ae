package driving

import "github.com/custodia-labs/rankwatch/internal/core/domain"

// ConfigService resolves application configuration.
type ConfigService interface {
	// Load returns the effective configuration: defaults, then the
	// config file, then environment overrides.
	Load() domain.AppConfig

	// Set stores a single configuration key.
	Set(key string, value string) error

	// Keys lists the supported configuration keys.
	Keys() []string

	// Path returns the configuration file path.
	Path() string
}
