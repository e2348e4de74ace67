package app

import (
	"github.com/giantswarm/contacts/internal/config"
)

// Config holds the application configuration
type Config struct {
	// Debug settings
	Debug bool

	// Silent suppresses log output and the progress spinner
	Silent bool

	// Interactive routes log output to the shell instead of stderr
	Interactive bool

	// Custom configuration path (optional)
	// When empty, ~/.config/contacts is used
	ConfigPath string

	// Contacts configuration. When nil it is loaded from ConfigPath.
	Contacts *config.ContactsConfig

	// Seed overrides simulate.seed when non-zero.
	Seed uint64
}

// NewConfig creates a new application configuration
func NewConfig(debug, silent bool, configPath string) *Config {
	return &Config{
		Debug:      debug,
		Silent:     silent,
		ConfigPath: configPath,
	}
}
