package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/giantswarm/contacts/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/contacts"
	configFileName = "config.yaml"
)

// osUserHomeDir is replaced in tests.
var osUserHomeDir = os.UserHomeDir

// GetDefaultConfigPath returns ~/.config/contacts.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}

	return filepath.Join(homeDir, userConfigDir), nil
}

// LoadConfig loads configuration from a single specified directory.
// A missing config.yaml yields the defaults. A relative mailbox path is
// resolved against configPath.
func LoadConfig(configPath string) (ContactsConfig, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
	case err != nil:
		return ContactsConfig{}, ConfigurationError{
			FilePath:  configFilePath,
			FileName:  configFileName,
			ErrorType: ErrorTypeIO,
			Message:   "cannot read file",
			Details:   err.Error(),
			Err:       err,
		}
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return ContactsConfig{}, newParseError(configFilePath, configFileName, err)
		}
		logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	}

	if config.Mailbox.Path != "" && !filepath.IsAbs(config.Mailbox.Path) {
		config.Mailbox.Path = filepath.Join(configPath, config.Mailbox.Path)
	}

	if err := Validate(config); err != nil {
		return ContactsConfig{}, ConfigurationError{
			FilePath:  configFilePath,
			FileName:  configFileName,
			ErrorType: ErrorTypeValidation,
			Message:   "invalid configuration",
			Details:   err.Error(),
			Err:       err,
		}
	}

	return config, nil
}

// SaveConfig writes cfg to config.yaml in configPath, creating the
// directory if needed.
func SaveConfig(configPath string, cfg ContactsConfig) error {
	if err := os.MkdirAll(configPath, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", configPath, err)
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	path := filepath.Join(configPath, configFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logging.Debug("ConfigLoader", "Wrote configuration to %s", path)
	return nil
}
