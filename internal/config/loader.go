package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"enlist/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/enlist"
	configFileName = "config.yaml"
)

func GetDefaultConfigPathOrPanic() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}

	return filepath.Join(homeDir, userConfigDir)
}

// LoadSettings loads engine settings from config.yaml in the specified
// directory. A missing file yields the defaults.
func LoadSettings(configPath string) (Settings, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	settings := GetDefaultSettings()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("Config", "No config.yaml found at %s, using defaults", configFilePath)
			return settings, nil
		}
		return Settings{}, err
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
	}
	if err := settings.validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid config at %s: %w", configFilePath, err)
	}
	logging.Info("Config", "Loaded configuration from %s", configFilePath)
	return settings, nil
}

func (s Settings) validate() error {
	switch s.DefaultScope {
	case "", "workspace", "global":
	default:
		return fmt.Errorf("defaultScope must be \"workspace\" or \"global\", got %q", s.DefaultScope)
	}
	return nil
}
