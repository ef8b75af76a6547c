package config

// GetDefaultSettings returns the settings used when no config.yaml exists.
func GetDefaultSettings() Settings {
	return Settings{
		LogLevel:     "info",
		DefaultScope: "workspace",
	}
}
