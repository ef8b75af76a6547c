package config

// Settings is the engine's own configuration, loaded from config.yaml in the
// enlist config directory. Everything has a working default; the file is
// optional.
type Settings struct {
	// LogLevel filters log output: debug, info, warn, error.
	LogLevel string `yaml:"logLevel,omitempty"`
	// DefaultScope is preferred for tools supporting both workspace and
	// global configuration: "workspace" or "global".
	DefaultScope string `yaml:"defaultScope,omitempty"`
	// NonInteractive disables confirmation prompts by default.
	NonInteractive bool `yaml:"nonInteractive,omitempty"`
	// Tools holds per-tool overrides keyed by tool id.
	Tools map[string]ToolSettings `yaml:"tools,omitempty"`
}

// ToolSettings overrides engine behavior for a single tool.
type ToolSettings struct {
	// Disabled excludes the tool from every run.
	Disabled bool `yaml:"disabled,omitempty"`
	// ConfigPath pins the tool's configuration document to an explicit path.
	ConfigPath string `yaml:"configPath,omitempty"`
}
