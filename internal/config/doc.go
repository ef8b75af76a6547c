// Package config loads the engine's own settings from the enlist
// configuration directory (~/.config/enlist by default).
//
// Settings are deliberately thin: a log level, the preferred scope for tools
// that support both workspace and global configuration, the default
// interactivity, and per-tool overrides (disable a tool, pin its config
// document path). A missing config.yaml is not an error; defaults apply.
package config
