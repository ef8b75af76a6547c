package adapter

import "enlist/internal/manifest"

// ClaudeDesktopAdapter targets the Claude Desktop application. The schema is
// the plainest of the five: "mcpServers" root, stdio only, no type field,
// machine-global config only.
type ClaudeDesktopAdapter struct {
	schema
}

// NewClaudeDesktopAdapter returns the claude-desktop format adapter.
func NewClaudeDesktopAdapter() *ClaudeDesktopAdapter {
	return &ClaudeDesktopAdapter{schema{
		id:          "claude-desktop",
		displayName: "Claude Desktop",
		rootKey:     "mcpServers",
		httpURLKey:  "url",
		caps: Capabilities{
			Transports:  []manifest.Transport{manifest.TransportStdio},
			Scopes:      []Scope{ScopeGlobal},
			SecretStyle: SecretEnvReference,
		},
	}}
}
