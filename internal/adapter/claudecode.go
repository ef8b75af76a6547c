package adapter

import "enlist/internal/manifest"

// ClaudeCodeAdapter targets the Claude Code CLI. Entries live under
// "mcpServers" and carry an explicit type discriminator. Secrets are plain
// environment references.
type ClaudeCodeAdapter struct {
	schema
}

// NewClaudeCodeAdapter returns the claude-code format adapter.
func NewClaudeCodeAdapter() *ClaudeCodeAdapter {
	return &ClaudeCodeAdapter{schema{
		id:          "claude-code",
		displayName: "Claude Code",
		rootKey:     "mcpServers",
		httpURLKey:  "url",
		caps: Capabilities{
			Transports:        []manifest.Transport{manifest.TransportStdio, manifest.TransportHTTP},
			Scopes:            []Scope{ScopeWorkspace, ScopeGlobal},
			TypeDiscriminator: true,
			SecretStyle:       SecretEnvReference,
		},
	}}
}
