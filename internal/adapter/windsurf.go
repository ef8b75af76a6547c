package adapter

import "enlist/internal/manifest"

// WindsurfAdapter targets the Windsurf editor. Entries live under
// "mcpServers" with no type discriminator; HTTP servers use "serverUrl"
// rather than "url".
type WindsurfAdapter struct {
	schema
}

// NewWindsurfAdapter returns the windsurf format adapter.
func NewWindsurfAdapter() *WindsurfAdapter {
	return &WindsurfAdapter{schema{
		id:          "windsurf",
		displayName: "Windsurf",
		rootKey:     "mcpServers",
		httpURLKey:  "serverUrl",
		caps: Capabilities{
			Transports:  []manifest.Transport{manifest.TransportStdio, manifest.TransportHTTP},
			Scopes:      []Scope{ScopeGlobal},
			SecretStyle: SecretEnvReference,
		},
	}}
}
