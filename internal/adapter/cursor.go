package adapter

import "enlist/internal/manifest"

// CursorAdapter targets the Cursor editor. Entries live under "mcpServers"
// with no type discriminator; HTTP servers are expressed by the presence of
// a "url" field.
type CursorAdapter struct {
	schema
}

// NewCursorAdapter returns the cursor format adapter.
func NewCursorAdapter() *CursorAdapter {
	return &CursorAdapter{schema{
		id:          "cursor",
		displayName: "Cursor",
		rootKey:     "mcpServers",
		httpURLKey:  "url",
		caps: Capabilities{
			Transports:  []manifest.Transport{manifest.TransportStdio, manifest.TransportHTTP},
			Scopes:      []Scope{ScopeWorkspace, ScopeGlobal},
			SecretStyle: SecretEnvReference,
		},
	}}
}
