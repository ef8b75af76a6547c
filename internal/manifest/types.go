package manifest

// CurrentVersion is the manifest schema version this build understands.
const CurrentVersion = 1

// DefaultFileName is the conventional manifest file name in a project root.
const DefaultFileName = "enlist.yaml"

// Manifest is the declarative description of the command server to register.
// It is loaded once per run and immutable afterwards. Manifests are written
// as YAML or JSON; both share these json tags.
type Manifest struct {
	// Version is the manifest schema version. Must equal CurrentVersion.
	Version int `json:"version"`
	// Name keys the entry this engine owns inside every tool document.
	Name string `json:"name"`
	// Description is optional free text carried into tool documents that
	// support it.
	Description string `json:"description,omitempty"`
	// Stdio describes how to launch the server over stdio.
	Stdio *StdioConfig `json:"stdio,omitempty"`
	// HTTP describes the server's HTTP endpoint.
	HTTP *HTTPConfig `json:"http,omitempty"`
	// Env declares the environment variables the server consumes.
	Env map[string]EnvVar `json:"env,omitempty"`
	// TargetTools optionally restricts which tools receive the entry.
	TargetTools *TargetFilter `json:"targetTools,omitempty"`
}

// StdioConfig is the stdio transport block of a manifest.
type StdioConfig struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
	Cwd     string   `json:"cwd,omitempty"`
}

// HTTPConfig is the HTTP transport block of a manifest.
type HTTPConfig struct {
	URL string `json:"url"`
}

// EnvVar declares one environment variable of the server.
type EnvVar struct {
	Description string `json:"description,omitempty"`
	// Secret marks values that must never be written in the clear; adapters
	// represent them as prompt inputs or environment references.
	Secret bool `json:"secret,omitempty"`
	// Default is the value used when the caller supplies no override.
	Default string `json:"default,omitempty"`
	// Required vars that resolve to no concrete value produce a warning.
	Required bool `json:"required,omitempty"`
}

// TargetFilter restricts the tools an apply/remove run touches. Include and
// Exclude are mutually exclusive.
type TargetFilter struct {
	Include []string `json:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
}

// Transport names a way of reaching the server.
type Transport string

const (
	TransportStdio Transport = "stdio"
	TransportHTTP  Transport = "http"
)

// HasTransport reports whether the manifest carries the named transport block.
func (m *Manifest) HasTransport(t Transport) bool {
	switch t {
	case TransportStdio:
		return m.Stdio != nil
	case TransportHTTP:
		return m.HTTP != nil
	default:
		return false
	}
}

// Targets applies the manifest's tool filter to the full tool id list,
// preserving the input order.
func (m *Manifest) Targets(allToolIDs []string) []string {
	if m.TargetTools == nil {
		return allToolIDs
	}
	if len(m.TargetTools.Include) > 0 {
		included := make(map[string]bool, len(m.TargetTools.Include))
		for _, id := range m.TargetTools.Include {
			included[id] = true
		}
		var out []string
		for _, id := range allToolIDs {
			if included[id] {
				out = append(out, id)
			}
		}
		return out
	}
	if len(m.TargetTools.Exclude) > 0 {
		excluded := make(map[string]bool, len(m.TargetTools.Exclude))
		for _, id := range m.TargetTools.Exclude {
			excluded[id] = true
		}
		var out []string
		for _, id := range allToolIDs {
			if !excluded[id] {
				out = append(out, id)
			}
		}
		return out
	}
	return allToolIDs
}
