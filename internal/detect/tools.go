package detect

import (
	"path/filepath"

	"enlist/internal/manifest"
)

// toolSpec describes how one tool is found on a machine and where it keeps
// its configuration documents. The id matches the adapter registry key.
type toolSpec struct {
	id string
	// binaries probed on the search path (high confidence).
	binaries []string
	// installDirs whose presence indicates an installation (medium).
	installDirs func(Environment) []string
	// workspaceMarkers are paths relative to the workspace whose presence
	// suggests the tool is in use there (low).
	workspaceMarkers []string
	// globalPath is the machine-global config document.
	globalPath func(Environment) string
	// legacyGlobalPaths are older locations some installations still use.
	legacyGlobalPaths func(Environment) []string
	// workspaceRelPath is the workspace-scoped config document, relative to
	// the workspace root; empty when the tool has no workspace scope.
	workspaceRelPath string
	// defaultTransport is the transport the tool prefers.
	defaultTransport manifest.Transport
}

// builtinSpecs returns the detection specs in canonical processing order.
func builtinSpecs() []toolSpec {
	return []toolSpec{
		{
			id:       "claude-code",
			binaries: []string{"claude"},
			installDirs: func(e Environment) []string {
				return []string{filepath.Join(e.Home, ".claude")}
			},
			workspaceMarkers: []string{".mcp.json", ".claude"},
			globalPath: func(e Environment) string {
				return filepath.Join(e.Home, ".claude.json")
			},
			workspaceRelPath: ".mcp.json",
			defaultTransport: manifest.TransportStdio,
		},
		{
			id: "claude-desktop",
			installDirs: func(e Environment) []string {
				return []string{e.appConfigDir("Claude")}
			},
			globalPath: func(e Environment) string {
				return filepath.Join(e.appConfigDir("Claude"), "claude_desktop_config.json")
			},
			defaultTransport: manifest.TransportStdio,
		},
		{
			id:       "cursor",
			binaries: []string{"cursor"},
			installDirs: func(e Environment) []string {
				return []string{filepath.Join(e.Home, ".cursor")}
			},
			workspaceMarkers: []string{".cursor"},
			globalPath: func(e Environment) string {
				return filepath.Join(e.Home, ".cursor", "mcp.json")
			},
			workspaceRelPath: filepath.Join(".cursor", "mcp.json"),
			defaultTransport: manifest.TransportStdio,
		},
		{
			id:       "vscode",
			binaries: []string{"code"},
			installDirs: func(e Environment) []string {
				return []string{filepath.Join(e.Home, ".vscode"), e.appConfigDir("Code")}
			},
			workspaceMarkers: []string{".vscode"},
			globalPath: func(e Environment) string {
				return filepath.Join(e.appConfigDir("Code"), "User", "mcp.json")
			},
			workspaceRelPath: filepath.Join(".vscode", "mcp.json"),
			defaultTransport: manifest.TransportStdio,
		},
		{
			id:       "windsurf",
			binaries: []string{"windsurf"},
			installDirs: func(e Environment) []string {
				return []string{filepath.Join(e.Home, ".codeium", "windsurf"), filepath.Join(e.Home, ".codeium")}
			},
			globalPath: func(e Environment) string {
				return filepath.Join(e.Home, ".codeium", "windsurf", "mcp_config.json")
			},
			legacyGlobalPaths: func(e Environment) []string {
				return []string{filepath.Join(e.Home, ".codeium", "mcp_config.json")}
			},
			defaultTransport: manifest.TransportStdio,
		},
	}
}
