package detect

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"enlist/internal/adapter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv(t *testing.T, binaries ...string) Environment {
	t.Helper()
	onPath := make(map[string]bool, len(binaries))
	for _, b := range binaries {
		onPath[b] = true
	}
	return Environment{
		LookPath: func(file string) (string, error) {
			if onPath[file] {
				return "/usr/bin/" + file, nil
			}
			return "", errors.New("not found")
		},
		Home:    t.TempDir(),
		WorkDir: t.TempDir(),
		Getenv:  func(string) string { return "" },
		GOOS:    "linux",
	}
}

func newTestDetector(t *testing.T, env Environment) *Detector {
	t.Helper()
	return New(env, adapter.DefaultRegistry())
}

func mkdir(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(path, 0o755))
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDetect_NothingInstalled(t *testing.T) {
	d := newTestDetector(t, testEnv(t))
	tools, err := d.Detect(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, tools, "undetected tools are omitted, not reported as low-confidence")
}

func TestDetect_BinaryOnPathIsHighConfidence(t *testing.T) {
	d := newTestDetector(t, testEnv(t, "cursor"))
	tools, err := d.Detect(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "cursor", tools[0].ID)
	assert.Equal(t, ConfidenceHigh, tools[0].Confidence)
}

func TestDetect_InstallDirIsMediumConfidence(t *testing.T) {
	env := testEnv(t)
	mkdir(t, filepath.Join(env.Home, ".cursor"))
	d := newTestDetector(t, env)

	tools, err := d.Detect(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "cursor", tools[0].ID)
	assert.Equal(t, ConfidenceMedium, tools[0].Confidence)
}

func TestDetect_WorkspaceMarkerIsLowConfidence(t *testing.T) {
	env := testEnv(t)
	mkdir(t, filepath.Join(env.WorkDir, ".vscode"))
	d := newTestDetector(t, env)

	tools, err := d.Detect(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "vscode", tools[0].ID)
	assert.Equal(t, ConfidenceLow, tools[0].Confidence)
}

func TestDetect_CanonicalOrder(t *testing.T) {
	env := testEnv(t, "windsurf", "claude", "code", "cursor")
	mkdir(t, env.appConfigDir("Claude"))
	d := newTestDetector(t, env)

	tools, err := d.Detect(context.Background(), "")
	require.NoError(t, err)

	var ids []string
	for _, tool := range tools {
		ids = append(ids, tool.ID)
	}
	assert.Equal(t, []string{"claude-code", "claude-desktop", "cursor", "vscode", "windsurf"}, ids)
}

func TestDetect_ScopeAndPath(t *testing.T) {
	env := testEnv(t, "cursor", "claude")
	d := newTestDetector(t, env)

	tools, err := d.Detect(context.Background(), "")
	require.NoError(t, err)
	byID := make(map[string]DetectedTool)
	for _, tool := range tools {
		byID[tool.ID] = tool
	}

	cursor := byID["cursor"]
	assert.Equal(t, adapter.ScopeWorkspace, cursor.Scope)
	assert.Equal(t, filepath.Join(env.WorkDir, ".cursor", "mcp.json"), cursor.ConfigPath)
	assert.False(t, cursor.ConfigExists)

	d.SetDefaultScope(adapter.ScopeGlobal)
	tools, err = d.Detect(context.Background(), "")
	require.NoError(t, err)
	for _, tool := range tools {
		if tool.ID == "cursor" {
			assert.Equal(t, adapter.ScopeGlobal, tool.Scope)
			assert.Equal(t, filepath.Join(env.Home, ".cursor", "mcp.json"), tool.ConfigPath)
		}
	}
}

func TestDetect_EntryExists(t *testing.T) {
	env := testEnv(t, "cursor")
	write(t, filepath.Join(env.WorkDir, ".cursor", "mcp.json"), `{
  // user config
  "mcpServers": {
    "demo": { "command": "node" }
  }
}`)
	d := newTestDetector(t, env)

	tools, err := d.Detect(context.Background(), "demo")
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.True(t, tools[0].ConfigExists)
	assert.True(t, tools[0].EntryExists)

	tools, err = d.Detect(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, tools[0].EntryExists)
}

func TestDetect_MalformedConfigDoesNotPanic(t *testing.T) {
	env := testEnv(t, "cursor")
	write(t, filepath.Join(env.WorkDir, ".cursor", "mcp.json"), `{"mcpServers": `)
	d := newTestDetector(t, env)

	tools, err := d.Detect(context.Background(), "demo")
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.True(t, tools[0].ConfigExists)
	assert.False(t, tools[0].EntryExists)
}

func TestConfigPath_ScopeSupport(t *testing.T) {
	d := newTestDetector(t, testEnv(t))

	_, ok := d.ConfigPath("claude-desktop", adapter.ScopeWorkspace)
	assert.False(t, ok, "claude-desktop has no workspace scope")

	path, ok := d.ConfigPath("claude-desktop", adapter.ScopeGlobal)
	assert.True(t, ok)
	assert.Contains(t, path, "claude_desktop_config.json")
}

func TestConfigPath_Override(t *testing.T) {
	d := newTestDetector(t, testEnv(t))
	d.SetPathOverride("cursor", "/custom/mcp.json")

	path, ok := d.ConfigPath("cursor", adapter.ScopeGlobal)
	assert.True(t, ok)
	assert.Equal(t, "/custom/mcp.json", path)
}

// Dual-location precedence: the newer path wins unless the legacy one
// already holds entries and the newer one does not exist.
func TestDetect_WindsurfLegacyPathPrecedence(t *testing.T) {
	newerPath := func(env Environment) string {
		return filepath.Join(env.Home, ".codeium", "windsurf", "mcp_config.json")
	}
	legacyPath := func(env Environment) string {
		return filepath.Join(env.Home, ".codeium", "mcp_config.json")
	}

	t.Run("legacy with entries and no newer file", func(t *testing.T) {
		env := testEnv(t, "windsurf")
		write(t, legacyPath(env), `{"mcpServers": {"old": {"command": "x"}}}`)
		d := newTestDetector(t, env)
		d.SetDefaultScope(adapter.ScopeGlobal)

		tools, err := d.Detect(context.Background(), "")
		require.NoError(t, err)
		require.Len(t, tools, 1)
		assert.Equal(t, legacyPath(env), tools[0].ConfigPath)
	})

	t.Run("newer file exists", func(t *testing.T) {
		env := testEnv(t, "windsurf")
		write(t, legacyPath(env), `{"mcpServers": {"old": {"command": "x"}}}`)
		write(t, newerPath(env), `{}`)
		d := newTestDetector(t, env)

		tools, err := d.Detect(context.Background(), "")
		require.NoError(t, err)
		require.Len(t, tools, 1)
		assert.Equal(t, newerPath(env), tools[0].ConfigPath)
	})

	t.Run("legacy empty", func(t *testing.T) {
		env := testEnv(t, "windsurf")
		write(t, legacyPath(env), `{"mcpServers": {}}`)
		d := newTestDetector(t, env)

		tools, err := d.Detect(context.Background(), "")
		require.NoError(t, err)
		require.Len(t, tools, 1)
		assert.Equal(t, newerPath(env), tools[0].ConfigPath)
	})
}

func TestAppConfigDir(t *testing.T) {
	tests := []struct {
		goos     string
		appData  string
		expected string
	}{
		{"darwin", "", filepath.Join("/home/u", "Library", "Application Support", "Claude")},
		{"linux", "", filepath.Join("/home/u", ".config", "Claude")},
		{"windows", `C:\Users\u\AppData\Roaming`, filepath.Join(`C:\Users\u\AppData\Roaming`, "Claude")},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			env := Environment{
				Home:   "/home/u",
				GOOS:   tt.goos,
				Getenv: func(string) string { return tt.appData },
			}
			assert.Equal(t, tt.expected, env.appConfigDir("Claude"))
		})
	}
}
