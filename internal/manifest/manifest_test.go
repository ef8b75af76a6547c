package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "enlist.yaml", `
version: 1
name: demo
description: demo server
stdio:
  command: node
  args: ["x.js"]
env:
  API_KEY:
    secret: true
    required: true
`)
	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", m.Name)
	require.NotNil(t, m.Stdio)
	assert.Equal(t, "node", m.Stdio.Command)
	assert.Equal(t, []string{"x.js"}, m.Stdio.Args)
	assert.True(t, m.Env["API_KEY"].Secret)
	assert.True(t, m.Env["API_KEY"].Required)
}

func TestLoad_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "enlist.json", `{"version": 1, "name": "demo", "http": {"url": "http://localhost:8080/mcp"}}`)
	m, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, m.HTTP)
	assert.Equal(t, "http://localhost:8080/mcp", m.HTTP.URL)
	assert.True(t, m.HasTransport(TransportHTTP))
	assert.False(t, m.HasTransport(TransportStdio))
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "enlist.yaml"))
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestLoad_UnknownField(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "enlist.yaml", "version: 1\nname: demo\nbogus: true\nstdio:\n  command: node\n")
	_, err := Load(path)
	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	m := &Manifest{
		Version: 2,
		Name:    "",
		TargetTools: &TargetFilter{
			Include: []string{"cursor"},
			Exclude: []string{"vscode"},
		},
	}
	err := m.Validate()
	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := errs.Fields()
	assert.Contains(t, fields, "version")
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "targetTools.include")
	assert.Contains(t, fields, "targetTools.exclude")
	// missing both transports is reported too
	assert.Contains(t, fields, "stdio")
	assert.Contains(t, fields, "http")
}

func TestValidate_IncludeExcludeMutuallyExclusive(t *testing.T) {
	m := &Manifest{
		Version: 1,
		Name:    "demo",
		Stdio:   &StdioConfig{Command: "node"},
		TargetTools: &TargetFilter{
			Include: []string{"cursor"},
			Exclude: []string{"vscode"},
		},
	}
	err := m.Validate()
	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.ElementsMatch(t, []string{"targetTools.include", "targetTools.exclude"}, errs.Fields())
}

func TestValidate_Valid(t *testing.T) {
	m := &Manifest{
		Version: 1,
		Name:    "demo",
		Stdio:   &StdioConfig{Command: "node", Args: []string{"x.js"}},
		HTTP:    &HTTPConfig{URL: "https://example.com/mcp"},
	}
	require.NoError(t, m.Validate())
}

func TestValidate_BadValues(t *testing.T) {
	tests := []struct {
		name  string
		m     Manifest
		field string
	}{
		{
			"bad name characters",
			Manifest{Version: 1, Name: "my server!", Stdio: &StdioConfig{Command: "x"}},
			"name",
		},
		{
			"empty stdio command",
			Manifest{Version: 1, Name: "demo", Stdio: &StdioConfig{}},
			"stdio.command",
		},
		{
			"relative http url",
			Manifest{Version: 1, Name: "demo", HTTP: &HTTPConfig{URL: "/mcp"}},
			"http.url",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate()
			var errs ValidationErrors
			require.ErrorAs(t, err, &errs)
			assert.Contains(t, errs.Fields(), tt.field)
		})
	}
}

func TestTargets(t *testing.T) {
	all := []string{"claude-code", "claude-desktop", "cursor", "vscode", "windsurf"}

	t.Run("no filter", func(t *testing.T) {
		m := &Manifest{}
		assert.Equal(t, all, m.Targets(all))
	})

	t.Run("include keeps order", func(t *testing.T) {
		m := &Manifest{TargetTools: &TargetFilter{Include: []string{"vscode", "cursor"}}}
		assert.Equal(t, []string{"cursor", "vscode"}, m.Targets(all))
	})

	t.Run("exclude", func(t *testing.T) {
		m := &Manifest{TargetTools: &TargetFilter{Exclude: []string{"claude-desktop", "windsurf"}}}
		assert.Equal(t, []string{"claude-code", "cursor", "vscode"}, m.Targets(all))
	})
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	m := &Manifest{
		Version: 1,
		Name:    "demo",
		Stdio:   &StdioConfig{Command: "node", Args: []string{"x.js"}},
		Env:     map[string]EnvVar{"API_KEY": {Secret: true, Required: true}},
	}
	path := filepath.Join(dir, DefaultFileName)
	require.NoError(t, Save(m, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m, loaded)
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	_, err := Find(dir)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)

	writeFile(t, dir, "enlist.json", `{}`)
	path, err := Find(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "enlist.json"), path)

	writeFile(t, dir, "enlist.yaml", ``)
	path, err = Find(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "enlist.yaml"), path)
}

func TestGenerate_Node(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"name": "@scope/demo-server", "description": "d", "main": "server.js"}`)
	m, err := Generate(dir)
	require.NoError(t, err)
	assert.Equal(t, "demo-server", m.Name)
	assert.Equal(t, "node", m.Stdio.Command)
	assert.Equal(t, []string{"server.js"}, m.Stdio.Args)
	require.NoError(t, m.Validate())
}

func TestGenerate_Go(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module github.com/example/demo\n\ngo 1.25\n")
	m, err := Generate(dir)
	require.NoError(t, err)
	assert.Equal(t, "demo", m.Name)
	assert.Equal(t, "go", m.Stdio.Command)
	assert.Equal(t, []string{"run", "."}, m.Stdio.Args)
}

func TestGenerate_Python(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pyproject.toml", "[project]\nname = \"demo-server\"\n")
	m, err := Generate(dir)
	require.NoError(t, err)
	assert.Equal(t, "demo-server", m.Name)
	assert.Equal(t, "python", m.Stdio.Command)
	assert.Equal(t, []string{"-m", "demo_server"}, m.Stdio.Args)
}

func TestGenerate_NothingRecognized(t *testing.T) {
	_, err := Generate(t.TempDir())
	require.Error(t, err)
}
