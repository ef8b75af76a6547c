package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enlist/internal/manifest"
)

func TestInit_GeneratesManifestForNodeProject(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"),
		[]byte(`{"name": "@acme/ticket-server", "main": "dist/server.js"}`), 0o644))

	initForce = false
	cmd := initCmd
	cmd.SetArgs([]string{dir})
	require.NoError(t, runInit(cmd, []string{dir}))

	m, err := manifest.Load(filepath.Join(dir, manifest.DefaultFileName))
	require.NoError(t, err)
	assert.Equal(t, "ticket-server", m.Name)
	require.NotNil(t, m.Stdio)
	assert.Equal(t, "node", m.Stdio.Command)
}

func TestInit_RefusesToOverwriteWithoutForce(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name": "x"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, manifest.DefaultFileName), []byte("version: 1\n"), 0o644))

	initForce = false
	err := runInit(initCmd, []string{dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	initForce = true
	t.Cleanup(func() { initForce = false })
	require.NoError(t, runInit(initCmd, []string{dir}))
}

func TestInit_NoProjectMetadata(t *testing.T) {
	dir := t.TempDir()
	err := runInit(initCmd, []string{dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no package metadata")
}
