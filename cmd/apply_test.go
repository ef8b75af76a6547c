package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enlist/internal/adapter"
	"enlist/internal/manifest"
)

func resetApplyFlags(t *testing.T) {
	t.Helper()
	orig := []string{applyTransport, applyScope}
	t.Cleanup(func() {
		applyTransport, applyScope = orig[0], orig[1]
	})
}

func TestApplyOptions_TransportValidation(t *testing.T) {
	resetApplyFlags(t)

	applyTransport = "http"
	opts, err := applyOptions()
	require.NoError(t, err)
	assert.Equal(t, manifest.TransportHTTP, opts.Transport)

	applyTransport = "websocket"
	_, err = applyOptions()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "websocket")
}

func TestApplyOptions_ScopeValidation(t *testing.T) {
	resetApplyFlags(t)

	applyTransport = ""
	applyScope = "global"
	opts, err := applyOptions()
	require.NoError(t, err)
	assert.Equal(t, adapter.ScopeGlobal, opts.Scope)

	applyScope = "system"
	_, err = applyOptions()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "system")
}
