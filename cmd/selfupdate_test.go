package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelfUpdate_RefusesDevVersion(t *testing.T) {
	SetVersion("dev")
	err := runSelfUpdate(newSelfUpdateCmd(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "development version")
}

func TestSelfUpdate_RefusesEmptyVersion(t *testing.T) {
	SetVersion("")
	t.Cleanup(func() { SetVersion("dev") })
	err := runSelfUpdate(newSelfUpdateCmd(), nil)
	require.Error(t, err)
}
