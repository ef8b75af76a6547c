package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"enlist/internal/engine"
)

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "manifest errors exit 2",
			err:  &engine.FatalError{Code: engine.CodeManifestInvalid, Err: errors.New("bad manifest")},
			want: ExitCodeManifestError,
		},
		{
			name: "wrapped manifest errors exit 2",
			err:  errors.Join(errors.New("context"), &engine.FatalError{Code: engine.CodeManifestNotFound, Err: errors.New("missing")}),
			want: ExitCodeManifestError,
		},
		{
			name: "partial failures exit 3",
			err:  &partialFailureError{failures: 2},
			want: ExitCodePartialFailure,
		},
		{
			name: "everything else exits 1",
			err:  errors.New("boom"),
			want: ExitCodeError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getExitCode(tt.err))
		})
	}
}

func TestPartialFailureErrorMessage(t *testing.T) {
	err := &partialFailureError{failures: 3}
	assert.Equal(t, "3 tool(s) could not be configured", err.Error())
}
