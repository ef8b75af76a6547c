package cli

import (
	"errors"
	"fmt"

	"enlist/internal/engine"
	"enlist/internal/manifest"
)

// FormatError renders an error for the terminal, surfacing the machine
// code and suggestion when the error carries them.
func FormatError(err error) string {
	var fatal *engine.FatalError
	if errors.As(err, &fatal) {
		msg := fmt.Sprintf("%s: %v", fatal.Code, fatal.Err)
		if fatal.Suggestion != "" {
			msg += "\nhint: " + fatal.Suggestion
		}
		return msg
	}

	var notFound *manifest.NotFoundError
	if errors.As(err, &notFound) {
		return fmt.Sprintf("%s: %v\nhint: run `enlist init` to generate a manifest", engine.CodeManifestNotFound, err)
	}

	var verrs manifest.ValidationErrors
	if errors.As(err, &verrs) {
		return fmt.Sprintf("%s:\n%v", engine.CodeManifestInvalid, err)
	}

	return err.Error()
}
