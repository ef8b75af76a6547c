package cmd

import (
	"os"

	"enlist/internal/adapter"
	"enlist/internal/config"
	"enlist/internal/detect"
	"enlist/internal/engine"
	"enlist/internal/manifest"
)

// buildEngine wires the detector, adapter registry and settings into an
// engine over the real machine.
func buildEngine() (*engine.Engine, config.Settings, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, config.Settings{}, err
	}
	env, err := detect.SystemEnvironment()
	if err != nil {
		return nil, config.Settings{}, err
	}
	registry := adapter.DefaultRegistry()
	return engine.New(registry, detect.New(env, registry), settings), settings, nil
}

// loadManifest reads the manifest from an explicit path, or finds it in the
// working directory when the path is empty. A missing manifest surfaces as a
// fatal error so callers exit with the manifest error code.
func loadManifest(path string) (*manifest.Manifest, string, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, "", err
		}
		found, err := manifest.Find(wd)
		if err != nil {
			return nil, "", fatalManifestError(err)
		}
		path = found
	}
	m, err := manifest.Load(path)
	if err != nil {
		return nil, "", fatalManifestError(err)
	}
	return m, path, nil
}

// fatalManifestError classifies manifest loading failures so the root
// command can map them to the manifest exit code.
func fatalManifestError(err error) error {
	code := engine.CodeManifestInvalid
	suggestion := ""
	if _, ok := err.(*manifest.NotFoundError); ok {
		code = engine.CodeManifestNotFound
		suggestion = "run `enlist init` to generate a manifest"
	}
	return &engine.FatalError{Code: code, Suggestion: suggestion, Err: err}
}
