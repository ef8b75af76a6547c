package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"enlist/pkg/logging"

	"sigs.k8s.io/yaml"
)

// NotFoundError indicates that no manifest file exists at the given path.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("manifest not found at %s", e.Path)
}

// Load reads and validates a manifest file. YAML and JSON are both accepted;
// YAML is converted to JSON before unmarshalling so one set of json tags
// covers both. Validation failures are returned as ValidationErrors listing
// every violated field.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.UnmarshalStrict(data, &m); err != nil {
		var errs ValidationErrors
		errs.Add("", fmt.Sprintf("not a valid manifest document: %v", err))
		return nil, errs
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	logging.Info("Manifest", "Loaded manifest %q from %s", m.Name, path)
	return &m, nil
}

// Find locates the conventional manifest file in a project directory. It
// prefers enlist.yaml and falls back to enlist.json.
func Find(dir string) (string, error) {
	for _, name := range []string{DefaultFileName, "enlist.json"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", &NotFoundError{Path: filepath.Join(dir, DefaultFileName)}
}

// Save writes the manifest as YAML.
func Save(m *Manifest, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	logging.Info("Manifest", "Wrote manifest %q to %s", m.Name, path)
	return nil
}
