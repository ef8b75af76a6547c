package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"enlist/pkg/logging"
)

// Generate inspects a project directory's package metadata and produces a
// starter manifest for it. Node (package.json), Go (go.mod), and Python
// (pyproject.toml) projects are recognized, in that order.
func Generate(dir string) (*Manifest, error) {
	inspectors := []func(string) (*Manifest, bool){
		inspectNode,
		inspectGo,
		inspectPython,
	}
	for _, inspect := range inspectors {
		if m, ok := inspect(dir); ok {
			logging.Info("Manifest", "Generated manifest %q from project metadata in %s", m.Name, dir)
			return m, nil
		}
	}
	return nil, fmt.Errorf("no package metadata found in %s (looked for package.json, go.mod, pyproject.toml)", dir)
}

func inspectNode(dir string) (*Manifest, bool) {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return nil, false
	}
	var pkg struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Main        string `json:"main"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, false
	}
	entry := pkg.Main
	if entry == "" {
		entry = "index.js"
	}
	return &Manifest{
		Version:     CurrentVersion,
		Name:        sanitizeName(pkg.Name, dir),
		Description: pkg.Description,
		Stdio:       &StdioConfig{Command: "node", Args: []string{entry}},
	}, true
}

func inspectGo(dir string) (*Manifest, bool) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return nil, false
	}
	name := ""
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "module "); ok {
			parts := strings.Split(strings.TrimSpace(rest), "/")
			name = parts[len(parts)-1]
			break
		}
	}
	return &Manifest{
		Version: CurrentVersion,
		Name:    sanitizeName(name, dir),
		Stdio:   &StdioConfig{Command: "go", Args: []string{"run", "."}},
	}, true
}

func inspectPython(dir string) (*Manifest, bool) {
	data, err := os.ReadFile(filepath.Join(dir, "pyproject.toml"))
	if err != nil {
		return nil, false
	}
	// A full TOML parser is not warranted for one key; the project name line
	// in [project] or [tool.poetry] is a flat string assignment.
	name := ""
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "name"); ok {
			rest = strings.TrimSpace(rest)
			if rest, ok = strings.CutPrefix(rest, "="); ok {
				name = strings.Trim(strings.TrimSpace(rest), `"'`)
				break
			}
		}
	}
	module := strings.ReplaceAll(sanitizeName(name, dir), "-", "_")
	return &Manifest{
		Version: CurrentVersion,
		Name:    sanitizeName(name, dir),
		Stdio:   &StdioConfig{Command: "python", Args: []string{"-m", module}},
	}, true
}

// sanitizeName coerces package names (possibly scoped or empty) into a valid
// entry name, falling back to the directory base name.
func sanitizeName(name, dir string) string {
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:] // drop npm scope or module path prefix
	}
	name = strings.TrimSpace(name)
	if name == "" || !namePattern.MatchString(name) {
		base := filepath.Base(dir)
		if namePattern.MatchString(base) {
			return base
		}
		return "server"
	}
	return name
}
