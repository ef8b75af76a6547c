// Package detect inspects the local machine and workspace for installed
// developer tools and reports where each keeps its configuration document.
//
// Detection is a pure function of the filesystem and environment: it never
// mutates anything. Each tool is probed by strategies in descending
// confidence order (binary on the search path, then install directory, then
// workspace marker); the first hit sets the confidence tier and tools with
// no hit are omitted entirely.
package detect

import (
	"context"
	"os"
	"path/filepath"

	"enlist/internal/adapter"
	"enlist/internal/jsonc"
	"enlist/internal/manifest"
	"enlist/pkg/logging"

	"golang.org/x/sync/errgroup"
)

// Confidence grades how certain the detector is that a tool is installed.
// It is distinct from whether the tool's config file exists.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// DetectedTool is one candidate target, constructed fresh each run and never
// persisted.
type DetectedTool struct {
	ID               string             `json:"id"`
	ConfigPath       string             `json:"configPath"`
	ConfigExists     bool               `json:"configExists"`
	EntryExists      bool               `json:"entryExists"`
	Scope            adapter.Scope      `json:"scope"`
	DefaultTransport manifest.Transport `json:"defaultTransport"`
	Confidence       Confidence         `json:"detectionConfidence"`
}

// Detector enumerates candidate tools against an Environment.
type Detector struct {
	env      Environment
	registry *adapter.Registry
	specs    []toolSpec
	// defaultScope is used for tools that support both scopes.
	defaultScope adapter.Scope
	// pathOverrides pins a tool's config document to an explicit path.
	pathOverrides map[string]string
}

// New returns a detector over the given environment and adapter registry.
func New(env Environment, registry *adapter.Registry) *Detector {
	return &Detector{
		env:           env,
		registry:      registry,
		specs:         builtinSpecs(),
		defaultScope:  adapter.ScopeWorkspace,
		pathOverrides: make(map[string]string),
	}
}

// SetDefaultScope changes the scope preferred for tools supporting both.
func (d *Detector) SetDefaultScope(scope adapter.Scope) {
	d.defaultScope = scope
}

// SetPathOverride pins the config document path for one tool.
func (d *Detector) SetPathOverride(toolID, path string) {
	d.pathOverrides[toolID] = path
}

// Detect probes every known tool and returns the candidates found, in
// canonical tool order regardless of probe completion order. entryName, when
// non-empty, is checked against each existing document to populate
// EntryExists. Probes are read-only and run in parallel.
func (d *Detector) Detect(ctx context.Context, entryName string) ([]DetectedTool, error) {
	results := make([]*DetectedTool, len(d.specs))
	g, ctx := errgroup.WithContext(ctx)
	for i, spec := range d.specs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = d.detectOne(spec, entryName)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var tools []DetectedTool
	for _, r := range results {
		if r != nil {
			tools = append(tools, *r)
		}
	}
	logging.Info("Detector", "Found %d candidate tools", len(tools))
	return tools, nil
}

// ConfigPath resolves the document path for a tool at a given scope. The
// bool is false when the tool does not support the scope.
func (d *Detector) ConfigPath(toolID string, scope adapter.Scope) (string, bool) {
	if path, ok := d.pathOverrides[toolID]; ok {
		return path, true
	}
	for _, spec := range d.specs {
		if spec.id != toolID {
			continue
		}
		switch scope {
		case adapter.ScopeWorkspace:
			if spec.workspaceRelPath == "" {
				return "", false
			}
			return filepath.Join(d.env.WorkDir, spec.workspaceRelPath), true
		case adapter.ScopeGlobal:
			return d.globalPath(spec), true
		}
	}
	return "", false
}

func (d *Detector) detectOne(spec toolSpec, entryName string) *DetectedTool {
	confidence, ok := d.probe(spec)
	if !ok {
		logging.Debug("Detector", "No trace of %s, omitting", spec.id)
		return nil
	}

	scope := adapter.ScopeGlobal
	if spec.workspaceRelPath != "" && d.defaultScope == adapter.ScopeWorkspace {
		scope = adapter.ScopeWorkspace
	}
	path, _ := d.ConfigPath(spec.id, scope)

	tool := &DetectedTool{
		ID:               spec.id,
		ConfigPath:       path,
		ConfigExists:     fileExists(path),
		Scope:            scope,
		DefaultTransport: spec.defaultTransport,
		Confidence:       confidence,
	}
	if entryName != "" && tool.ConfigExists {
		tool.EntryExists = d.entryExists(spec.id, path, entryName)
	}
	logging.Debug("Detector", "Detected %s (%s confidence) at %s", spec.id, confidence, path)
	return tool
}

// probe runs the detection strategies in descending confidence order.
func (d *Detector) probe(spec toolSpec) (Confidence, bool) {
	for _, bin := range spec.binaries {
		if _, err := d.env.LookPath(bin); err == nil {
			return ConfidenceHigh, true
		}
	}
	if spec.installDirs != nil {
		for _, dir := range spec.installDirs(d.env) {
			if dirExists(dir) {
				return ConfidenceMedium, true
			}
		}
	}
	for _, marker := range spec.workspaceMarkers {
		if pathExists(filepath.Join(d.env.WorkDir, marker)) {
			return ConfidenceLow, true
		}
	}
	return "", false
}

// globalPath applies the dual-location precedence: prefer the newer path
// unless a legacy path already holds entries and the newer one does not
// exist yet.
func (d *Detector) globalPath(spec toolSpec) string {
	newer := spec.globalPath(d.env)
	if spec.legacyGlobalPaths == nil || fileExists(newer) {
		return newer
	}
	for _, legacy := range spec.legacyGlobalPaths(d.env) {
		if fileExists(legacy) && d.hasEntries(spec.id, legacy) {
			logging.Debug("Detector", "Using legacy config path %s for %s", legacy, spec.id)
			return legacy
		}
	}
	return newer
}

// hasEntries reports whether a document holds any entries under the tool's
// root key. Unreadable or malformed documents count as empty.
func (d *Detector) hasEntries(toolID, path string) bool {
	a, err := d.registry.Get(toolID)
	if err != nil {
		return false
	}
	root := d.parseRoot(path)
	entries := root.Lookup(a.RootKey())
	return entries != nil && len(entries.Members) > 0
}

func (d *Detector) entryExists(toolID, path, entryName string) bool {
	a, err := d.registry.Get(toolID)
	if err != nil {
		return false
	}
	return d.parseRoot(path).Lookup(a.RootKey(), entryName) != nil
}

func (d *Detector) parseRoot(path string) *jsonc.Value {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	root, err := jsonc.Parse(string(data))
	if err != nil {
		logging.Debug("Detector", "Could not parse %s: %v", path, err)
		return nil
	}
	return root
}
