package adapter

import (
	"fmt"
	"sort"

	"enlist/internal/jsonc"
	"enlist/internal/manifest"
)

// schema carries the per-tool knobs shared by the concrete adapters. The
// generic merge/remove below covers every tool whose entry is one object
// under a root key; vscode layers its inputs handling on top.
type schema struct {
	id          string
	displayName string
	rootKey     string
	caps        Capabilities
	// httpURLKey is the entry field holding the endpoint for HTTP transport
	// ("url" for most tools, "serverUrl" for windsurf).
	httpURLKey string
}

func (s schema) ID() string                 { return s.id }
func (s schema) DisplayName() string        { return s.displayName }
func (s schema) RootKey() string            { return s.rootKey }
func (s schema) Capabilities() Capabilities { return s.caps }

// buildEntry renders the manifest as one entry object in this schema.
func (s schema) buildEntry(m *manifest.Manifest, opts MergeOptions) (*jsonc.Obj, error) {
	entry := jsonc.NewObj()
	switch opts.Transport {
	case manifest.TransportStdio:
		if m.Stdio == nil {
			return nil, fmt.Errorf("manifest %q has no stdio block", m.Name)
		}
		if s.caps.TypeDiscriminator {
			entry.Set("type", "stdio")
		}
		entry.Set("command", m.Stdio.Command)
		if len(m.Stdio.Args) > 0 {
			entry.Set("args", m.Stdio.Args)
		}
		if m.Stdio.Cwd != "" {
			entry.Set("cwd", m.Stdio.Cwd)
		}
		if env := s.buildEnv(m, opts); len(env) > 0 {
			entry.Set("env", env)
		}
	case manifest.TransportHTTP:
		if m.HTTP == nil {
			return nil, fmt.Errorf("manifest %q has no http block", m.Name)
		}
		if s.caps.TypeDiscriminator {
			entry.Set("type", "http")
		}
		entry.Set(s.httpURLKey, m.HTTP.URL)
	default:
		return nil, fmt.Errorf("unknown transport %q", opts.Transport)
	}
	return entry, nil
}

// buildEnv resolves the manifest's declared variables to entry values:
// run override first, then the manifest default, then a reference the tool
// resolves at launch time.
func (s schema) buildEnv(m *manifest.Manifest, opts MergeOptions) map[string]string {
	if len(m.Env) == 0 {
		return nil
	}
	env := make(map[string]string, len(m.Env))
	for name, decl := range m.Env {
		if v, ok := opts.Env[name]; ok {
			env[name] = v
			continue
		}
		if decl.Default != "" {
			env[name] = decl.Default
			continue
		}
		env[name] = s.reference(name, decl)
	}
	return env
}

func (s schema) reference(name string, decl manifest.EnvVar) string {
	if s.caps.SecretStyle == SecretPromptInput {
		if decl.Secret {
			return fmt.Sprintf("${input:%s}", name)
		}
		return fmt.Sprintf("${env:%s}", name)
	}
	return fmt.Sprintf("${%s}", name)
}

// Merge implements the generic single-entry merge shared by all adapters.
func (s schema) Merge(doc *Document, m *manifest.Manifest, opts MergeOptions) (*Document, error) {
	entry, err := s.buildEntry(m, opts)
	if err != nil {
		return nil, err
	}
	edits, err := jsonc.Edit(doc.jdoc(), []string{s.rootKey, m.Name}, entry)
	if err != nil {
		return nil, err
	}
	return doc.rewrite(edits)
}

// Remove implements the generic entry removal shared by all adapters.
func (s schema) Remove(doc *Document, name string) (*Document, bool, error) {
	if !doc.HasEntry(s.rootKey, name) {
		return nil, false, fmt.Errorf("no entry %q in %s", name, doc.Path)
	}
	edits, err := jsonc.Remove(doc.jdoc(), []string{s.rootKey, name})
	if err != nil {
		return nil, false, err
	}
	next, err := doc.rewrite(edits)
	if err != nil {
		return nil, false, err
	}
	return next, s.semanticallyEmpty(next), nil
}

// semanticallyEmpty is true when nothing but this engine's own scaffolding
// (an empty root key object) remains in the document.
func (s schema) semanticallyEmpty(doc *Document) bool {
	if doc.Root == nil {
		return true
	}
	if doc.Root.Kind != jsonc.KindObject || len(doc.Root.Members) != 1 {
		return false
	}
	m := doc.Root.Member(s.rootKey)
	return m != nil && m.Value.Kind == jsonc.KindObject && len(m.Value.Members) == 0
}

// sortedVarNames gives deterministic iteration over a manifest env map.
func sortedVarNames(env map[string]manifest.EnvVar) []string {
	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
