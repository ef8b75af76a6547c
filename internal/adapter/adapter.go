package adapter

import (
	"errors"
	"fmt"
	"os"

	"enlist/internal/jsonc"
	"enlist/internal/manifest"
)

// Scope says where a tool keeps the configuration document being targeted.
type Scope string

const (
	ScopeWorkspace Scope = "workspace"
	ScopeGlobal    Scope = "global"
)

// SecretStyle is how an adapter represents secret environment variables.
type SecretStyle int

const (
	// SecretEnvReference writes a plain ${VAR} environment reference.
	SecretEnvReference SecretStyle = iota
	// SecretPromptInput writes an ${input:VAR} placeholder paired with a
	// prompt definition in the document's inputs array.
	SecretPromptInput
)

// Capabilities describes what a tool's document schema can express.
type Capabilities struct {
	// Transports the schema can encode, in preference order.
	Transports []manifest.Transport
	// Scopes the tool supports.
	Scopes []Scope
	// TypeDiscriminator is true when entries carry an explicit "type" field.
	TypeDiscriminator bool
	// SecretStyle selects the secret variable representation.
	SecretStyle SecretStyle
}

// SupportsTransport reports whether t is among the schema's transports.
func (c Capabilities) SupportsTransport(t manifest.Transport) bool {
	for _, ct := range c.Transports {
		if ct == t {
			return true
		}
	}
	return false
}

// SupportsScope reports whether s is among the tool's scopes.
func (c Capabilities) SupportsScope(s Scope) bool {
	for _, cs := range c.Scopes {
		if cs == s {
			return true
		}
	}
	return false
}

// MergeOptions carries the per-run choices an adapter needs to render an entry.
type MergeOptions struct {
	// Transport is the transport the entry encodes. The orchestrator resolves
	// it before calling Merge; it is always one the adapter supports.
	Transport manifest.Transport
	// Env maps variable names to concrete values supplied for this run.
	Env map[string]string
}

// Document is one tool configuration file held in memory: the original raw
// text, the parsed tree, and the indentation unit. Merge and Remove never
// mutate their input; they return a fresh Document whose Text is the original
// with minimal edits applied.
type Document struct {
	Path   string
	Text   string
	Root   *jsonc.Value
	Indent string
}

// ReadDocument loads and parses a tool configuration file. A missing file
// yields an empty document (not an error); a malformed file yields the parse
// error so the caller can refuse to touch it.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return EmptyDocument(path), nil
		}
		return nil, err
	}
	doc, err := jsonc.ParseDocument(string(data))
	if err != nil {
		return nil, err
	}
	return &Document{Path: path, Text: doc.Text, Root: doc.Root, Indent: doc.Indent}, nil
}

// EmptyDocument returns the document for a file that does not exist yet.
func EmptyDocument(path string) *Document {
	return &Document{Path: path, Indent: "  "}
}

// Exists reports whether the document had any content on disk.
func (d *Document) Exists() bool { return d.Text != "" }

// HasEntry reports whether the document already holds an entry with the given
// name under rootKey.
func (d *Document) HasEntry(rootKey, name string) bool {
	return d.Root.Lookup(rootKey, name) != nil
}

func (d *Document) jdoc() *jsonc.Document {
	return &jsonc.Document{Text: d.Text, Root: d.Root, Indent: d.Indent}
}

// rewrite applies edits to the document text and reparses, producing the
// successor document.
func (d *Document) rewrite(edits []jsonc.TextEdit) (*Document, error) {
	text := jsonc.Apply(d.Text, edits)
	root, err := jsonc.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("internal error: edited document no longer parses: %w", err)
	}
	return &Document{Path: d.Path, Text: text, Root: root, Indent: d.Indent}, nil
}

// Adapter translates manifest intent into one tool's document schema. Merge
// and Remove are pure; all schema differences between tools live behind this
// interface and the orchestrator never branches on tool identity.
type Adapter interface {
	// ID is the stable tool identifier (registry key).
	ID() string
	// DisplayName is the human-readable tool name.
	DisplayName() string
	// RootKey is the top-level object the tool keeps server entries under.
	RootKey() string
	// Capabilities describes the schema's reach.
	Capabilities() Capabilities
	// Merge returns a new document containing exactly one changed entry: the
	// one keyed by the manifest's name. Every other key is untouched.
	Merge(doc *Document, m *manifest.Manifest, opts MergeOptions) (*Document, error)
	// Remove returns the document without the named entry. The bool reports
	// that the document is now semantically empty and may be deleted. An
	// error is returned when no such entry exists.
	Remove(doc *Document, name string) (*Document, bool, error)
}
