package adapter

import (
	"strings"

	"enlist/internal/jsonc"
	"enlist/internal/manifest"
)

// VSCodeAdapter targets Visual Studio Code. Entries live under "servers"
// with a required type discriminator. Secret variables are not written in
// the clear: the entry holds an ${input:VAR} placeholder and the document's
// sibling "inputs" array gains a matching promptString definition, which
// VS Code resolves by prompting the user.
type VSCodeAdapter struct {
	schema
}

// NewVSCodeAdapter returns the vscode format adapter.
func NewVSCodeAdapter() *VSCodeAdapter {
	return &VSCodeAdapter{schema{
		id:          "vscode",
		displayName: "Visual Studio Code",
		rootKey:     "servers",
		httpURLKey:  "url",
		caps: Capabilities{
			Transports:        []manifest.Transport{manifest.TransportStdio, manifest.TransportHTTP},
			Scopes:            []Scope{ScopeWorkspace, ScopeGlobal},
			TypeDiscriminator: true,
			SecretStyle:       SecretPromptInput,
		},
	}}
}

// Merge writes the entry and ensures a prompt input exists for every secret
// variable the entry references.
func (a *VSCodeAdapter) Merge(doc *Document, m *manifest.Manifest, opts MergeOptions) (*Document, error) {
	next, err := a.schema.Merge(doc, m, opts)
	if err != nil {
		return nil, err
	}
	if opts.Transport != manifest.TransportStdio {
		return next, nil
	}

	var needed []string
	for _, name := range sortedVarNames(m.Env) {
		decl := m.Env[name]
		if !decl.Secret {
			continue
		}
		if _, overridden := opts.Env[name]; overridden {
			continue
		}
		needed = append(needed, name)
	}
	if len(needed) == 0 {
		return next, nil
	}

	existing := inputIDs(next)
	elems := rawInputs(next)
	added := false
	for _, name := range needed {
		if existing[name] {
			continue
		}
		description := m.Env[name].Description
		if description == "" {
			description = name
		}
		elems = append(elems, jsonc.NewObj().
			Set("type", "promptString").
			Set("id", name).
			Set("description", description).
			Set("password", true))
		added = true
	}
	if !added {
		return next, nil
	}
	edits, err := jsonc.Edit(next.jdoc(), []string{"inputs"}, elems)
	if err != nil {
		return nil, err
	}
	return next.rewrite(edits)
}

// Remove drops the entry and garbage-collects prompt inputs that no
// remaining entry references.
func (a *VSCodeAdapter) Remove(doc *Document, name string) (*Document, bool, error) {
	next, _, err := a.schema.Remove(doc, name)
	if err != nil {
		return nil, false, err
	}
	next, err = a.pruneInputs(next)
	if err != nil {
		return nil, false, err
	}
	return next, a.empty(next), nil
}

// inputIDs collects the ids already declared in the document's inputs array.
func inputIDs(doc *Document) map[string]bool {
	ids := make(map[string]bool)
	if doc.Root == nil {
		return ids
	}
	inputs := doc.Root.Lookup("inputs")
	if inputs == nil || inputs.Kind != jsonc.KindArray {
		return ids
	}
	for _, elem := range inputs.Elems {
		if idVal := elem.Lookup("id"); idVal != nil {
			if id, err := idVal.StringValue(); err == nil {
				ids[id] = true
			}
		}
	}
	return ids
}

// rawInputs returns the existing inputs elements as verbatim fragments so a
// rewrite of the array keeps them byte for byte.
func rawInputs(doc *Document) []interface{} {
	if doc.Root == nil {
		return nil
	}
	inputs := doc.Root.Lookup("inputs")
	if inputs == nil || inputs.Kind != jsonc.KindArray {
		return nil
	}
	elems := make([]interface{}, 0, len(inputs.Elems))
	for _, elem := range inputs.Elems {
		elems = append(elems, jsonc.Raw(doc.Text[elem.Span.Start:elem.Span.End]))
	}
	return elems
}

func (a *VSCodeAdapter) pruneInputs(doc *Document) (*Document, error) {
	inputs := doc.Root.Lookup("inputs")
	if inputs == nil || inputs.Kind != jsonc.KindArray {
		return doc, nil
	}
	var kept []interface{}
	pruned := false
	for _, elem := range inputs.Elems {
		id := ""
		if idVal := elem.Lookup("id"); idVal != nil {
			id, _ = idVal.StringValue()
		}
		if id != "" && !strings.Contains(doc.Text, "${input:"+id+"}") {
			pruned = true
			continue
		}
		kept = append(kept, jsonc.Raw(doc.Text[elem.Span.Start:elem.Span.End]))
	}
	if !pruned {
		return doc, nil
	}
	var edits []jsonc.TextEdit
	var err error
	if len(kept) == 0 {
		edits, err = jsonc.Remove(doc.jdoc(), []string{"inputs"})
	} else {
		edits, err = jsonc.Edit(doc.jdoc(), []string{"inputs"}, kept)
	}
	if err != nil {
		return nil, err
	}
	return doc.rewrite(edits)
}

// empty tolerates a leftover empty inputs array alongside the empty root key.
func (a *VSCodeAdapter) empty(doc *Document) bool {
	if doc.Root == nil {
		return true
	}
	if doc.Root.Kind != jsonc.KindObject {
		return false
	}
	for _, m := range doc.Root.Members {
		switch m.Key {
		case a.rootKey:
			if m.Value.Kind != jsonc.KindObject || len(m.Value.Members) != 0 {
				return false
			}
		case "inputs":
			if m.Value.Kind != jsonc.KindArray || len(m.Value.Elems) != 0 {
				return false
			}
		default:
			return false
		}
	}
	return doc.Root.Member(a.rootKey) != nil
}
