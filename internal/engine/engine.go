package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"

	"enlist/internal/adapter"
	"enlist/internal/config"
	"enlist/internal/detect"
	"enlist/internal/diffview"
	"enlist/internal/guard"
	"enlist/internal/jsonc"
	"enlist/internal/manifest"
	"enlist/pkg/logging"
)

// Per-tool pipeline states, logged at debug level so a run can be traced
// tool by tool.
const (
	stateDetected  = "DETECTED"
	stateRead      = "READ"
	stateMerged    = "MERGED"
	stateRemoved   = "REMOVED"
	stateConfirmed = "CONFIRMED"
	stateWritten   = "WRITTEN"
	stateDone      = "DONE"
	stateRestored  = "RESTORED"
	stateFailed    = "FAILED"
)

// ConfirmFunc asks the user to approve a pending change. The diff shows
// exactly what would be written. Returning false skips the tool.
type ConfirmFunc func(tool detect.DetectedTool, diff string) (bool, error)

// Options control a single apply or remove run.
type Options struct {
	// Tools restricts the run to the given tool identifiers. Empty means
	// every detected tool the manifest targets.
	Tools []string

	// Transport forces a specific transport instead of per-tool resolution.
	Transport manifest.Transport

	// Scope overrides each tool's default configuration scope.
	Scope adapter.Scope

	// DryRun computes and reports changes without writing anything.
	DryRun bool

	// Force allows mutating tools detected with low confidence.
	Force bool

	// Env overrides environment variable values from the command line.
	Env map[string]string

	// Confirm, when non-nil, is consulted before each write.
	Confirm ConfirmFunc
}

// Engine drives detection, merging and guarded writes across all tools.
type Engine struct {
	registry *adapter.Registry
	detector *detect.Detector
	settings config.Settings
}

// New creates an engine. Settings influence detection defaults (scope,
// per-tool path overrides) and exclude disabled tools from runs.
func New(registry *adapter.Registry, detector *detect.Detector, settings config.Settings) *Engine {
	if settings.DefaultScope != "" {
		detector.SetDefaultScope(adapter.Scope(settings.DefaultScope))
	}
	for id, ts := range settings.Tools {
		if ts.ConfigPath != "" {
			detector.SetPathOverride(id, ts.ConfigPath)
		}
	}
	return &Engine{registry: registry, detector: detector, settings: settings}
}

// Detect probes for every known tool and reports what was found. entryName,
// when non-empty, is checked for presence in each tool's configuration.
func (e *Engine) Detect(ctx context.Context, entryName string) ([]detect.DetectedTool, error) {
	return e.detector.Detect(ctx, entryName)
}

// Status reports, for every detected tool, whether the manifest's entry is
// currently registered.
func (e *Engine) Status(ctx context.Context, m *manifest.Manifest) ([]detect.DetectedTool, error) {
	if err := validateManifest(m); err != nil {
		return nil, err
	}
	return e.detector.Detect(ctx, m.Name)
}

// Apply registers the manifest's entry in every targeted tool. Tools fail
// independently: an unreadable or unwritable configuration skips that tool
// and the run continues with the next one.
func (e *Engine) Apply(ctx context.Context, m *manifest.Manifest, opts Options) (*RunResult, error) {
	return e.run(ctx, m, opts, e.applyTool)
}

// Remove deletes the manifest's entry from every targeted tool. Tools
// without the entry are reported as skipped, not failed.
func (e *Engine) Remove(ctx context.Context, m *manifest.Manifest, opts Options) (*RunResult, error) {
	return e.run(ctx, m, opts, e.removeTool)
}

type toolOp func(tool detect.DetectedTool, a adapter.Adapter, m *manifest.Manifest, opts Options) WriteResult

func (e *Engine) run(ctx context.Context, m *manifest.Manifest, opts Options, op toolOp) (*RunResult, error) {
	if err := validateManifest(m); err != nil {
		return nil, err
	}

	result := &RunResult{RunID: uuid.New().String()}
	logging.Info("Engine", "run %s: %s (entry %q)", result.RunID, m.Description, m.Name)

	detected, err := e.detector.Detect(ctx, m.Name)
	if err != nil {
		return nil, err
	}

	targets, err := e.selectTargets(m, opts, detected, result)
	if err != nil {
		return nil, err
	}

	for _, tool := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logging.Debug("Engine", "%s: %s at %s", tool.ID, stateDetected, tool.ConfigPath)
		a, err := e.registry.Get(tool.ID)
		if err != nil {
			// Detection only reports registered tools; this guards
			// against a registry/spec mismatch.
			result.addSkipped(WriteResult{ToolID: tool.ID, Code: CodeToolUnknown, Reason: "no adapter registered"})
			continue
		}
		w := op(tool, a, m, opts)
		if w.Action == ActionSkipped {
			result.addSkipped(w)
		} else {
			result.addConfigured(w)
		}
	}
	return result, nil
}

// selectTargets intersects detected tools with the manifest's target filter,
// the run's --tool selection and the settings' disabled list. Unknown or
// undetected explicitly-requested tools surface as skipped entries.
func (e *Engine) selectTargets(m *manifest.Manifest, opts Options, detected []detect.DetectedTool, result *RunResult) ([]detect.DetectedTool, error) {
	detectedByID := make(map[string]detect.DetectedTool, len(detected))
	for _, t := range detected {
		detectedByID[t.ID] = t
	}

	wanted := m.Targets(e.registry.IDs())
	if len(opts.Tools) > 0 {
		allowed := make(map[string]bool, len(wanted))
		for _, id := range wanted {
			allowed[id] = true
		}
		wanted = wanted[:0]
		seen := make(map[string]bool)
		for _, id := range opts.Tools {
			if seen[id] {
				continue
			}
			seen[id] = true
			if _, err := e.registry.Get(id); err != nil {
				result.addSkipped(WriteResult{
					ToolID:     id,
					Code:       CodeToolUnknown,
					Reason:     fmt.Sprintf("unknown tool %q", id),
					Suggestion: "known tools: " + strings.Join(e.registry.IDs(), ", "),
				})
				continue
			}
			if !allowed[id] {
				result.addSkipped(WriteResult{ToolID: id, Reason: "excluded by the manifest's target filter"})
				continue
			}
			wanted = append(wanted, id)
		}
	}

	var targets []detect.DetectedTool
	for _, id := range wanted {
		tool, found := detectedByID[id]
		if !found {
			if containsString(opts.Tools, id) {
				result.addSkipped(WriteResult{
					ToolID:     id,
					Code:       CodeEntryNotFound,
					Reason:     "tool not detected on this machine",
					Suggestion: "install the tool or check the detection output of `enlist detect`",
				})
			}
			continue
		}
		if ts, ok := e.settings.Tools[id]; ok && ts.Disabled {
			result.addSkipped(WriteResult{ToolID: id, Code: CodeToolDisabled, Reason: "disabled in settings"})
			continue
		}
		targets = append(targets, tool)
	}
	return targets, nil
}

func (e *Engine) applyTool(tool detect.DetectedTool, a adapter.Adapter, m *manifest.Manifest, opts Options) WriteResult {
	w := WriteResult{ToolID: tool.ID, ConfigPath: tool.ConfigPath}

	if skip, ok := e.gate(tool, a, opts, &w); !ok {
		return skip
	}

	transport, skip, ok := resolveTransport(tool, a, m, opts)
	if !ok {
		skip.ConfigPath = w.ConfigPath
		return skip
	}

	doc, err := adapter.ReadDocument(w.ConfigPath)
	if err != nil {
		return readFailure(w, err)
	}
	logging.Debug("Engine", "%s: %s", tool.ID, stateRead)

	entryExisted := doc.HasEntry(a.RootKey(), m.Name)
	next, err := a.Merge(doc, m, adapter.MergeOptions{Transport: transport, Env: opts.Env})
	if err != nil {
		w.Code = CodeConfigParseError
		w.Reason = err.Error()
		w.Action = ActionSkipped
		return w
	}
	logging.Debug("Engine", "%s: %s (transport %s)", tool.ID, stateMerged, transport)

	if doc.Exists() && next.Text == doc.Text {
		w.Action = ActionSkipped
		w.Reason = "already up to date"
		return w
	}

	w.Warning = envWarning(m, opts.Env, a.Capabilities().SecretStyle)

	diff, err := diffview.Unified(w.ConfigPath, doc.Text, next.Text)
	if err != nil {
		logging.Warn("Engine", "%s: could not render diff: %v", tool.ID, err)
	}
	if opts.DryRun {
		w.Action = ActionSkipped
		w.Reason = "dry run, nothing written"
		w.Diff = diff
		return w
	}

	if opts.Confirm != nil {
		ok, err := opts.Confirm(tool, diff)
		if err != nil {
			w.Action = ActionSkipped
			w.Reason = err.Error()
			return w
		}
		if !ok {
			w.Action = ActionSkipped
			w.Reason = "declined"
			return w
		}
		logging.Debug("Engine", "%s: %s", tool.ID, stateConfirmed)
	}

	if err := guard.Write(w.ConfigPath, next.Text, validateJSONC); err != nil {
		return writeFailure(w, tool.ID, err)
	}
	logging.Debug("Engine", "%s: %s", tool.ID, stateWritten)

	if entryExisted {
		w.Action = ActionUpdated
	} else {
		w.Action = ActionCreated
	}
	logging.Debug("Engine", "%s: %s", tool.ID, stateDone)
	return w
}

func (e *Engine) removeTool(tool detect.DetectedTool, a adapter.Adapter, m *manifest.Manifest, opts Options) WriteResult {
	w := WriteResult{ToolID: tool.ID, ConfigPath: tool.ConfigPath}

	if skip, ok := e.gate(tool, a, opts, &w); !ok {
		return skip
	}

	doc, err := adapter.ReadDocument(w.ConfigPath)
	if err != nil {
		return readFailure(w, err)
	}
	logging.Debug("Engine", "%s: %s", tool.ID, stateRead)

	if !doc.Exists() || !doc.HasEntry(a.RootKey(), m.Name) {
		w.Action = ActionSkipped
		w.Code = CodeEntryNotFound
		w.Reason = fmt.Sprintf("no entry %q in %s", m.Name, w.ConfigPath)
		return w
	}

	next, empty, err := a.Remove(doc, m.Name)
	if err != nil {
		w.Action = ActionSkipped
		w.Code = CodeConfigParseError
		w.Reason = err.Error()
		return w
	}
	logging.Debug("Engine", "%s: %s", tool.ID, stateRemoved)

	newText := next.Text
	if empty {
		newText = ""
	}
	diff, err := diffview.Unified(w.ConfigPath, doc.Text, newText)
	if err != nil {
		logging.Warn("Engine", "%s: could not render diff: %v", tool.ID, err)
	}
	if opts.DryRun {
		w.Action = ActionSkipped
		if empty {
			w.Reason = "dry run, file would be deleted"
		} else {
			w.Reason = "dry run, nothing written"
		}
		w.Diff = diff
		return w
	}

	if opts.Confirm != nil {
		ok, err := opts.Confirm(tool, diff)
		if err != nil {
			w.Action = ActionSkipped
			w.Reason = err.Error()
			return w
		}
		if !ok {
			w.Action = ActionSkipped
			w.Reason = "declined"
			return w
		}
		logging.Debug("Engine", "%s: %s", tool.ID, stateConfirmed)
	}

	if empty {
		// The entry was the only content; deleting the file leaves the
		// tool exactly as before the first apply.
		if err := guard.RemoveFile(w.ConfigPath); err != nil {
			return writeFailure(w, tool.ID, err)
		}
	} else {
		if err := guard.Write(w.ConfigPath, next.Text, validateJSONC); err != nil {
			return writeFailure(w, tool.ID, err)
		}
	}
	logging.Debug("Engine", "%s: %s", tool.ID, stateWritten)

	w.Action = ActionRemoved
	logging.Debug("Engine", "%s: %s", tool.ID, stateDone)
	return w
}

// gate applies the shared pre-write checks: confidence and scope. It also
// rewrites the target path when a scope override is in effect. ok=false
// means the returned skip result should be used.
func (e *Engine) gate(tool detect.DetectedTool, a adapter.Adapter, opts Options, w *WriteResult) (WriteResult, bool) {
	if tool.Confidence == detect.ConfidenceLow && !opts.Force {
		w.Action = ActionSkipped
		w.Code = CodeLowConfidence
		w.Reason = "detection is low-confidence (workspace marker only)"
		w.Suggestion = "re-run with --force to configure it anyway"
		return *w, false
	}
	if opts.Scope != "" && opts.Scope != tool.Scope {
		if !a.Capabilities().SupportsScope(opts.Scope) {
			w.Action = ActionSkipped
			w.Code = CodeScopeUnsupported
			w.Reason = fmt.Sprintf("%s does not support %s-scoped configuration", a.DisplayName(), opts.Scope)
			return *w, false
		}
		path, ok := e.detector.ConfigPath(tool.ID, opts.Scope)
		if !ok {
			w.Action = ActionSkipped
			w.Code = CodeScopeUnsupported
			w.Reason = fmt.Sprintf("no %s-scoped configuration path for %s", opts.Scope, tool.ID)
			return *w, false
		}
		w.ConfigPath = path
	}
	return WriteResult{}, true
}

// resolveTransport picks the transport for one tool: an explicit override
// must be available on both sides; otherwise the tool's preferred transport
// wins when the manifest offers it, falling back to whatever both support.
func resolveTransport(tool detect.DetectedTool, a adapter.Adapter, m *manifest.Manifest, opts Options) (manifest.Transport, WriteResult, bool) {
	caps := a.Capabilities()
	if opts.Transport != "" {
		if !m.HasTransport(opts.Transport) {
			return "", WriteResult{
				ToolID: tool.ID,
				Action: ActionSkipped,
				Code:   CodeTransportUnsupported,
				Reason: fmt.Sprintf("manifest does not define a %s transport", opts.Transport),
			}, false
		}
		if !caps.SupportsTransport(opts.Transport) {
			return "", WriteResult{
				ToolID: tool.ID,
				Action: ActionSkipped,
				Code:   CodeTransportUnsupported,
				Reason: fmt.Sprintf("%s does not support the %s transport", a.DisplayName(), opts.Transport),
			}, false
		}
		return opts.Transport, WriteResult{}, true
	}
	if m.HasTransport(tool.DefaultTransport) && caps.SupportsTransport(tool.DefaultTransport) {
		return tool.DefaultTransport, WriteResult{}, true
	}
	for _, t := range []manifest.Transport{manifest.TransportStdio, manifest.TransportHTTP} {
		if m.HasTransport(t) && caps.SupportsTransport(t) {
			return t, WriteResult{}, true
		}
	}
	return "", WriteResult{
		ToolID: tool.ID,
		Action: ActionSkipped,
		Code:   CodeTransportUnsupported,
		Reason: fmt.Sprintf("%s supports none of the manifest's transports", a.DisplayName()),
	}, false
}

// envWarning reports required variables that will be written as references
// because neither an override nor a manifest default supplies a value.
// Secrets are exempt for tools that prompt for them at first use.
func envWarning(m *manifest.Manifest, overrides map[string]string, style adapter.SecretStyle) string {
	var missing []string
	for name, v := range m.Env {
		if !v.Required {
			continue
		}
		if _, ok := overrides[name]; ok {
			continue
		}
		if v.Default != "" {
			continue
		}
		if v.Secret && style == adapter.SecretPromptInput {
			continue
		}
		missing = append(missing, name)
	}
	if len(missing) == 0 {
		return ""
	}
	sort.Strings(missing)
	return fmt.Sprintf("required variable(s) %s have no value; references were written and must resolve at runtime", strings.Join(missing, ", "))
}

func validateManifest(m *manifest.Manifest) error {
	if m.Version != manifest.CurrentVersion {
		return &FatalError{
			Code:       CodeManifestVersionUnsupported,
			Suggestion: fmt.Sprintf("this build understands manifest version %d", manifest.CurrentVersion),
			Err:        fmt.Errorf("unsupported manifest version %d", m.Version),
		}
	}
	if err := m.Validate(); err != nil {
		return &FatalError{Code: CodeManifestInvalid, Err: err}
	}
	return nil
}

func validateJSONC(text string) error {
	_, err := jsonc.Parse(text)
	return err
}

func readFailure(w WriteResult, err error) WriteResult {
	w.Action = ActionSkipped
	var perr *jsonc.ParseError
	switch {
	case errors.As(err, &perr):
		w.Code = CodeConfigParseError
		w.Reason = err.Error()
		w.Suggestion = "fix the syntax error by hand; the file was not modified"
	case errors.Is(err, os.ErrPermission):
		w.Code = CodeConfigPermissionDenied
		w.Reason = err.Error()
		w.Suggestion = "check file ownership and permissions"
	default:
		w.Code = CodeConfigParseError
		w.Reason = err.Error()
	}
	return w
}

func writeFailure(w WriteResult, toolID string, err error) WriteResult {
	w.Action = ActionSkipped
	var cerr *guard.CorruptWriteError
	switch {
	case errors.As(err, &cerr):
		w.Code = CodeConfigWriteCorrupt
		w.Reason = err.Error()
		w.Suggestion = "the original file was restored from its backup; retry after freeing disk space"
		logging.Error("Engine", err, "%s: %s", toolID, stateRestored)
	case errors.Is(err, os.ErrPermission):
		w.Code = CodeConfigPermissionDenied
		w.Reason = err.Error()
		w.Suggestion = "check file ownership and permissions"
		logging.Error("Engine", err, "%s: %s", toolID, stateFailed)
	default:
		w.Code = CodeConfigWriteCorrupt
		w.Reason = err.Error()
		logging.Error("Engine", err, "%s: %s", toolID, stateFailed)
	}
	return w
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
