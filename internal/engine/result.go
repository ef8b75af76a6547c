package engine

// Machine-readable error and skip-reason codes. Every user-visible failure
// carries one of these plus a human-actionable suggestion, so wrapping CLIs
// and automation can branch on outcome without parsing prose.
const (
	// Manifest errors are fatal to the whole run; nothing is touched.
	CodeManifestNotFound           = "MANIFEST_NOT_FOUND"
	CodeManifestInvalid            = "MANIFEST_INVALID"
	CodeManifestVersionUnsupported = "MANIFEST_VERSION_UNSUPPORTED"

	// Configuration-file errors are scoped to one tool and never abort
	// sibling tools.
	CodeConfigParseError       = "CONFIG_PARSE_ERROR"
	CodeConfigPermissionDenied = "CONFIG_PERMISSION_DENIED"
	CodeConfigWriteCorrupt     = "CONFIG_WRITE_CORRUPT"

	// Policy codes explain why a tool was skipped without an error.
	CodeScopeUnsupported     = "SCOPE_UNSUPPORTED"
	CodeTransportUnsupported = "TRANSPORT_UNSUPPORTED"
	CodeLowConfidence        = "LOW_CONFIDENCE"
	CodeEntryNotFound        = "ENTRY_NOT_FOUND"
	CodeToolUnknown          = "TOOL_UNKNOWN"
	CodeToolDisabled         = "TOOL_DISABLED"
)

// Action is the outcome class of one per-tool operation.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionRemoved Action = "removed"
	ActionSkipped Action = "skipped"
)

// WriteResult is the outcome of one apply/remove attempt against one tool.
type WriteResult struct {
	Action     Action `json:"action"`
	ToolID     string `json:"toolId"`
	ConfigPath string `json:"configPath,omitempty"`
	Warning    string `json:"warning,omitempty"`
	Reason     string `json:"reason,omitempty"`
	Code       string `json:"code,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	// Diff holds the unified diff for dry-run previews.
	Diff string `json:"diff,omitempty"`
}

// RunResult aggregates a whole run. Entries appear in processing order, so
// repeated runs over an unchanged environment produce identical results.
type RunResult struct {
	RunID      string        `json:"runId"`
	Configured []WriteResult `json:"configured"`
	Skipped    []WriteResult `json:"skipped"`
	Warnings   []string      `json:"warnings,omitempty"`
}

// failureCodes are the skip codes that represent real per-tool failures
// rather than policy decisions.
var failureCodes = map[string]bool{
	CodeConfigParseError:       true,
	CodeConfigPermissionDenied: true,
	CodeConfigWriteCorrupt:     true,
}

// FailureCount returns how many tools failed (as opposed to being skipped
// for policy reasons).
func (r *RunResult) FailureCount() int {
	n := 0
	for _, w := range r.Skipped {
		if failureCodes[w.Code] {
			n++
		}
	}
	return n
}

func (r *RunResult) addConfigured(w WriteResult) {
	r.Configured = append(r.Configured, w)
	if w.Warning != "" {
		r.Warnings = append(r.Warnings, w.ToolID+": "+w.Warning)
	}
}

func (r *RunResult) addSkipped(w WriteResult) {
	w.Action = ActionSkipped
	r.Skipped = append(r.Skipped, w)
	if w.Warning != "" {
		r.Warnings = append(r.Warnings, w.ToolID+": "+w.Warning)
	}
}

// FatalError aborts a run before any file is touched (manifest and policy
// errors). It carries the machine-readable code for the wrapping CLI.
type FatalError struct {
	Code       string
	Suggestion string
	Err        error
}

func (e *FatalError) Error() string {
	if e.Suggestion != "" {
		return e.Err.Error() + " (" + e.Suggestion + ")"
	}
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error { return e.Err }
