package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enlist/internal/adapter"
	"enlist/internal/detect"
	"enlist/internal/engine"
)

func sampleTools() []detect.DetectedTool {
	return []detect.DetectedTool{
		{
			ID:           "claude-code",
			ConfigPath:   "/work/.mcp.json",
			ConfigExists: true,
			EntryExists:  true,
			Scope:        adapter.ScopeWorkspace,
			Confidence:   detect.ConfidenceHigh,
		},
		{
			ID:         "windsurf",
			ConfigPath: "/home/u/.codeium/windsurf/mcp_config.json",
			Scope:      adapter.ScopeGlobal,
			Confidence: detect.ConfidenceMedium,
		},
	}
}

func TestParseOutputFormat(t *testing.T) {
	for _, valid := range []string{"table", "json", "yaml"} {
		f, err := ParseOutputFormat(valid)
		require.NoError(t, err)
		assert.Equal(t, OutputFormat(valid), f)
	}
	_, err := ParseOutputFormat("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestRenderDetected_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderDetected(&buf, OutputTable, sampleTools()))
	out := buf.String()
	assert.Contains(t, out, "claude-code")
	assert.Contains(t, out, "high")
	assert.Contains(t, out, "/work/.mcp.json")
	assert.Contains(t, out, "windsurf")
}

func TestRenderDetected_EmptyTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderDetected(&buf, OutputTable, nil))
	assert.Contains(t, buf.String(), "No supported tools")
}

func TestRenderDetected_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderDetected(&buf, OutputJSON, sampleTools()))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "claude-code", decoded[0]["id"])
	assert.Equal(t, "high", decoded[0]["detectionConfidence"])
}

func TestRenderRun_TableWithHints(t *testing.T) {
	result := &engine.RunResult{
		RunID: "run-1",
		Configured: []engine.WriteResult{
			{Action: engine.ActionCreated, ToolID: "claude-code", ConfigPath: "/work/.mcp.json"},
		},
		Skipped: []engine.WriteResult{
			{
				Action:     engine.ActionSkipped,
				ToolID:     "cursor",
				Code:       engine.CodeLowConfidence,
				Reason:     "detection is low-confidence (workspace marker only)",
				Suggestion: "re-run with --force to configure it anyway",
			},
		},
		Warnings: []string{"claude-code: required variable(s) API_TOKEN have no value; references were written and must resolve at runtime"},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderRun(&buf, OutputTable, result))
	out := buf.String()
	assert.Contains(t, out, "created")
	assert.Contains(t, out, "LOW_CONFIDENCE")
	assert.Contains(t, out, "hint (cursor): re-run with --force")
	assert.Contains(t, out, "warning: claude-code:")
}

func TestRenderRun_YAML(t *testing.T) {
	result := &engine.RunResult{
		RunID:      "run-2",
		Configured: []engine.WriteResult{{Action: engine.ActionUpdated, ToolID: "vscode"}},
	}
	var buf bytes.Buffer
	require.NoError(t, RenderRun(&buf, OutputYAML, result))
	assert.Contains(t, buf.String(), "runId: run-2")
	assert.Contains(t, buf.String(), "action: updated")
}

func TestRenderDiffs(t *testing.T) {
	result := &engine.RunResult{
		Skipped: []engine.WriteResult{
			{ToolID: "claude-code", ConfigPath: "/work/.mcp.json", Diff: "+added line"},
			{ToolID: "cursor", Reason: "declined"},
		},
	}
	var buf bytes.Buffer
	RenderDiffs(&buf, result)
	assert.Contains(t, buf.String(), "--- claude-code (/work/.mcp.json)")
	assert.Contains(t, buf.String(), "+added line")
	assert.NotContains(t, buf.String(), "cursor")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false}, // EOF declines
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := Confirm(strings.NewReader(tt.input), &out, "Write changes?")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Contains(t, out.String(), "Write changes? [y/N]:")
	}
}

func TestFormatError_FatalCarriesCodeAndHint(t *testing.T) {
	err := &engine.FatalError{
		Code:       engine.CodeManifestVersionUnsupported,
		Suggestion: "this build understands manifest version 1",
		Err:        errors.New("unsupported manifest version 99"),
	}
	msg := FormatError(err)
	assert.Contains(t, msg, "MANIFEST_VERSION_UNSUPPORTED")
	assert.Contains(t, msg, "hint: this build understands manifest version 1")
}

func TestFormatError_Plain(t *testing.T) {
	assert.Equal(t, "boom", FormatError(errors.New("boom")))
}
