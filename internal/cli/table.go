package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"enlist/internal/detect"
	"enlist/internal/engine"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// RenderDetected prints the detection report. In table mode undetected tools
// are simply absent; structured modes receive the slice as-is.
func RenderDetected(w io.Writer, format OutputFormat, tools []detect.DetectedTool) error {
	if format != OutputTable {
		return renderStructured(w, format, tools)
	}
	if len(tools) == 0 {
		_, err := fmt.Fprintln(w, "No supported tools detected on this machine.")
		return err
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"TOOL", "CONFIDENCE", "SCOPE", "CONFIG PATH", "CONFIG", "ENTRY"})
	for _, tool := range tools {
		t.AppendRow(table.Row{
			tool.ID,
			tool.Confidence,
			tool.Scope,
			tool.ConfigPath,
			yesNo(tool.ConfigExists),
			yesNo(tool.EntryExists),
		})
	}
	t.Render()
	return nil
}

// RenderRun prints the outcome of an apply or remove run: one row per tool,
// followed by any warnings.
func RenderRun(w io.Writer, format OutputFormat, result *engine.RunResult) error {
	if format != OutputTable {
		return renderStructured(w, format, result)
	}
	if len(result.Configured) == 0 && len(result.Skipped) == 0 {
		_, err := fmt.Fprintln(w, "Nothing to do: no detected tool is targeted by the manifest.")
		return err
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"TOOL", "ACTION", "CONFIG PATH", "DETAIL"})
	for _, r := range result.Configured {
		t.AppendRow(table.Row{r.ToolID, r.Action, r.ConfigPath, r.Warning})
	}
	for _, r := range result.Skipped {
		detail := r.Reason
		if r.Code != "" {
			detail = fmt.Sprintf("%s: %s", r.Code, r.Reason)
		}
		t.AppendRow(table.Row{r.ToolID, r.Action, r.ConfigPath, detail})
	}
	t.Render()

	for _, r := range result.Skipped {
		if r.Suggestion != "" {
			fmt.Fprintf(w, "hint (%s): %s\n", r.ToolID, r.Suggestion)
		}
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	return nil
}

// RenderDiffs prints the dry-run previews collected in a result.
func RenderDiffs(w io.Writer, result *engine.RunResult) {
	for _, r := range result.Skipped {
		if r.Diff == "" {
			continue
		}
		fmt.Fprintf(w, "--- %s (%s)\n%s\n", r.ToolID, r.ConfigPath, r.Diff)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
