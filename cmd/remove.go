package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"enlist/internal/adapter"
	"enlist/internal/cli"
	"enlist/internal/engine"
)

var (
	removeManifestPath string
	removeTools        []string
	removeScope        string
	removeDryRun       bool
	removeForce        bool
	removeYes          bool
)

// removeCmd deletes the manifest's entry from every targeted tool.
var removeCmd = &cobra.Command{
	Use:   "remove [manifest]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Remove the manifest's server from every detected tool",
	Long: `Deletes the server entry from each tool's configuration document,
leaving everything else untouched. When the entry was the only content of a
file this run created, the file itself is deleted. Tools without the entry
are reported and skipped.`,
	RunE: runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	opts := engine.Options{
		Tools:  removeTools,
		DryRun: removeDryRun,
		Force:  removeForce,
	}
	switch removeScope {
	case "":
	case string(adapter.ScopeWorkspace), string(adapter.ScopeGlobal):
		opts.Scope = adapter.Scope(removeScope)
	default:
		return fmt.Errorf("unsupported scope %q (supported: workspace, global)", removeScope)
	}

	path := removeManifestPath
	if len(args) == 1 {
		path = args[0]
	}
	m, _, err := loadManifest(path)
	if err != nil {
		return err
	}
	e, settings, err := buildEngine()
	if err != nil {
		return err
	}
	if !removeYes && !removeDryRun && !settings.NonInteractive {
		opts.Confirm = confirmFunc(cmd)
	}

	result, err := e.Remove(cmd.Context(), m, opts)
	if err != nil {
		return err
	}
	if opts.DryRun {
		cli.RenderDiffs(cmd.OutOrStdout(), result)
	}
	if err := cli.RenderRun(cmd.OutOrStdout(), format, result); err != nil {
		return err
	}
	if n := result.FailureCount(); n > 0 {
		return &partialFailureError{failures: n}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(removeCmd)
	removeCmd.Flags().StringVarP(&removeManifestPath, "manifest", "m", "", "path to the manifest (default: enlist.yaml in the working directory)")
	removeCmd.Flags().StringSliceVar(&removeTools, "tool", nil, "restrict the run to specific tools (repeatable)")
	removeCmd.Flags().StringVar(&removeScope, "scope", "", "override the configuration scope (workspace, global)")
	removeCmd.Flags().BoolVar(&removeDryRun, "dry-run", false, "show what would change without writing")
	removeCmd.Flags().BoolVar(&removeForce, "force", false, "also touch tools detected with low confidence")
	removeCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "write without asking for confirmation")
}
