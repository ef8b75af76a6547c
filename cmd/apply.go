package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"enlist/internal/adapter"
	"enlist/internal/cli"
	"enlist/internal/detect"
	"enlist/internal/engine"
	"enlist/internal/manifest"
	"enlist/pkg/logging"
)

var (
	applyManifestPath string
	applyTools        []string
	applyTransport    string
	applyScope        string
	applyDryRun       bool
	applyForce        bool
	applyYes          bool
	applyEnv          map[string]string
	applyWatch        bool
)

// applyCmd registers the manifest's entry in every targeted tool.
var applyCmd = &cobra.Command{
	Use:   "apply [manifest]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Register the manifest's server in every detected tool",
	Long: `Reads the manifest, detects installed tools and merges the server entry
into each tool's configuration document. Existing unrelated entries, comments
and formatting are preserved. Every write goes through a backup-write-validate
cycle, so a crash or full disk never leaves a corrupt file behind.

With --watch, apply re-runs whenever the manifest file changes.`,
	RunE: runApply,
}

func runApply(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	opts, err := applyOptions()
	if err != nil {
		return err
	}
	path := applyManifestPath
	if len(args) == 1 {
		path = args[0]
	}
	m, manifestPath, err := loadManifest(path)
	if err != nil {
		return err
	}
	e, settings, err := buildEngine()
	if err != nil {
		return err
	}

	if !applyYes && !applyDryRun && !settings.NonInteractive {
		opts.Confirm = confirmFunc(cmd)
	}

	if applyWatch {
		return watchAndApply(cmd, e, manifestPath, opts, format)
	}
	return applyOnce(cmd, e, m, opts, format)
}

func applyOnce(cmd *cobra.Command, e *engine.Engine, m *manifest.Manifest, opts engine.Options, format cli.OutputFormat) error {
	spin := startSpinner(opts)
	result, err := e.Apply(cmd.Context(), m, opts)
	stopSpinner(spin)
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

// watchAndApply re-runs apply whenever the manifest file changes, until
// interrupted. Editors replace files atomically, so the watch covers the
// manifest's directory and filters events by path.
func watchAndApply(cmd *cobra.Command, e *engine.Engine, manifestPath string, opts engine.Options, format cli.OutputFormat) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	manifestPath, err = filepath.Abs(manifestPath)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(manifestPath)); err != nil {
		return err
	}

	runOnce := func() {
		m, _, err := loadManifest(manifestPath)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatError(err))
			return
		}
		if err := applyOnce(cmd, e, m, opts, format); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatError(err))
		}
	}

	runOnce()
	logging.Info("Watch", "Watching %s for changes", manifestPath)

	// Editors fire several events per save; a short debounce collapses
	// them into one run.
	var debounce *time.Timer
	debounced := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-debounced:
			runOnce()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != manifestPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(300*time.Millisecond, func() {
				select {
				case debounced <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn("Watch", "Watcher error: %v", err)
		}
	}
}

func applyOptions() (engine.Options, error) {
	opts := engine.Options{
		Tools:  applyTools,
		DryRun: applyDryRun,
		Force:  applyForce,
		Env:    applyEnv,
	}
	switch applyTransport {
	case "":
	case string(manifest.TransportStdio), string(manifest.TransportHTTP):
		opts.Transport = manifest.Transport(applyTransport)
	default:
		return engine.Options{}, fmt.Errorf("unsupported transport %q (supported: stdio, http)", applyTransport)
	}
	switch applyScope {
	case "":
	case string(adapter.ScopeWorkspace), string(adapter.ScopeGlobal):
		opts.Scope = adapter.Scope(applyScope)
	default:
		return engine.Options{}, fmt.Errorf("unsupported scope %q (supported: workspace, global)", applyScope)
	}
	return opts, nil
}

// confirmFunc shows the pending diff and asks before each write.
func confirmFunc(cmd *cobra.Command) engine.ConfirmFunc {
	return func(tool detect.DetectedTool, diff string) (bool, error) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "\n%s (%s):\n%s\n", tool.ID, tool.ConfigPath, diff)
		return cli.Confirm(cmd.InOrStdin(), out, "Write these changes?")
	}
}

// startSpinner shows progress while detection and writes run, but only when
// no confirmation prompt will need the terminal.
func startSpinner(opts engine.Options) *spinner.Spinner {
	if rootQuiet || rootDebug || opts.Confirm != nil || rootOutputFormat != string(cli.OutputTable) {
		return nil
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " detecting tools..."
	s.Start()
	return s
}

func stopSpinner(s *spinner.Spinner) {
	if s != nil {
		s.Stop()
	}
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().StringVarP(&applyManifestPath, "manifest", "m", "", "path to the manifest (default: enlist.yaml in the working directory)")
	applyCmd.Flags().StringSliceVar(&applyTools, "tool", nil, "restrict the run to specific tools (repeatable)")
	applyCmd.Flags().StringVar(&applyTransport, "transport", "", "force a transport (stdio, http) instead of per-tool resolution")
	applyCmd.Flags().StringVar(&applyScope, "scope", "", "override the configuration scope (workspace, global)")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "show what would change without writing")
	applyCmd.Flags().BoolVar(&applyForce, "force", false, "also configure tools detected with low confidence")
	applyCmd.Flags().BoolVarP(&applyYes, "yes", "y", false, "write without asking for confirmation")
	applyCmd.Flags().StringToStringVar(&applyEnv, "env", nil, "environment variable value overrides (KEY=VALUE, repeatable)")
	applyCmd.Flags().BoolVar(&applyWatch, "watch", false, "re-apply whenever the manifest file changes")
}
