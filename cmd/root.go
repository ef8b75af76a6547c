package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"enlist/internal/cli"
	"enlist/internal/config"
	"enlist/internal/engine"
	"enlist/pkg/logging"
)

// Exit codes, kept stable for scripting and CI pipelines.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeManifestError indicates the manifest is missing or invalid;
	// nothing was touched.
	ExitCodeManifestError = 2
	// ExitCodePartialFailure indicates at least one tool's configuration
	// could not be read or written while others succeeded.
	ExitCodePartialFailure = 3
)

var (
	rootConfigPath   string
	rootDebug        bool
	rootQuiet        bool
	rootOutputFormat string
)

// rootCmd is the entry point when the application is called without any
// subcommands.
var rootCmd = &cobra.Command{
	Use:   "enlist",
	Short: "Register an MCP command server with installed developer tools",
	Long: `enlist reads a declarative manifest describing an MCP command server and
registers it in the configuration files of the developer tools installed on
this machine (Claude Code, Claude Desktop, Cursor, VS Code, Windsurf).

Runs are idempotent: applying the same manifest twice leaves every file
byte-identical, and removing an entry restores each document to its previous
content.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// the application already reports.
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging()
	},
}

// partialFailureError signals that a run completed but some tools failed.
type partialFailureError struct {
	failures int
}

func (e *partialFailureError) Error() string {
	return fmt.Sprintf("%d tool(s) could not be configured", e.failures)
}

// SetVersion sets the version for the root command. Called from the main
// package to inject the build version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute runs the root command and exits with a semantic exit code.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "enlist version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(getExitCode(err))
	}
}

// getExitCode maps error types to exit codes for scripting and automation.
func getExitCode(err error) int {
	var fatal *engine.FatalError
	if errors.As(err, &fatal) {
		return ExitCodeManifestError
	}

	var partial *partialFailureError
	if errors.As(err, &partial) {
		return ExitCodePartialFailure
	}

	return ExitCodeError
}

// initLogging configures the process logger from the settings file and the
// --debug/--quiet flags. Flags win over settings.
func initLogging() error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	level := logging.ParseLevel(settings.LogLevel)
	if rootDebug {
		level = logging.LevelDebug
	}
	if rootQuiet {
		level = logging.LevelError
	}
	logging.InitForCLI(level, os.Stderr)
	return nil
}

// loadSettings reads the settings file from --config-path or the default
// location.
func loadSettings() (config.Settings, error) {
	path := rootConfigPath
	if path == "" {
		path = config.GetDefaultConfigPathOrPanic()
	}
	return config.LoadSettings(path)
}

func outputFormat() (cli.OutputFormat, error) {
	return cli.ParseOutputFormat(rootOutputFormat)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config-path", "", "settings directory (default is $HOME/.config/enlist)")
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&rootQuiet, "quiet", false, "only log errors")
	rootCmd.PersistentFlags().StringVarP(&rootOutputFormat, "output", "o", "table", "output format (table, json, yaml)")
}
