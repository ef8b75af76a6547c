package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"enlist/internal/manifest"
)

var (
	initName  string
	initForce bool
)

// initCmd generates a starter manifest by inspecting the project in the
// working directory (package.json, go.mod, pyproject.toml).
var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Generate a starter manifest for the project in a directory",
	Long: `Inspects the project in the given directory (default: the working
directory) and writes an enlist.yaml describing it as a stdio MCP server.
The generated manifest is a starting point; adjust the command, transports
and environment variables before applying it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	target := filepath.Join(dir, manifest.DefaultFileName)
	if _, err := os.Stat(target); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", target)
	}

	m, err := manifest.Generate(dir)
	if err != nil {
		return err
	}
	if initName != "" {
		m.Name = initName
	}
	if err := m.Validate(); err != nil {
		return err
	}
	if err := manifest.Save(m, target); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (server %q)\n", target, m.Name)
	return nil
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initName, "name", "", "override the generated server name")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing manifest")
}
