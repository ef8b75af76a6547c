package cmd

import (
	"github.com/spf13/cobra"

	"enlist/internal/cli"
)

var statusManifestPath string

// statusCmd reports, per detected tool, whether the manifest's entry is
// currently registered.
var statusCmd = &cobra.Command{
	Use:   "status [manifest]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Show which detected tools have the manifest's entry registered",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	path := statusManifestPath
	if len(args) == 1 {
		path = args[0]
	}
	m, _, err := loadManifest(path)
	if err != nil {
		return err
	}
	e, _, err := buildEngine()
	if err != nil {
		return err
	}
	tools, err := e.Status(cmd.Context(), m)
	if err != nil {
		return err
	}
	return cli.RenderDetected(cmd.OutOrStdout(), format, tools)
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVarP(&statusManifestPath, "manifest", "m", "", "path to the manifest (default: enlist.yaml in the working directory)")
}
