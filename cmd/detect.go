package cmd

import (
	"github.com/spf13/cobra"

	"enlist/internal/cli"
)

// detectCmd probes the machine for supported tools without touching any
// configuration file.
var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "List the supported developer tools found on this machine",
	Long: `Probes for each supported tool (binary on the search path, install
directory, workspace marker) and reports where it keeps its configuration.
Tools with no trace at all are omitted. Detection never writes anything.`,
	RunE: runDetect,
}

func runDetect(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	e, _, err := buildEngine()
	if err != nil {
		return err
	}
	tools, err := e.Detect(cmd.Context(), "")
	if err != nil {
		return err
	}
	return cli.RenderDetected(cmd.OutOrStdout(), format, tools)
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
