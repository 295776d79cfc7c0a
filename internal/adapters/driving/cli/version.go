package cli

import (
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("docfind version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
