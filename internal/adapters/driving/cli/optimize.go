package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Compact the index for faster reads",
	Long: `Merges index segments down to a compact form. Searches stay available
while the merge runs; writes wait for it to finish.`,
	Args: cobra.NoArgs,
	RunE: runOptimize,
}

func init() {
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, _ []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	cmd.Println("Optimizing index...")
	if err := indexerService.Optimize(cmd.Context()); err != nil {
		return fmt.Errorf("optimize failed: %w", err)
	}

	cmd.Println("Index optimized.")
	return nil
}
