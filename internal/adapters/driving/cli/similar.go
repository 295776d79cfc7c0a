package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	similarLimit int
	similarJSON  bool
)

var similarCmd = &cobra.Command{
	Use:   "similar [document-id]",
	Short: "Find documents similar to one already indexed",
	Long: `Runs the reference document's strongest terms against the index and
returns the closest matches. The reference document itself is excluded.`,
	Args: cobra.ExactArgs(1),
	RunE: runSimilar,
}

func init() {
	similarCmd.Flags().IntVarP(&similarLimit, "limit", "n", 0, "maximum number of results (0 = configured default)")
	similarCmd.Flags().BoolVar(&similarJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(similarCmd)
}

func runSimilar(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	results, err := searchService.SearchSimilar(cmd.Context(), args[0], similarLimit)
	if err != nil {
		return fmt.Errorf("similar search failed: %w", err)
	}

	if similarJSON {
		return outputResultsJSON(cmd, results)
	}

	if len(results.Hits) == 0 {
		cmd.Println("No similar documents found.")
		return nil
	}
	return outputResultsTable(cmd, results, 0)
}
