package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	suggestLimit int
	suggestJSON  bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [partial]",
	Short: "Suggest query completions",
	Long: `Returns completions for a partial query, learned from indexed titles,
tags and past searches. Without an argument the most popular catalog
entries are returned.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().IntVarP(&suggestLimit, "limit", "n", 0, "maximum number of suggestions (0 = configured default)")
	suggestCmd.Flags().BoolVar(&suggestJSON, "json", false, "output suggestions as JSON")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	partial := ""
	if len(args) > 0 {
		partial = args[0]
	}

	suggestions, err := searchService.Suggest(cmd.Context(), partial, suggestLimit)
	if err != nil {
		return fmt.Errorf("suggest failed: %w", err)
	}

	if suggestJSON {
		data, err := json.MarshalIndent(suggestions, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal suggestions: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(suggestions) == 0 {
		cmd.Println("No suggestions.")
		return nil
	}

	for _, s := range suggestions {
		if s.Frequency > 0 {
			cmd.Printf("  %-30s %s (%d)\n", s.Text, s.Source, s.Frequency)
		} else {
			cmd.Printf("  %-30s %s\n", s.Text, s.Source)
		}
	}
	return nil
}
