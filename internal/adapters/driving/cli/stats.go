package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	Long:  `Reports document count, index size on disk, indexed fields and the suggestion catalog size.`,
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	stats, err := searchService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode statistics: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println("[Index]")
	cmd.Printf("  Documents:   %d\n", stats.DocumentCount)
	cmd.Printf("  Size:        %s\n", formatBytes(stats.SizeBytes))
	if len(stats.Fields) > 0 {
		cmd.Printf("  Fields:      %s\n", strings.Join(stats.Fields, ", "))
	}
	if !stats.LastModified.IsZero() {
		cmd.Printf("  Modified:    %s\n", stats.LastModified.Format("2006-01-02 15:04:05"))
	}
	cmd.Println()
	cmd.Println("[Suggestions]")
	cmd.Printf("  Entries:     %d\n", stats.SuggestionCount)

	return nil
}

// Helper functions.

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
