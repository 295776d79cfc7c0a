package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docfind/internal/core/domain"
)

var (
	searchLimit    int
	searchOffset   int
	searchSort     string
	searchJSON     bool
	searchFacets   bool
	searchAdvanced bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Searches all indexed documents with BM25 relevance ranking.

Queries support field filters (format:markdown, tag:api), ranges
(size:>1000, modified:2024-01..2024-06), quoted phrases, wildcards,
fuzzy terms (term~) and boolean operators (AND, OR, NOT).

An empty query combined with filters lists documents by field value.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 = configured default)")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "number of ranked results to skip")
	searchCmd.Flags().StringVar(&searchSort, "sort", "", "sort order: relevance, modified, created, size or title (prefix with - to reverse)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchFacets, "facets", false, "include facet counts")
	searchCmd.Flags().BoolVar(&searchAdvanced, "advanced", false, "force the field-aware query parser")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	opts := domain.SearchOptions{
		Limit:     searchLimit,
		Offset:    searchOffset,
		SortBy:    searchSort,
		Facets:    searchFacets,
		Highlight: !searchJSON,
		Advanced:  searchAdvanced,
	}

	results, err := searchService.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputResultsJSON(cmd, results)
	}
	return outputResultsTable(cmd, results, searchOffset)
}

func outputResultsJSON(cmd *cobra.Command, results *domain.SearchResults) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputResultsTable(cmd *cobra.Command, results *domain.SearchResults, offset int) error {
	if len(results.Hits) == 0 {
		cmd.Println("No results found.")
		outputQueryHints(cmd, results.Suggestions)
		return nil
	}

	cmd.Printf("Results: %d matched in %s\n", results.Total, formatDuration(results.Duration))
	cmd.Println()

	width := terminalWidth()
	for i := range results.Hits {
		hit := &results.Hits[i]

		title := hit.Title
		if title == "" {
			title = hit.DocumentID
		}

		snippet := hit.Snippet
		if len(hit.Highlights) > 0 {
			snippet = hit.Highlights[0]
		}

		cmd.Printf("  [%d] %s (%.2f)\n", offset+i+1, title, hit.Score)
		if hit.Path != "" {
			cmd.Printf("      %s\n", hit.Path)
		}
		if snippet != "" {
			cmd.Printf("      %s\n", truncate(snippet, width-6))
		}
		cmd.Println()
	}

	outputFacets(cmd, results.Facets)
	outputQueryHints(cmd, results.Suggestions)
	return nil
}

func outputFacets(cmd *cobra.Command, facets map[string]map[string]int) {
	if len(facets) == 0 {
		return
	}

	cmd.Println("Facets:")
	for _, field := range sortedKeys(facets) {
		cmd.Printf("  %s:\n", field)
		for _, value := range sortedKeys(facets[field]) {
			cmd.Printf("    %-20s %d\n", value, facets[field][value])
		}
	}
	cmd.Println()
}

func outputQueryHints(cmd *cobra.Command, hints []string) {
	if len(hints) == 0 {
		return
	}

	cmd.Println()
	cmd.Println("Try:")
	for _, hint := range hints {
		cmd.Printf("  %s\n", hint)
	}
}

// Output helpers.

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return d.Round(time.Microsecond).String()
	}
	return d.Round(time.Millisecond).String()
}

// terminalWidth returns the stdout width, or a conservative default
// when stdout is not a terminal.
func terminalWidth() int {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 20 {
			return width
		}
	}
	return 100
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
