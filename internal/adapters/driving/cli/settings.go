package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docfind/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure index, search, ranking and suggestion settings.

Run without arguments to show current settings. Use 'settings set' to
change a value and 'settings get' to read a single one.`,
	Args: cobra.NoArgs,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a single setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change a setting by key.

Available keys:
  index.batch_size           documents per index batch
  search.default_limit       results per page when no limit is given
  search.max_limit           hard cap on results per page
  search.default_sort        relevance, date, modified, created, size or title
  search.snippet_length      snippet size in characters
  ranking.preferred_formats  comma-separated formats boosted during ranking
  ranking.recency_boost      true or false
  suggest.max_suggestions    completions returned per request
  suggest.record_queries     true or false`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Index]")
	cmd.Printf("  Batch size: %d\n", settings.Index.BatchSize)
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Default limit: %d\n", settings.Search.DefaultLimit)
	cmd.Printf("  Max limit: %d\n", settings.Search.MaxLimit)
	cmd.Printf("  Default sort: %s (%s)\n", settings.Search.DefaultSort, settings.Search.DefaultSort.Description())
	cmd.Printf("  Snippet length: %d\n", settings.Search.SnippetLength)
	cmd.Println()

	cmd.Println("[Ranking]")
	if len(settings.Ranking.PreferredFormats) > 0 {
		cmd.Printf("  Preferred formats: %s\n", strings.Join(settings.Ranking.PreferredFormats, ", "))
	} else {
		cmd.Printf("  Preferred formats: (none)\n")
	}
	cmd.Printf("  Recency boost: %s\n", yesNo(settings.Ranking.RecencyBoost))
	cmd.Println()

	cmd.Println("[Suggest]")
	cmd.Printf("  Max suggestions: %d\n", settings.Suggest.MaxSuggestions)
	cmd.Printf("  Record queries: %s\n", yesNo(settings.Suggest.RecordQueries))

	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	value, ok := settingValue(settings, args[0])
	if !ok {
		return fmt.Errorf("unknown setting: %s", args[0])
	}

	cmd.Println(value)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]

	switch key {
	case "search.default_sort":
		order := domain.SortOrder(strings.ToLower(value))
		if err := settingsService.SetDefaultSort(order); err != nil {
			return fmt.Errorf("failed to set default sort: %w", err)
		}
	case "search.default_limit":
		limit, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %s", key, value)
		}
		if err := settingsService.SetDefaultLimit(limit); err != nil {
			return fmt.Errorf("failed to set default limit: %w", err)
		}
	case "ranking.preferred_formats":
		if err := settingsService.SetPreferredFormats(strings.Split(value, ",")); err != nil {
			return fmt.Errorf("failed to set preferred formats: %w", err)
		}
	default:
		if err := updateSetting(key, value); err != nil {
			return err
		}
	}

	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

// updateSetting handles keys without a dedicated service method by
// mutating the full settings snapshot and saving it back.
func updateSetting(key, value string) error {
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	switch key {
	case "index.batch_size":
		n, err := parsePositiveInt(key, value)
		if err != nil {
			return err
		}
		settings.Index.BatchSize = n
	case "search.max_limit":
		n, err := parsePositiveInt(key, value)
		if err != nil {
			return err
		}
		settings.Search.MaxLimit = n
	case "search.snippet_length":
		n, err := parsePositiveInt(key, value)
		if err != nil {
			return err
		}
		settings.Search.SnippetLength = n
	case "ranking.recency_boost":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %s (use true or false)", key, value)
		}
		settings.Ranking.RecencyBoost = b
	case "suggest.max_suggestions":
		n, err := parsePositiveInt(key, value)
		if err != nil {
			return err
		}
		settings.Suggest.MaxSuggestions = n
	case "suggest.record_queries":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %s (use true or false)", key, value)
		}
		settings.Suggest.RecordQueries = b
	default:
		return fmt.Errorf("unknown setting: %s", key)
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	return nil
}

// Helper functions.

func settingValue(settings *domain.AppSettings, key string) (string, bool) {
	switch key {
	case "index.batch_size":
		return strconv.Itoa(settings.Index.BatchSize), true
	case "search.default_limit":
		return strconv.Itoa(settings.Search.DefaultLimit), true
	case "search.max_limit":
		return strconv.Itoa(settings.Search.MaxLimit), true
	case "search.default_sort":
		return settings.Search.DefaultSort.String(), true
	case "search.snippet_length":
		return strconv.Itoa(settings.Search.SnippetLength), true
	case "ranking.preferred_formats":
		return strings.Join(settings.Ranking.PreferredFormats, ","), true
	case "ranking.recency_boost":
		return strconv.FormatBool(settings.Ranking.RecencyBoost), true
	case "suggest.max_suggestions":
		return strconv.Itoa(settings.Suggest.MaxSuggestions), true
	case "suggest.record_queries":
		return strconv.FormatBool(settings.Suggest.RecordQueries), true
	}
	return "", false
}

func parsePositiveInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid value for %s: %s (expected a positive integer)", key, value)
	}
	return n, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
