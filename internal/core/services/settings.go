package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/docfind/internal/core/domain"
	"github.com/custodia-labs/docfind/internal/core/ports/driven"
	"github.com/custodia-labs/docfind/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyIndexBatchSize      = "index.batch_size"
	keySearchDefaultLimit  = "search.default_limit"
	keySearchMaxLimit      = "search.max_limit"
	keySearchDefaultSort   = "search.default_sort"
	keySearchSnippetLength = "search.snippet_length"
	keyRankingFormats      = "ranking.preferred_formats"
	keyRankingRecency      = "ranking.recency_boost"
	keySuggestMax          = "suggest.max_suggestions"
	keySuggestRecord       = "suggest.record_queries"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Index: domain.IndexSettings{
			BatchSize: s.getInt(keyIndexBatchSize, defaults.Index.BatchSize),
		},
		Search: domain.SearchSettings{
			DefaultLimit:  s.getInt(keySearchDefaultLimit, defaults.Search.DefaultLimit),
			MaxLimit:      s.getInt(keySearchMaxLimit, defaults.Search.MaxLimit),
			DefaultSort:   s.getSortOrder(keySearchDefaultSort, defaults.Search.DefaultSort),
			SnippetLength: s.getInt(keySearchSnippetLength, defaults.Search.SnippetLength),
		},
		Ranking: domain.RankingSettings{
			PreferredFormats: s.getStringSlice(keyRankingFormats, defaults.Ranking.PreferredFormats),
			RecencyBoost:     s.getBool(keyRankingRecency, defaults.Ranking.RecencyBoost),
		},
		Suggest: domain.SuggestSettings{
			MaxSuggestions: s.getInt(keySuggestMax, defaults.Suggest.MaxSuggestions),
			RecordQueries:  s.getBool(keySuggestRecord, defaults.Suggest.RecordQueries),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if !settings.Search.DefaultSort.IsValid() {
		return fmt.Errorf("invalid sort order: %s", settings.Search.DefaultSort)
	}

	if err := s.configStore.Set(keyIndexBatchSize, settings.Index.BatchSize); err != nil {
		return fmt.Errorf("save batch size: %w", err)
	}

	if err := s.configStore.Set(keySearchDefaultLimit, settings.Search.DefaultLimit); err != nil {
		return fmt.Errorf("save default limit: %w", err)
	}
	if err := s.configStore.Set(keySearchMaxLimit, settings.Search.MaxLimit); err != nil {
		return fmt.Errorf("save max limit: %w", err)
	}
	if err := s.configStore.Set(keySearchDefaultSort, settings.Search.DefaultSort.String()); err != nil {
		return fmt.Errorf("save default sort: %w", err)
	}
	if err := s.configStore.Set(keySearchSnippetLength, settings.Search.SnippetLength); err != nil {
		return fmt.Errorf("save snippet length: %w", err)
	}

	if err := s.configStore.Set(keyRankingFormats, settings.Ranking.PreferredFormats); err != nil {
		return fmt.Errorf("save preferred formats: %w", err)
	}
	if err := s.configStore.Set(keyRankingRecency, settings.Ranking.RecencyBoost); err != nil {
		return fmt.Errorf("save recency boost: %w", err)
	}

	if err := s.configStore.Set(keySuggestMax, settings.Suggest.MaxSuggestions); err != nil {
		return fmt.Errorf("save max suggestions: %w", err)
	}
	if err := s.configStore.Set(keySuggestRecord, settings.Suggest.RecordQueries); err != nil {
		return fmt.Errorf("save record queries: %w", err)
	}

	return nil
}

// SetDefaultSort updates the default result ordering.
func (s *SettingsService) SetDefaultSort(order domain.SortOrder) error {
	if !order.IsValid() {
		return fmt.Errorf("invalid sort order: %s", order)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Search.DefaultSort = order
	return s.Save(settings)
}

// SetDefaultLimit updates the default result window size.
func (s *SettingsService) SetDefaultLimit(limit int) error {
	if limit < 1 {
		return fmt.Errorf("default limit must be at least 1, got %d", limit)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	if limit > settings.Search.MaxLimit {
		return fmt.Errorf("default limit %d exceeds maximum %d", limit, settings.Search.MaxLimit)
	}

	settings.Search.DefaultLimit = limit
	return s.Save(settings)
}

// SetPreferredFormats updates the formats boosted during ranking.
func (s *SettingsService) SetPreferredFormats(formats []string) error {
	cleaned := make([]string, 0, len(formats))
	for _, format := range formats {
		format = strings.ToLower(strings.TrimSpace(format))
		if format == "" {
			continue
		}
		cleaned = append(cleaned, format)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Ranking.PreferredFormats = cleaned
	return s.Save(settings)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	val := s.configStore.GetStringSlice(key)
	if len(val) == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getSortOrder(key string, defaultVal domain.SortOrder) domain.SortOrder {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	order := domain.SortOrder(val)
	if !order.IsValid() {
		return defaultVal
	}
	return order
}
