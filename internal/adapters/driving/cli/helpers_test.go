package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/docfind/internal/core/domain"
)

// mockSearchService implements driving.SearchService with canned data.
type mockSearchService struct {
	results     *domain.SearchResults
	suggestions []domain.Suggestion
	related     []string
	popular     []domain.Suggestion
	stats       *domain.IndexStats
	history     []domain.QueryRecord

	lastQuery      string
	lastOpts       domain.SearchOptions
	lastSimilarID  string
	clearedHistory bool
}

func newMockSearchService() *mockSearchService {
	return &mockSearchService{
		results: &domain.SearchResults{
			Query: "test query",
			Hits: []domain.Hit{
				{
					DocumentID: "doc-1",
					Title:      "Test Document",
					Path:       "docs/test.md",
					Format:     "markdown",
					Score:      0.95,
					Snippet:    "A snippet of the matched content",
				},
			},
			Total:    1,
			Duration: 3 * time.Millisecond,
		},
		suggestions: []domain.Suggestion{
			{Text: "kubernetes deployment", Source: "full_query", Frequency: 12},
		},
		stats: &domain.IndexStats{
			DocumentCount:   42,
			SizeBytes:       2048,
			Fields:          []string{"title", "content", "tags"},
			LastModified:    time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
			SuggestionCount: 7,
		},
		history: []domain.QueryRecord{
			{
				ID:          "q-1",
				Query:       "kubernetes",
				ResultCount: 3,
				Duration:    2 * time.Millisecond,
				ExecutedAt:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
			},
		},
	}
}

func (m *mockSearchService) Search(
	_ context.Context,
	query string,
	opts domain.SearchOptions,
) (*domain.SearchResults, error) {
	m.lastQuery = query
	m.lastOpts = opts
	if m.results == nil {
		return &domain.SearchResults{Query: query}, nil
	}
	return m.results, nil
}

func (m *mockSearchService) SearchSimilar(
	_ context.Context,
	documentID string,
	_ int,
) (*domain.SearchResults, error) {
	m.lastSimilarID = documentID
	if m.results == nil {
		return &domain.SearchResults{Query: "similar:" + documentID}, nil
	}
	return m.results, nil
}

func (m *mockSearchService) Suggest(_ context.Context, _ string, _ int) ([]domain.Suggestion, error) {
	return m.suggestions, nil
}

func (m *mockSearchService) RelatedTerms(_ context.Context, _ string, _ int) ([]string, error) {
	return m.related, nil
}

func (m *mockSearchService) PopularSearches(_ context.Context, _ int) ([]domain.Suggestion, error) {
	return m.popular, nil
}

func (m *mockSearchService) Stats(_ context.Context) (*domain.IndexStats, error) {
	return m.stats, nil
}

func (m *mockSearchService) History(_ context.Context, _ int) ([]domain.QueryRecord, error) {
	return m.history, nil
}

func (m *mockSearchService) ClearHistory(_ context.Context) error {
	m.clearedHistory = true
	return nil
}

// mockSearchServiceError fails every operation.
type mockSearchServiceError struct{}

func (m *mockSearchServiceError) Search(
	_ context.Context,
	_ string,
	_ domain.SearchOptions,
) (*domain.SearchResults, error) {
	return nil, errors.New("index unavailable")
}

func (m *mockSearchServiceError) SearchSimilar(
	_ context.Context,
	_ string,
	_ int,
) (*domain.SearchResults, error) {
	return nil, errors.New("index unavailable")
}

func (m *mockSearchServiceError) Suggest(_ context.Context, _ string, _ int) ([]domain.Suggestion, error) {
	return nil, errors.New("catalog unavailable")
}

func (m *mockSearchServiceError) RelatedTerms(_ context.Context, _ string, _ int) ([]string, error) {
	return nil, errors.New("catalog unavailable")
}

func (m *mockSearchServiceError) PopularSearches(_ context.Context, _ int) ([]domain.Suggestion, error) {
	return nil, errors.New("catalog unavailable")
}

func (m *mockSearchServiceError) Stats(_ context.Context) (*domain.IndexStats, error) {
	return nil, errors.New("index unavailable")
}

func (m *mockSearchServiceError) History(_ context.Context, _ int) ([]domain.QueryRecord, error) {
	return nil, errors.New("history unavailable")
}

func (m *mockSearchServiceError) ClearHistory(_ context.Context) error {
	return errors.New("history unavailable")
}

// mockIndexerService records what was indexed and deleted.
type mockIndexerService struct {
	docs      []domain.IndexedDocument
	deleted   []string
	notFound  map[string]bool
	cleared   bool
	optimized bool
	err       error
}

func (m *mockIndexerService) IndexDocument(_ context.Context, doc domain.IndexedDocument) error {
	if m.err != nil {
		return m.err
	}
	m.docs = append(m.docs, doc)
	return nil
}

func (m *mockIndexerService) IndexDocuments(_ context.Context, docs []domain.IndexedDocument) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.docs = append(m.docs, docs...)
	return len(docs), nil
}

func (m *mockIndexerService) DeleteDocument(_ context.Context, id string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.deleted = append(m.deleted, id)
	return !m.notFound[id], nil
}

func (m *mockIndexerService) ClearIndex(_ context.Context) error {
	if m.err != nil {
		return m.err
	}
	m.cleared = true
	return nil
}

func (m *mockIndexerService) Optimize(_ context.Context) error {
	if m.err != nil {
		return m.err
	}
	m.optimized = true
	return nil
}

// mockSettingsService serves an in-memory settings snapshot.
type mockSettingsService struct {
	settings   domain.AppSettings
	saved      *domain.AppSettings
	sortSet    domain.SortOrder
	limitSet   int
	formatsSet []string
	err        error
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings()}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	snapshot := m.settings
	return &snapshot, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	if m.err != nil {
		return m.err
	}
	m.saved = settings
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetDefaultSort(order domain.SortOrder) error {
	if m.err != nil {
		return m.err
	}
	if !order.IsValid() {
		return fmt.Errorf("invalid sort order: %s", order)
	}
	m.sortSet = order
	m.settings.Search.DefaultSort = order
	return nil
}

func (m *mockSettingsService) SetDefaultLimit(limit int) error {
	if m.err != nil {
		return m.err
	}
	m.limitSet = limit
	m.settings.Search.DefaultLimit = limit
	return nil
}

func (m *mockSettingsService) SetPreferredFormats(formats []string) error {
	if m.err != nil {
		return m.err
	}
	m.formatsSet = formats
	m.settings.Ranking.PreferredFormats = formats
	return nil
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// setupTestServices installs mocks for every service and returns a
// restore function.
func setupTestServices() func() {
	oldSearch := searchService
	oldIndexer := indexerService
	oldSettings := settingsService

	searchService = newMockSearchService()
	indexerService = &mockIndexerService{}
	settingsService = newMockSettingsService()

	return func() {
		searchService = oldSearch
		indexerService = oldIndexer
		settingsService = oldSettings
	}
}
