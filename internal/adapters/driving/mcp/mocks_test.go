package mcp

import (
	"context"

	"github.com/custodia-labs/docfind/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results     *domain.SearchResults
	suggestions []domain.Suggestion
	related     []string
	popular     []domain.Suggestion
	stats       *domain.IndexStats
	history     []domain.QueryRecord
	err         error

	lastQuery   string
	lastOpts    domain.SearchOptions
	lastPartial string
	lastLimit   int
}

func (m *mockSearchService) Search(
	_ context.Context,
	query string,
	opts domain.SearchOptions,
) (*domain.SearchResults, error) {
	m.lastQuery = query
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
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
	if m.err != nil {
		return nil, m.err
	}
	if m.results == nil {
		return &domain.SearchResults{Query: "similar:" + documentID}, nil
	}
	return m.results, nil
}

func (m *mockSearchService) Suggest(_ context.Context, partial string, limit int) ([]domain.Suggestion, error) {
	m.lastPartial = partial
	m.lastLimit = limit
	return m.suggestions, m.err
}

func (m *mockSearchService) RelatedTerms(_ context.Context, _ string, _ int) ([]string, error) {
	return m.related, m.err
}

func (m *mockSearchService) PopularSearches(_ context.Context, _ int) ([]domain.Suggestion, error) {
	return m.popular, m.err
}

func (m *mockSearchService) Stats(_ context.Context) (*domain.IndexStats, error) {
	return m.stats, m.err
}

func (m *mockSearchService) History(_ context.Context, _ int) ([]domain.QueryRecord, error) {
	return m.history, m.err
}

func (m *mockSearchService) ClearHistory(_ context.Context) error {
	return m.err
}
