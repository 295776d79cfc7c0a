package services

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/docfind/internal/core/domain"
	"github.com/custodia-labs/docfind/internal/core/ports/driven"
	"github.com/custodia-labs/docfind/internal/logger"
)

// Query templates composed around learned terms.
var queryTemplates = []string{
	"title:{term}",
	"tags:{term}",
	"format:{term}",
	"{term} AND {term2}",
	"{term} OR {term2}",
	`"{term}"`,
}

// Offered when the catalog is empty and the caller asked with no
// partial input.
var defaultSuggestions = []domain.Suggestion{
	{Text: "format:markdown", Source: "default"},
	{Text: "tags:documentation", Source: "default"},
	{Text: "title:README", Source: "default"},
}

var queryTermPattern = regexp.MustCompile(`\w+`)

// Queries longer than this are not stored as full_query entries.
const maxRecordedQueryLength = 100

// How many catalog entries fuzzy matching scans.
const fuzzyCandidateWindow = 1000

// SuggestionEngine serves completions from the suggestion catalog
// and learns from indexed documents and executed searches. All
// catalog writes are best-effort: failures are logged, never
// surfaced, so suggestions can never break indexing or search.
type SuggestionEngine struct {
	store driven.SuggestionStore
	index driven.DocumentIndex
	now   func() time.Time
}

// NewSuggestionEngine creates a suggestion engine. The store may be
// nil, which disables the catalog entirely.
func NewSuggestionEngine(store driven.SuggestionStore, index driven.DocumentIndex) *SuggestionEngine {
	return &SuggestionEngine{
		store: store,
		index: index,
		now:   time.Now,
	}
}

// Enabled reports whether a suggestion catalog is configured.
func (s *SuggestionEngine) Enabled() bool {
	return s.store != nil
}

// GetSuggestions returns completions for a partial query. Empty
// input yields the most popular title entries, or static defaults
// when the catalog is empty.
func (s *SuggestionEngine) GetSuggestions(ctx context.Context, partial string, limit int) ([]domain.Suggestion, error) {
	if s.store == nil {
		logger.Debug("Suggestion catalog disabled")
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	partial = strings.ToLower(strings.TrimSpace(partial))
	if partial == "" {
		return s.popular(ctx, limit)
	}

	var combined []domain.Suggestion
	combined = append(combined, s.termSuggestions(ctx, partial, limit)...)
	combined = append(combined, s.templateSuggestions(ctx, partial)...)
	if strings.Contains(partial, ":") {
		combined = append(combined, s.fieldValueSuggestions(ctx, partial, limit)...)
	}

	return dedupeSuggestions(combined, limit), nil
}

// PopularSearches returns the highest-frequency title entries.
func (s *SuggestionEngine) PopularSearches(ctx context.Context, limit int) ([]domain.Suggestion, error) {
	if s.store == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	return s.popular(ctx, limit)
}

// RelatedTerms finds tags co-occurring with a term, most frequent
// first.
func (s *SuggestionEngine) RelatedTerms(ctx context.Context, term string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 3
	}

	plan := domain.SearchPlan{
		Query: domain.FieldTermQuery{Field: "content", Term: term},
		Size:  10,
	}
	result, err := s.index.Search(ctx, plan)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, hit := range result.Hits {
		for _, tag := range hit.Tags {
			tag = strings.TrimSpace(tag)
			if tag != "" && tag != term {
				counts[tag]++
			}
		}
	}

	related := make([]string, 0, len(counts))
	for tag := range counts {
		related = append(related, tag)
	}
	sort.Slice(related, func(i, j int) bool {
		if counts[related[i]] != counts[related[j]] {
			return counts[related[i]] > counts[related[j]]
		}
		return related[i] < related[j]
	})

	if len(related) > limit {
		related = related[:limit]
	}
	return related, nil
}

// RecordSearch learns from an executed query: each token longer than
// two characters becomes a query_term entry, and short queries are
// kept whole as full_query entries.
func (s *SuggestionEngine) RecordSearch(ctx context.Context, query string) {
	if s.store == nil {
		return
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}

	now := s.now()
	var entries []domain.SuggestionEntry
	for _, token := range queryTermPattern.FindAllString(strings.ToLower(query), -1) {
		if len(token) <= 2 {
			continue
		}
		entries = append(entries, domain.SuggestionEntry{
			Term:      token,
			Display:   token,
			Type:      domain.SuggestionQueryTerm,
			Frequency: 1,
			LastUsed:  now,
		})
	}
	if len(query) < maxRecordedQueryLength {
		entries = append(entries, domain.SuggestionEntry{
			Term:      strings.ToLower(query),
			Display:   query,
			Type:      domain.SuggestionFullQuery,
			Frequency: 1,
			LastUsed:  now,
		})
	}

	if len(entries) == 0 {
		return
	}
	if err := s.store.Record(ctx, entries); err != nil {
		logger.Warn("Failed to record search %q: %v", query, err)
	}
}

// RecordDocument learns title and tag entries from an indexed
// document.
func (s *SuggestionEngine) RecordDocument(ctx context.Context, doc domain.IndexedDocument) {
	if s.store == nil {
		return
	}

	now := s.now()
	var entries []domain.SuggestionEntry
	if title := strings.TrimSpace(doc.Title); title != "" {
		entries = append(entries, domain.SuggestionEntry{
			Term:      strings.ToLower(title),
			Display:   title,
			Type:      domain.SuggestionTitle,
			Frequency: 1,
			LastUsed:  now,
		})
	}
	for _, tag := range doc.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		entries = append(entries, domain.SuggestionEntry{
			Term:      strings.ToLower(tag),
			Display:   tag,
			Type:      domain.SuggestionTag,
			Frequency: 1,
			LastUsed:  now,
		})
	}

	if len(entries) == 0 {
		return
	}
	if err := s.store.Record(ctx, entries); err != nil {
		logger.Warn("Failed to record suggestions for document %s: %v", doc.ID, err)
	}
}

// Count returns the catalog size.
func (s *SuggestionEngine) Count(ctx context.Context) (int, error) {
	if s.store == nil {
		return 0, nil
	}
	return s.store.Count(ctx)
}

// Clear empties the catalog.
func (s *SuggestionEngine) Clear(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	return s.store.Clear(ctx)
}

// popular maps the top title entries, falling back to static
// defaults when the catalog has nothing to offer.
func (s *SuggestionEngine) popular(ctx context.Context, limit int) ([]domain.Suggestion, error) {
	entries, err := s.store.TopByType(ctx, domain.SuggestionTitle, limit)
	if err != nil {
		logger.Warn("Failed to get popular suggestions: %v", err)
		entries = nil
	}

	suggestions := make([]domain.Suggestion, 0, len(entries))
	for _, entry := range entries {
		suggestions = append(suggestions, domain.Suggestion{
			Text:      entry.Display,
			Source:    "popular",
			Frequency: entry.Frequency,
		})
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions, defaultSuggestions...)
	}
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

// termSuggestions returns prefix completions, topped up with fuzzy
// matches when too few prefixes hit, sorted by frequency.
func (s *SuggestionEngine) termSuggestions(ctx context.Context, partial string, limit int) []domain.Suggestion {
	var suggestions []domain.Suggestion

	entries, err := s.store.Prefix(ctx, partial, nil, limit*2)
	if err != nil {
		logger.Warn("Failed to get term suggestions: %v", err)
		return nil
	}
	for _, entry := range entries {
		suggestions = append(suggestions, domain.Suggestion{
			Text:      entry.Term,
			Source:    entry.Type.String(),
			Frequency: entry.Frequency,
		})
	}

	if len(suggestions) < limit {
		suggestions = append(suggestions, s.fuzzySuggestions(ctx, partial, limit)...)
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Frequency > suggestions[j].Frequency
	})
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

// fuzzySuggestions scans the most frequent catalog entries for terms
// within a small edit distance of the partial input.
func (s *SuggestionEngine) fuzzySuggestions(ctx context.Context, partial string, limit int) []domain.Suggestion {
	candidates, err := s.store.Candidates(ctx, fuzzyCandidateWindow)
	if err != nil {
		logger.Warn("Failed to get fuzzy candidates: %v", err)
		return nil
	}

	maxDistance := 1
	if len(partial) > 4 {
		maxDistance = 2
	}

	var suggestions []domain.Suggestion
	for _, entry := range candidates {
		if entry.Term == partial {
			continue
		}
		if levenshteinDistance(entry.Term, partial) > maxDistance {
			continue
		}
		suggestions = append(suggestions, domain.Suggestion{
			Text:      entry.Term,
			Source:    "fuzzy",
			Frequency: entry.Frequency,
		})
		if len(suggestions) >= limit {
			break
		}
	}
	return suggestions
}

// templateSuggestions composes query templates around the best term
// completions.
func (s *SuggestionEngine) templateSuggestions(ctx context.Context, partial string) []domain.Suggestion {
	terms := s.termSuggestions(ctx, partial, 5)
	if len(terms) > 3 {
		terms = terms[:3]
	}

	var suggestions []domain.Suggestion
	for _, tmpl := range queryTemplates {
		for _, term := range terms {
			if strings.Contains(tmpl, "{term2}") {
				related, err := s.RelatedTerms(ctx, term.Text, 3)
				if err != nil {
					logger.Debug("Failed to get related terms for %q: %v", term.Text, err)
					continue
				}
				for _, other := range related {
					text := strings.ReplaceAll(tmpl, "{term}", term.Text)
					text = strings.ReplaceAll(text, "{term2}", other)
					suggestions = append(suggestions, domain.Suggestion{Text: text, Source: "query_template"})
				}
				continue
			}

			text := strings.ReplaceAll(tmpl, "{term}", term.Text)
			suggestions = append(suggestions, domain.Suggestion{Text: text, Source: "query_template"})
		}
	}
	return suggestions
}

// fieldValueSuggestions completes field:value syntax using facet
// values for enum-like fields and the catalog for tags.
func (s *SuggestionEngine) fieldValueSuggestions(ctx context.Context, partial string, limit int) []domain.Suggestion {
	idx := strings.LastIndex(partial, ":")
	field := strings.TrimSpace(partial[:idx])
	partialValue := strings.TrimSpace(partial[idx+1:])

	var suggestions []domain.Suggestion
	switch field {
	case "format", "category", "status":
		plan := domain.SearchPlan{
			Query:       domain.MatchAllQuery{},
			Size:        0,
			FacetFields: []string{field},
		}
		result, err := s.index.Search(ctx, plan)
		if err != nil {
			logger.Warn("Failed to get %s values: %v", field, err)
			return nil
		}

		values := make([]string, 0, len(result.Facets[field]))
		for value := range result.Facets[field] {
			values = append(values, value)
		}
		counts := result.Facets[field]
		sort.Slice(values, func(i, j int) bool {
			if counts[values[i]] != counts[values[j]] {
				return counts[values[i]] > counts[values[j]]
			}
			return values[i] < values[j]
		})

		for _, value := range values {
			if partialValue != "" && !strings.Contains(strings.ToLower(value), partialValue) {
				continue
			}
			suggestions = append(suggestions, domain.Suggestion{
				Text:      field + ":" + value,
				Source:    "field_value",
				Frequency: counts[value],
			})
		}

	case "tags":
		for _, term := range s.termSuggestions(ctx, partialValue, limit) {
			suggestions = append(suggestions, domain.Suggestion{
				Text:   "tags:" + term.Text,
				Source: "field_value",
			})
		}
	}

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

// dedupeSuggestions keeps the first occurrence of each text.
func dedupeSuggestions(suggestions []domain.Suggestion, limit int) []domain.Suggestion {
	seen := make(map[string]bool, len(suggestions))
	unique := make([]domain.Suggestion, 0, limit)
	for _, suggestion := range suggestions {
		if seen[suggestion.Text] {
			continue
		}
		seen[suggestion.Text] = true
		unique = append(unique, suggestion)
		if len(unique) >= limit {
			break
		}
	}
	return unique
}

// levenshteinDistance calculates the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	m, n := len(a), len(b)
	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}

	for i := 0; i <= m; i++ {
		for j := 0; j <= n; j++ {
			switch {
			case i == 0:
				dp[i][j] = j
			case j == 0:
				dp[i][j] = i
			case a[i-1] == b[j-1]:
				dp[i][j] = dp[i-1][j-1]
			default:
				dp[i][j] = 1 + min(dp[i-1][j], dp[i][j-1], dp[i-1][j-1])
			}
		}
	}
	return dp[m][n]
}
