package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/docfind/internal/core/domain"
	"github.com/custodia-labs/docfind/internal/core/ports/driven"
	"github.com/custodia-labs/docfind/internal/core/ports/driving"
	"github.com/custodia-labs/docfind/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// Result counts above this trigger narrowing "did you mean" hints.
const tooManyResultsThreshold = 100

// At most this many "did you mean" hints are returned.
const maxQueryHints = 5

// How many reference-document terms a similarity query carries.
const maxSimilarityTerms = 12

// SearchService orchestrates parsing, execution, ranking, faceting
// and suggestion bookkeeping for every search.
type SearchService struct {
	index       driven.DocumentIndex
	parser      *QueryParser
	ranker      *Ranker
	facets      *FacetEngine
	suggestions *SuggestionEngine
	history     driven.HistoryStore
	settings    driving.SettingsService
	now         func() time.Time
}

// NewSearchService creates a new search service.
// The history store and settings service are optional (can be nil).
func NewSearchService(
	index driven.DocumentIndex,
	parser *QueryParser,
	ranker *Ranker,
	facets *FacetEngine,
	suggestions *SuggestionEngine,
	history driven.HistoryStore,
	settings driving.SettingsService,
) *SearchService {
	return &SearchService{
		index:       index,
		parser:      parser,
		ranker:      ranker,
		facets:      facets,
		suggestions: suggestions,
		history:     history,
		settings:    settings,
		now:         time.Now,
	}
}

// Search parses and executes a query, returning ranked hits. An
// empty query matches everything, which combined with filters lists
// documents by field value. Malformed queries degrade to a fallback
// term query instead of failing.
func (s *SearchService) Search(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchResults, error) {
	logger.Section("Search Execution")
	start := s.now()

	query = strings.TrimSpace(query)
	logger.Debug("Query: %q", query)

	cfg := s.appSettings()
	limit := resolveLimit(opts.Limit, cfg.Search)
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	logger.Debug("Limit: %d, Offset: %d", limit, offset)

	ast := s.parser.Parse(query, opts.Advanced)
	if len(opts.Filters) > 0 {
		if filter := s.parser.BuildFilterQuery(opts.Filters); filter != nil {
			ast = domain.AndQuery{Children: []domain.Query{ast, filter}}
		}
	}
	logger.Debug("Parsed query: %s", ast.String())

	sortField, descending := s.resolveSort(opts.SortBy, cfg.Search.DefaultSort)
	byRelevance := sortField == ""

	plan := domain.SearchPlan{Query: ast}
	if byRelevance {
		// Relevance ranking rescores hits, so the whole window up
		// to the requested page has to be fetched and re-sorted
		// before slicing. Explicit field sorts paginate in the index.
		plan.Size = offset + limit
	} else {
		plan.Size = limit
		plan.From = offset
		plan.Sort = []domain.SortField{{Field: sortField, Descending: descending}}
		logger.Debug("Sort: %s descending=%t", sortField, descending)
	}
	if opts.Facets {
		plan.FacetFields = s.facetFields(query, opts.FacetFields)
		logger.Debug("Facet fields: %v", plan.FacetFields)
	}

	res, err := s.index.Search(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	logger.Debug("Index returned %d of %d hits", len(res.Hits), res.Total)

	hits := res.Hits
	if byRelevance {
		hits = s.ranker.Rank(hits, query, s.preferredFormats(opts.PreferredFormats, cfg))
		hits = window(hits, offset, limit)
	}

	if opts.Highlight {
		for i := range hits {
			hits[i].Highlights = highlightMatches(hits[i], query)
		}
	}

	results := &domain.SearchResults{
		Query:       query,
		Hits:        hits,
		Total:       res.Total,
		Suggestions: didYouMean(query, res.Total),
		Duration:    s.now().Sub(start),
	}
	if opts.Facets {
		results.Facets = s.facets.Clean(res.Facets)
	}

	if query != "" && cfg.Suggest.RecordQueries {
		if s.suggestions != nil {
			s.suggestions.RecordSearch(ctx, query)
		}
		s.recordHistory(ctx, query, res.Total, results.Duration)
	}

	logger.Info("Final results: %d of %d total in %s", len(hits), res.Total, results.Duration)
	return results, nil
}

// SearchSimilar finds documents resembling the one given, by running
// the reference document's strongest terms against the content field.
// An unindexed reference yields an empty result, not an error.
func (s *SearchService) SearchSimilar(ctx context.Context, documentID string, limit int) (*domain.SearchResults, error) {
	logger.Section("Similar Documents")
	start := s.now()
	label := "similar:" + documentID

	if documentID == "" {
		return nil, fmt.Errorf("search similar: %w: missing document id", domain.ErrInvalidInput)
	}

	cfg := s.appSettings()
	limit = resolveLimit(limit, cfg.Search)

	ref, err := s.index.Document(ctx, documentID)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Debug("Reference document not indexed: %s", documentID)
		return &domain.SearchResults{Query: label, Duration: s.now().Sub(start)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load reference document %s: %w", documentID, err)
	}

	terms := similarityTerms(ref)
	logger.Debug("Similarity terms: %v", terms)
	if len(terms) == 0 {
		return &domain.SearchResults{Query: label, Duration: s.now().Sub(start)}, nil
	}

	children := make([]domain.Query, 0, len(terms))
	for _, term := range terms {
		children = append(children, domain.FieldTermQuery{Field: "content", Term: term})
	}
	query := domain.AndQuery{Children: []domain.Query{
		domain.OrQuery{Children: children},
		domain.NotQuery{Child: domain.FieldTermQuery{Field: "id", Term: documentID}},
	}}

	res, err := s.index.Search(ctx, domain.SearchPlan{Query: query, Size: limit})
	if err != nil {
		return nil, fmt.Errorf("search similar: %w", err)
	}

	logger.Info("Found %d similar documents", len(res.Hits))
	return &domain.SearchResults{
		Query:    label,
		Hits:     res.Hits,
		Total:    len(res.Hits),
		Duration: s.now().Sub(start),
	}, nil
}

// Suggest returns completions for a partial query.
func (s *SearchService) Suggest(ctx context.Context, partial string, limit int) ([]domain.Suggestion, error) {
	if s.suggestions == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = s.appSettings().Suggest.MaxSuggestions
	}
	return s.suggestions.GetSuggestions(ctx, partial, limit)
}

// RelatedTerms returns tags co-occurring with the given term.
func (s *SearchService) RelatedTerms(ctx context.Context, term string, limit int) ([]string, error) {
	if s.suggestions == nil {
		return nil, nil
	}
	return s.suggestions.RelatedTerms(ctx, term, limit)
}

// PopularSearches returns the most frequent catalog entries.
func (s *SearchService) PopularSearches(ctx context.Context, limit int) ([]domain.Suggestion, error) {
	if s.suggestions == nil {
		return nil, nil
	}
	return s.suggestions.PopularSearches(ctx, limit)
}

// Stats summarizes the index and suggestion catalog.
func (s *SearchService) Stats(ctx context.Context) (*domain.IndexStats, error) {
	count, err := s.index.Count()
	if err != nil {
		return nil, fmt.Errorf("document count: %w", err)
	}
	size, err := s.index.SizeBytes()
	if err != nil {
		return nil, fmt.Errorf("index size: %w", err)
	}
	fields, err := s.index.FieldNames()
	if err != nil {
		return nil, fmt.Errorf("index fields: %w", err)
	}
	last, err := s.index.LastModified()
	if err != nil {
		return nil, fmt.Errorf("index last modified: %w", err)
	}

	stats := &domain.IndexStats{
		DocumentCount: count,
		SizeBytes:     size,
		Fields:        fields,
		LastModified:  last,
	}
	if s.suggestions != nil {
		n, err := s.suggestions.Count(ctx)
		if err != nil {
			logger.Warn("Suggestion count unavailable: %v", err)
		} else {
			stats.SuggestionCount = n
		}
	}
	return stats, nil
}

// History returns recent searches, newest first.
func (s *SearchService) History(ctx context.Context, limit int) ([]domain.QueryRecord, error) {
	if s.history == nil {
		logger.Debug("Search history disabled")
		return nil, nil
	}
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}
	records, err := s.history.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("search history: %w", err)
	}
	return records, nil
}

// ClearHistory removes all recorded searches and the learned
// suggestion catalog.
func (s *SearchService) ClearHistory(ctx context.Context) error {
	if s.suggestions != nil {
		if err := s.suggestions.Clear(ctx); err != nil {
			return fmt.Errorf("clear suggestion catalog: %w", err)
		}
	}
	if s.history != nil {
		if err := s.history.Clear(ctx); err != nil {
			return fmt.Errorf("clear search history: %w", err)
		}
	}
	return nil
}

// appSettings loads settings, falling back to defaults when no
// settings service is wired or loading fails.
func (s *SearchService) appSettings() domain.AppSettings {
	if s.settings != nil {
		if cfg, err := s.settings.Get(); err == nil && cfg != nil {
			return *cfg
		}
	}
	return domain.DefaultAppSettings()
}

// resolveSort maps a sort name to an index sort field and direction.
// An empty field means relevance order. A leading "-" flips the
// order's default direction. Unknown names pass through as raw index
// fields so callers can sort on any sortable schema field.
func (s *SearchService) resolveSort(sortBy string, fallback domain.SortOrder) (string, bool) {
	name := strings.TrimSpace(sortBy)
	reversed := strings.HasPrefix(name, "-")
	name = strings.TrimPrefix(name, "-")
	if name == "" {
		name = fallback.String()
	}

	order := domain.SortOrder(name)
	if order.IsValid() {
		field := order.Field()
		if field == "" {
			return "", false
		}
		descending := order.DescendingByDefault()
		if reversed {
			descending = !descending
		}
		return field, descending
	}

	logger.Debug("Unknown sort %q, sorting on it as a raw field", name)
	return name, reversed
}

// facetFields picks the facet fields for a search: the explicit
// override when given, otherwise the default set plus fields the
// query mentions.
func (s *SearchService) facetFields(query string, override []string) []string {
	if len(override) > 0 {
		return s.facets.Allowed(override)
	}
	return s.facets.Fields(query)
}

// preferredFormats resolves the formats boosted during ranking.
func (s *SearchService) preferredFormats(override []string, cfg domain.AppSettings) []string {
	if len(override) > 0 {
		return override
	}
	return cfg.Ranking.PreferredFormats
}

// recordHistory appends one executed search, best-effort.
func (s *SearchService) recordHistory(ctx context.Context, query string, total int, took time.Duration) {
	if s.history == nil {
		return
	}
	rec := domain.QueryRecord{
		Query:       query,
		ResultCount: total,
		Duration:    took,
		ExecutedAt:  s.now(),
	}
	if err := s.history.Record(ctx, rec); err != nil {
		logger.Warn("Failed to record search history: %v", err)
	}
}

// resolveLimit applies the default and maximum window sizes.
func resolveLimit(limit int, cfg domain.SearchSettings) int {
	if limit <= 0 {
		limit = cfg.DefaultLimit
	}
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}
	max := cfg.MaxLimit
	if max <= 0 {
		max = domain.MaxSearchLimit
	}
	if limit > max {
		limit = max
	}
	return limit
}

// window slices one page out of ranked hits.
func window(hits []domain.Hit, offset, limit int) []domain.Hit {
	if offset >= len(hits) {
		return []domain.Hit{}
	}
	end := offset + limit
	if end > len(hits) {
		end = len(hits)
	}
	return hits[offset:end]
}

// didYouMean proposes query variants when a search lands badly: a
// fuzzy, unquoted or OR-relaxed variant for zero results, a format
// filter or exact phrase to narrow an overly broad one.
func didYouMean(query string, total int) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	var hints []string
	switch {
	case total == 0:
		hints = append(hints, query+"~")
		if strings.Contains(query, `"`) {
			hints = append(hints, strings.ReplaceAll(query, `"`, ""))
		}
		if strings.Contains(query, " AND ") {
			hints = append(hints, strings.ReplaceAll(query, " AND ", " OR "))
		}
	case total > tooManyResultsThreshold:
		hints = append(hints, query+" format:markdown")
		if !strings.Contains(query, `"`) {
			hints = append(hints, `"`+query+`"`)
		}
	}

	if len(hints) > maxQueryHints {
		hints = hints[:maxQueryHints]
	}
	return hints
}

// highlightMatches extracts snippet sentences containing query terms.
// Content itself is not stored, so the stored snippet is the source;
// the title stands in when the snippet has no matching sentence.
func highlightMatches(hit domain.Hit, query string) []string {
	terms := highlightTerms(query)
	if len(terms) == 0 {
		return nil
	}

	var highlights []string
	for _, sentence := range splitSentences(hit.Snippet) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		lower := strings.ToLower(sentence)
		for _, term := range terms {
			if strings.Contains(lower, term) {
				if len(sentence) > 200 {
					sentence = sentence[:200] + "..."
				}
				highlights = append(highlights, sentence)
				break
			}
		}
		if len(highlights) >= 3 {
			break
		}
	}

	if len(highlights) == 0 {
		title := strings.ToLower(hit.Title)
		for _, term := range terms {
			if strings.Contains(title, term) {
				highlights = append(highlights, hit.Title)
				break
			}
		}
	}
	return highlights
}

// highlightTerms extracts plain lowercased terms from a query,
// dropping operators, field prefixes and quoting.
func highlightTerms(query string) []string {
	var terms []string
	for _, raw := range strings.Fields(strings.ToLower(query)) {
		if i := strings.LastIndex(raw, ":"); i >= 0 {
			raw = raw[i+1:]
		}
		raw = strings.Trim(raw, `"'()[]~*?`)
		switch raw {
		case "", "and", "or", "not", "to":
			continue
		}
		terms = append(terms, raw)
	}
	return terms
}

// splitSentences splits text at common sentence terminators.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// similarityTerms collects the reference document's strongest terms:
// title words first, then tags, then snippet words.
func similarityTerms(ref *domain.Hit) []string {
	seen := make(map[string]bool)
	var terms []string

	add := func(text string) {
		for _, token := range queryTermPattern.FindAllString(strings.ToLower(text), -1) {
			if len(terms) >= maxSimilarityTerms {
				return
			}
			if len(token) <= 2 || seen[token] {
				continue
			}
			seen[token] = true
			terms = append(terms, token)
		}
	}

	add(ref.Title)
	for _, tag := range ref.Tags {
		add(tag)
	}
	add(ref.Snippet)
	return terms
}
