package bleve

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	query "github.com/blevesearch/bleve/v2/search/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docfind/internal/core/domain"
)

// --- Test helpers ---

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	eng, err := New(Config{Path: filepath.Join(t.TempDir(), "idx")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}

func seedCatalog(t *testing.T, eng *Engine) {
	t.Helper()
	require.NoError(t, eng.IndexBatch(context.Background(), catalogDocs()))
}

// catalogDocs returns a small documentation catalog: two markdown
// documents, one code document and one JSON document.
func catalogDocs() []domain.IndexedDocument {
	return []domain.IndexedDocument{
		{
			ID:         "doc-guide",
			Path:       "docs/getting-started.md",
			Title:      "Getting Started Guide",
			Content:    "Getting started with the project is easy. Install the tool, then follow this guide to begin searching your documentation library.",
			Format:     "markdown",
			Status:     "active",
			Tags:       []string{"guide"},
			Size:       1200,
			Score:      0.9,
			CreatedAt:  time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC),
			ModifiedAt: time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC),
		},
		{
			ID:         "doc-api",
			Path:       "docs/api/reference.md",
			Title:      "API Documentation",
			Content:    "The API documentation covers every endpoint, authentication flows and response formats in detail.",
			Format:     "markdown",
			Status:     "active",
			Tags:       []string{"api"},
			Size:       450,
			Score:      0.7,
			CreatedAt:  time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
			ModifiedAt: time.Date(2024, 6, 30, 15, 0, 0, 0, time.UTC),
		},
		{
			ID:         "doc-code",
			Path:       "examples/walk.py",
			Title:      "Python Example",
			Content:    "An example Python script that walks the index and prints every stored path.",
			Format:     "code",
			Status:     "active",
			Tags:       []string{"python"},
			Size:       3000,
			Score:      0.4,
			CreatedAt:  time.Date(2023, 11, 1, 11, 0, 0, 0, time.UTC),
			ModifiedAt: time.Date(2023, 11, 5, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:         "doc-config",
			Path:       "config/settings.json",
			Title:      "Configuration Settings",
			Content:    "Configuration options and settings for the indexing service, stored as JSON.",
			Format:     "json",
			Status:     "archived",
			Tags:       []string{"config"},
			Size:       90,
			Score:      0.2,
			CreatedAt:  time.Date(2022, 3, 10, 9, 0, 0, 0, time.UTC),
			ModifiedAt: time.Date(2022, 3, 15, 9, 30, 0, 0, time.UTC),
		},
	}
}

func hitIDs(hits []domain.Hit) []string {
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.DocumentID
	}
	return ids
}

func floatPtr(v float64) *float64 { return &v }

// --- Tests ---

func TestNew_CreatesEmptyIndex(t *testing.T) {
	eng := newTestEngine(t)

	count, err := eng.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	size, err := eng.SizeBytes()
	require.NoError(t, err)
	assert.Greater(t, size, int64(0))
}

func TestNew_ReopensExistingIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idx")

	eng, err := New(Config{Path: path})
	require.NoError(t, err)
	require.NoError(t, eng.Index(context.Background(), catalogDocs()[0]))
	require.NoError(t, eng.Close())

	reopened, err := New(Config{Path: path})
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEngine_Index_StoredFieldRoundtrip(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	content := strings.Repeat("Install the documentation search tool and keep this paragraph going well past the snippet window so truncation has something to cut. ", 3)
	doc := domain.IndexedDocument{
		ID:          "doc-full",
		Path:        "docs/install/setup.md",
		Title:       "Installation Handbook",
		Content:     content,
		Description: "How to install the indexer",
		Format:      "markdown",
		Category:    "handbook",
		Status:      "active",
		Tags:        []string{"docs", "install"},
		Keywords:    []string{"setup"},
		ContentHash: "abc123",
		Size:        1234,
		Score:       0.85,
		CreatedAt:   time.Date(2024, 2, 1, 10, 30, 0, 0, time.UTC),
		ModifiedAt:  time.Date(2024, 2, 20, 16, 45, 0, 0, time.UTC),
		IndexedAt:   time.Date(2024, 2, 21, 0, 0, 0, 0, time.UTC),
		Metadata: map[string]any{
			"team":    "platform",
			"headers": []any{map[string]any{"text": "Installation"}},
		},
	}
	require.NoError(t, eng.Index(ctx, doc))

	hit, err := eng.Document(ctx, "doc-full")
	require.NoError(t, err)

	assert.Equal(t, "doc-full", hit.DocumentID)
	assert.Equal(t, "Installation Handbook", hit.Title)
	assert.Equal(t, "docs/install/setup.md", hit.Path)
	assert.Equal(t, "How to install the indexer", hit.Description)
	assert.Equal(t, "markdown", hit.Format)
	assert.Equal(t, "handbook", hit.Category)
	assert.Equal(t, "active", hit.Status)
	assert.Equal(t, []string{"docs", "install"}, hit.Tags)
	assert.Equal(t, int64(1234), hit.Size)
	assert.InDelta(t, 0.85, hit.DocScore, 1e-9)
	assert.WithinDuration(t, doc.CreatedAt, hit.CreatedAt, time.Second)
	assert.WithinDuration(t, doc.ModifiedAt, hit.ModifiedAt, time.Second)
	assert.Equal(t, "platform", hit.Metadata["team"])

	// Long content stores a word-boundary snippet, not the full text.
	assert.True(t, strings.HasSuffix(hit.Snippet, "..."))
	assert.LessOrEqual(t, len(hit.Snippet), domain.SnippetLength+3)
	assert.True(t, strings.HasPrefix(content, strings.TrimSuffix(hit.Snippet, "...")))
}

func TestEngine_Index_DerivedFieldsAreSearchable(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	seedCatalog(t, eng)

	// Markdown heading metadata lands in the keywords field.
	doc := catalogDocs()[0]
	doc.ID = "doc-headers"
	doc.Metadata = map[string]any{"headers": []any{map[string]any{"text": "Troubleshooting"}}}
	require.NoError(t, eng.Index(ctx, doc))

	res, err := eng.Search(ctx, domain.SearchPlan{
		Query: domain.FieldTermQuery{Field: "keywords", Term: "Troubleshooting"},
		Size:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-headers"}, hitIDs(res.Hits))

	// Path components match directory names.
	res, err = eng.Search(ctx, domain.SearchPlan{
		Query: domain.FieldTermQuery{Field: "path_components", Term: "examples"},
		Size:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-code"}, hitIDs(res.Hits))
}

func TestEngine_Index_UpsertReplacesDocument(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	doc := catalogDocs()[0]
	require.NoError(t, eng.Index(ctx, doc))
	require.NoError(t, eng.Index(ctx, doc))

	count, err := eng.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count, "re-indexing the same id must not duplicate")

	doc.Title = "Getting Started Guide v2"
	require.NoError(t, eng.Index(ctx, doc))

	count, err = eng.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	hit, err := eng.Document(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Getting Started Guide v2", hit.Title)
}

func TestEngine_IndexBatch_IndexesAll(t *testing.T) {
	eng := newTestEngine(t)
	seedCatalog(t, eng)

	count, err := eng.Count()
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestEngine_Delete(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	seedCatalog(t, eng)

	found, err := eng.Delete(ctx, "doc-api")
	require.NoError(t, err)
	assert.True(t, found)

	count, err := eng.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	_, err = eng.Document(ctx, "doc-api")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	res, err := eng.Search(ctx, domain.SearchPlan{Query: domain.TermQuery{Term: "documentation"}, Size: 10})
	require.NoError(t, err)
	assert.NotContains(t, hitIDs(res.Hits), "doc-api")

	// Deleting an absent id is not an error.
	found, err = eng.Delete(ctx, "doc-api")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestEngine_Search_CatalogScenario(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	seedCatalog(t, eng)

	// A plain term search finds the document titled with it.
	res, err := eng.Search(ctx, domain.SearchPlan{Query: domain.TermQuery{Term: "documentation"}, Size: 10})
	require.NoError(t, err)
	require.NotEmpty(t, res.Hits)
	assert.Contains(t, hitIDs(res.Hits), "doc-api")

	// An empty query with a format filter lists by field value.
	filtered := domain.AndQuery{Children: []domain.Query{
		domain.MatchAllQuery{},
		domain.FieldTermQuery{Field: "format", Term: "markdown"},
	}}
	res, err = eng.Search(ctx, domain.SearchPlan{Query: filtered, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	for _, hit := range res.Hits {
		assert.Equal(t, "markdown", hit.Format)
	}

	// A term absent from the catalog matches nothing.
	res, err = eng.Search(ctx, domain.SearchPlan{Query: domain.TermQuery{Term: "nonexistentterm999"}, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)
	assert.Empty(t, res.Hits)
}

func TestEngine_Search_TitleMatchOutranksContentMatch(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	seedCatalog(t, eng)

	res, err := eng.Search(ctx, domain.SearchPlan{Query: domain.TermQuery{Term: "documentation"}, Size: 10})
	require.NoError(t, err)
	require.NotEmpty(t, res.Hits)

	assert.Equal(t, "doc-api", res.Hits[0].DocumentID, "title match should rank first")
	for i := 1; i < len(res.Hits); i++ {
		assert.GreaterOrEqual(t, res.Hits[i-1].Score, res.Hits[i].Score)
	}
}

func TestEngine_Search_RankingIsDeterministic(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	seedCatalog(t, eng)

	plan := domain.SearchPlan{Query: domain.TermQuery{Term: "documentation"}, Size: 10}
	first, err := eng.Search(ctx, plan)
	require.NoError(t, err)
	second, err := eng.Search(ctx, plan)
	require.NoError(t, err)

	assert.Equal(t, hitIDs(first.Hits), hitIDs(second.Hits))
}

func TestEngine_Search_StemmedTermsMatch(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	seedCatalog(t, eng)

	// "searches" and the indexed "searching" share a stem.
	res, err := eng.Search(ctx, domain.SearchPlan{
		Query: domain.FieldTermQuery{Field: "content", Term: "searches"},
		Size:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-guide"}, hitIDs(res.Hits))
}

func TestEngine_Search_KeywordFieldsFoldCase(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	doc := catalogDocs()[0]
	doc.Format = "Markdown"
	require.NoError(t, eng.Index(ctx, doc))

	res, err := eng.Search(ctx, domain.SearchPlan{
		Query:       domain.FieldTermQuery{Field: "format", Term: "MARKDOWN"},
		Size:        10,
		FacetFields: []string{"format"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)

	// Stored fields keep the original casing; index terms fold.
	assert.Equal(t, "Markdown", res.Hits[0].Format)
	assert.Equal(t, map[string]int{"markdown": 1}, res.Facets["format"])
}

func TestEngine_Search_PhraseMatchesWordOrder(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	seedCatalog(t, eng)

	res, err := eng.Search(ctx, domain.SearchPlan{
		Query: domain.PhraseQuery{Field: "content", Phrase: "getting started"},
		Size:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-guide"}, hitIDs(res.Hits))

	res, err = eng.Search(ctx, domain.SearchPlan{
		Query: domain.PhraseQuery{Field: "content", Phrase: "started getting"},
		Size:  10,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Hits)
}

func TestEngine_Search_WildcardAndFuzzy(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	seedCatalog(t, eng)

	res, err := eng.Search(ctx, domain.SearchPlan{
		Query: domain.WildcardQuery{Field: "title", Pattern: "doc*"},
		Size:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-api"}, hitIDs(res.Hits))

	res, err = eng.Search(ctx, domain.SearchPlan{
		Query: domain.FuzzyQuery{Field: "title", Term: "documant", Distance: 1},
		Size:  10,
	})
	require.NoError(t, err)
	assert.Contains(t, hitIDs(res.Hits), "doc-api")
}

func TestEngine_Search_NumericRangeIsInclusive(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	seedCatalog(t, eng)

	res, err := eng.Search(ctx, domain.SearchPlan{
		Query: domain.RangeQuery{Field: "size", Min: floatPtr(100), Max: floatPtr(1200)},
		Size:  10,
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"doc-guide", "doc-api"}, hitIDs(res.Hits))
}

func TestEngine_Search_DateRangeCoversEndDay(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	seedCatalog(t, eng)

	// doc-api was modified at 15:00 on the end day and must still match.
	res, err := eng.Search(ctx, domain.SearchPlan{
		Query: domain.RangeQuery{
			Field: "modified_at",
			Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		},
		Size: 10,
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"doc-guide", "doc-api"}, hitIDs(res.Hits))
}

func TestEngine_Search_CalendarFields(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	seedCatalog(t, eng)

	res, err := eng.Search(ctx, domain.SearchPlan{
		Query: domain.FieldTermQuery{Field: "year", Term: "2024"},
		Size:  10,
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"doc-guide", "doc-api"}, hitIDs(res.Hits))

	// Single-digit months match their zero-padded index terms.
	res, err = eng.Search(ctx, domain.SearchPlan{
		Query: domain.FieldTermQuery{Field: "month", Term: "3"},
		Size:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-config"}, hitIDs(res.Hits))

	res, err = eng.Search(ctx, domain.SearchPlan{
		Query: domain.RangeQuery{Field: "year", Min: floatPtr(2022), Max: floatPtr(2023)},
		Size:  10,
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"doc-code", "doc-config"}, hitIDs(res.Hits))
}

func TestEngine_Search_ExcludesNegatedDocuments(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	seedCatalog(t, eng)

	res, err := eng.Search(ctx, domain.SearchPlan{
		Query: domain.AndQuery{Children: []domain.Query{
			domain.FieldTermQuery{Field: "format", Term: "markdown"},
			domain.NotQuery{Child: domain.FieldTermQuery{Field: "id", Term: "doc-api"}},
		}},
		Size: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-guide"}, hitIDs(res.Hits))
}

func TestEngine_Search_SortsOnFields(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	seedCatalog(t, eng)

	res, err := eng.Search(ctx, domain.SearchPlan{
		Query: domain.MatchAllQuery{},
		Size:  10,
		Sort:  []domain.SortField{{Field: "size", Descending: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-code", "doc-guide", "doc-api", "doc-config"}, hitIDs(res.Hits))

	// Title sorts on the whole lower-cased value, not the first token.
	res, err = eng.Search(ctx, domain.SearchPlan{
		Query: domain.MatchAllQuery{},
		Size:  10,
		Sort:  []domain.SortField{{Field: "title"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-api", "doc-config", "doc-guide", "doc-code"}, hitIDs(res.Hits))
}

func TestEngine_Search_PagesDoNotOverlap(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	seedCatalog(t, eng)

	sort := []domain.SortField{{Field: "size", Descending: true}}

	page1, err := eng.Search(ctx, domain.SearchPlan{Query: domain.MatchAllQuery{}, Size: 2, From: 0, Sort: sort})
	require.NoError(t, err)
	page2, err := eng.Search(ctx, domain.SearchPlan{Query: domain.MatchAllQuery{}, Size: 2, From: 2, Sort: sort})
	require.NoError(t, err)

	assert.Equal(t, []string{"doc-code", "doc-guide"}, hitIDs(page1.Hits))
	assert.Equal(t, []string{"doc-api", "doc-config"}, hitIDs(page2.Hits))
	assert.Equal(t, 4, page1.Total)
	assert.Equal(t, 4, page2.Total)
}

func TestEngine_Search_FacetCountsAreAccurate(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	seedCatalog(t, eng)

	res, err := eng.Search(ctx, domain.SearchPlan{
		Query:       domain.MatchAllQuery{},
		Size:        10,
		FacetFields: []string{"format", "tags", "year"},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"markdown": 2, "code": 1, "json": 1}, res.Facets["format"])
	assert.Equal(t, map[string]int{"guide": 1, "api": 1, "python": 1, "config": 1}, res.Facets["tags"])
	assert.Equal(t, map[string]int{"2024": 2, "2023": 1, "2022": 1}, res.Facets["year"])

	total := 0
	for _, count := range res.Facets["format"] {
		total += count
	}
	assert.Equal(t, res.Total, total, "facet counts must sum to the match total")
}

func TestEngine_Search_FacetsOnlyWindow(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	seedCatalog(t, eng)

	res, err := eng.Search(ctx, domain.SearchPlan{
		Query:       domain.MatchAllQuery{},
		Size:        0,
		FacetFields: []string{"format"},
	})
	require.NoError(t, err)

	assert.Empty(t, res.Hits)
	assert.Equal(t, 4, res.Total)
	assert.Len(t, res.Facets["format"], 3)
}

func TestEngine_Clear_LeavesUsableEmptyIndex(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	seedCatalog(t, eng)

	require.NoError(t, eng.Clear(ctx))

	count, err := eng.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, eng.Index(ctx, catalogDocs()[0]))
	count, err = eng.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEngine_Optimize_PreservesDocuments(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	seedCatalog(t, eng)

	_, err := eng.Delete(ctx, "doc-config")
	require.NoError(t, err)

	require.NoError(t, eng.Optimize(ctx))

	count, err := eng.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	res, err := eng.Search(ctx, domain.SearchPlan{Query: domain.TermQuery{Term: "documentation"}, Size: 10})
	require.NoError(t, err)
	assert.Contains(t, hitIDs(res.Hits), "doc-api")
}

func TestEngine_StatsSurface(t *testing.T) {
	eng := newTestEngine(t)
	seedCatalog(t, eng)

	fields, err := eng.FieldNames()
	require.NoError(t, err)
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "format")
	assert.NotContains(t, fields, "_id")
	assert.NotContains(t, fields, "title"+sortSuffix)

	size, err := eng.SizeBytes()
	require.NoError(t, err)
	assert.Greater(t, size, int64(0))

	last, err := eng.LastModified()
	require.NoError(t, err)
	assert.False(t, last.IsZero())
}

func TestTranslateQuery_NodeShapes(t *testing.T) {
	schema := domain.DefaultSchema()

	tests := []struct {
		name string
		node domain.Query
		want query.Query
	}{
		{"nil matches all", nil, &query.MatchAllQuery{}},
		{"match all", domain.MatchAllQuery{}, &query.MatchAllQuery{}},
		{"unknown field drops", domain.FieldTermQuery{Field: "owner", Term: "x"}, &query.MatchNoneQuery{}},
		{"stored field drops", domain.FieldTermQuery{Field: "snippet", Term: "x"}, &query.MatchNoneQuery{}},
		{"term fans out", domain.TermQuery{Term: "x"}, &query.DisjunctionQuery{}},
		{"negation needs boolean", domain.NotQuery{Child: domain.TermQuery{Term: "x"}}, &query.BooleanQuery{}},
		{"and with not", domain.AndQuery{Children: []domain.Query{
			domain.TermQuery{Term: "x"},
			domain.NotQuery{Child: domain.TermQuery{Term: "y"}},
		}}, &query.BooleanQuery{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.IsType(t, tt.want, translateQuery(schema, tt.node))
		})
	}
}

func TestSortFields_MapsToIndexSorts(t *testing.T) {
	schema := domain.DefaultSchema()

	tests := []struct {
		name  string
		sorts []domain.SortField
		want  []string
	}{
		{"descending date", []domain.SortField{{Field: "modified_at", Descending: true}}, []string{"-modified_at", "_id"}},
		{"ascending size", []domain.SortField{{Field: "size"}}, []string{"size", "_id"}},
		{"text field uses companion", []domain.SortField{{Field: "title"}}, []string{"title_sort", "_id"}},
		{"descending text companion", []domain.SortField{{Field: "title", Descending: true}}, []string{"-title_sort", "_id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sortFields(schema, tt.sorts))
		})
	}
}

func TestEngine_Document_NotFound(t *testing.T) {
	eng := newTestEngine(t)

	_, err := eng.Document(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
