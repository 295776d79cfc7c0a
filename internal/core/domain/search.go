package domain

import "time"

// Limits applied to every search window.
const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

// SearchOptions carries everything a caller may tune on a search.
type SearchOptions struct {
	// Filters constrain results per schema field. Values naming
	// unknown or unfilterable fields are skipped with a warning.
	Filters map[string]FilterValue

	// Limit caps returned hits. Zero means DefaultSearchLimit;
	// values above MaxSearchLimit are clamped.
	Limit int

	// Offset skips that many ranked hits before returning.
	Offset int

	// SortBy names a sort key: "relevance", "date", "modified",
	// "created", "size" or "title". A leading "-" reverses the
	// direction. Empty means relevance.
	SortBy string

	// Facets requests value counts alongside hits.
	Facets bool

	// FacetFields overrides the default facet field set.
	FacetFields []string

	// Highlight requests highlighted fragments per hit.
	Highlight bool

	// PreferredFormats boosts hits whose format matches during
	// relevance ranking.
	PreferredFormats []string

	// Advanced forces the field-aware parser even when the query
	// contains none of the advanced syntax markers.
	Advanced bool
}

// Hit is one matched document with its stored fields.
type Hit struct {
	DocumentID  string
	Score       float64
	Title       string
	Path        string
	Description string
	Format      string
	Category    string
	Status      string
	Tags        []string
	Snippet     string
	Size        int64
	DocScore    float64
	CreatedAt   time.Time
	ModifiedAt  time.Time
	Highlights  []string
	Metadata    map[string]any
}

// SearchResults is the full response for one search.
type SearchResults struct {
	Query       string
	Hits        []Hit
	Total       int
	Facets      map[string]map[string]int
	Suggestions []string
	Duration    time.Duration
}

// SortField is one sort key for the index, most significant first.
type SortField struct {
	Field      string
	Descending bool
}

// SearchPlan is the executable form of a search handed to the index:
// a parsed query plus window, ordering and facet instructions.
type SearchPlan struct {
	Query       Query
	Size        int
	From        int
	Sort        []SortField
	FacetFields []string
}

// IndexResult is what the index returns for a plan.
type IndexResult struct {
	Hits   []Hit
	Total  int
	Facets map[string]map[string]int
}

// IndexStats summarizes the physical index.
type IndexStats struct {
	DocumentCount   int
	SizeBytes       int64
	Fields          []string
	LastModified    time.Time
	SuggestionCount int
}
