package domain

// SortOrder selects how search results are ordered.
type SortOrder string

const (
	// SortRelevance orders by ranking score, best match first.
	SortRelevance SortOrder = "relevance"

	// SortDate orders by modification time, newest first.
	SortDate SortOrder = "date"

	// SortModified orders by modification time, newest first.
	SortModified SortOrder = "modified"

	// SortCreated orders by creation time, newest first.
	SortCreated SortOrder = "created"

	// SortSize orders by document size, largest first.
	SortSize SortOrder = "size"

	// SortTitle orders by title, A to Z.
	SortTitle SortOrder = "title"
)

// AllSortOrders returns all valid sort orders.
func AllSortOrders() []SortOrder {
	return []SortOrder{
		SortRelevance,
		SortDate,
		SortModified,
		SortCreated,
		SortSize,
		SortTitle,
	}
}

// IsValid checks if the sort order is a known value.
func (s SortOrder) IsValid() bool {
	switch s {
	case SortRelevance, SortDate, SortModified, SortCreated, SortSize, SortTitle:
		return true
	}
	return false
}

// String returns the string representation.
func (s SortOrder) String() string {
	return string(s)
}

// Field returns the schema field the order sorts on. Relevance has
// no field; it sorts on score.
func (s SortOrder) Field() string {
	switch s {
	case SortDate, SortModified:
		return "modified_at"
	case SortCreated:
		return "created_at"
	case SortSize:
		return "size"
	case SortTitle:
		return "title"
	default:
		return ""
	}
}

// DescendingByDefault reports whether the order runs newest/largest
// first when no explicit direction is given.
func (s SortOrder) DescendingByDefault() bool {
	switch s {
	case SortRelevance, SortDate, SortModified, SortCreated, SortSize:
		return true
	default:
		return false
	}
}

// Description returns a human-readable description.
func (s SortOrder) Description() string {
	switch s {
	case SortRelevance:
		return "Best match first"
	case SortDate, SortModified:
		return "Most recently modified first"
	case SortCreated:
		return "Most recently created first"
	case SortSize:
		return "Largest documents first"
	case SortTitle:
		return "Title A to Z"
	default:
		return "Unknown"
	}
}

// AppSettings contains all application settings.
type AppSettings struct {
	Index   IndexSettings
	Search  SearchSettings
	Ranking RankingSettings
	Suggest SuggestSettings
}

// IndexSettings configures index maintenance.
type IndexSettings struct {
	// BatchSize caps how many documents one index batch carries.
	BatchSize int
}

// SearchSettings configures the search surface.
type SearchSettings struct {
	DefaultLimit  int
	MaxLimit      int
	DefaultSort   SortOrder
	SnippetLength int
}

// RankingSettings configures relevance reranking.
type RankingSettings struct {
	// PreferredFormats receive a boost during relevance ranking.
	PreferredFormats []string

	// RecencyBoost toggles the modification-time boost.
	RecencyBoost bool
}

// SuggestSettings configures the suggestion catalog.
type SuggestSettings struct {
	// MaxSuggestions caps completions returned per request.
	MaxSuggestions int

	// RecordQueries toggles learning from executed searches.
	RecordQueries bool
}

// DefaultAppSettings returns the default application settings.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Index: IndexSettings{
			BatchSize: 100,
		},
		Search: SearchSettings{
			DefaultLimit:  DefaultSearchLimit,
			MaxLimit:      MaxSearchLimit,
			DefaultSort:   SortRelevance,
			SnippetLength: SnippetLength,
		},
		Ranking: RankingSettings{
			PreferredFormats: []string{"markdown"},
			RecencyBoost:     true,
		},
		Suggest: SuggestSettings{
			MaxSuggestions: 10,
			RecordQueries:  true,
		},
	}
}
