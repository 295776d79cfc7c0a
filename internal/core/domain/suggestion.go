package domain

import "time"

// SuggestionType classifies where a catalog entry came from.
type SuggestionType string

const (
	// SuggestionTitle entries are learned from indexed document titles.
	SuggestionTitle SuggestionType = "title"

	// SuggestionTag entries are learned from indexed document tags.
	SuggestionTag SuggestionType = "tag"

	// SuggestionQueryTerm entries are individual terms from past
	// searches.
	SuggestionQueryTerm SuggestionType = "query_term"

	// SuggestionFullQuery entries are complete past query strings.
	SuggestionFullQuery SuggestionType = "full_query"
)

// IsValid reports whether t is a known suggestion type.
func (t SuggestionType) IsValid() bool {
	switch t {
	case SuggestionTitle, SuggestionTag, SuggestionQueryTerm, SuggestionFullQuery:
		return true
	}
	return false
}

// String returns the string representation.
func (t SuggestionType) String() string {
	return string(t)
}

// SuggestionEntry is one row of the suggestion catalog. Term is the
// lowercased lookup key; Display preserves the original casing.
type SuggestionEntry struct {
	Term      string
	Display   string
	Type      SuggestionType
	Frequency int
	LastUsed  time.Time
}

// Suggestion is one completion offered to a caller. Source is the
// catalog type or a synthetic origin such as "fuzzy", "template",
// "popular" or "default".
type Suggestion struct {
	Text      string
	Source    string
	Frequency int
}

// QueryRecord is one entry of the search history.
type QueryRecord struct {
	ID          string
	Query       string
	ResultCount int
	Duration    time.Duration
	ExecutedAt  time.Time
}
