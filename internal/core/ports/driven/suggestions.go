package driven

import (
	"context"

	"github.com/custodia-labs/docfind/internal/core/domain"
)

// SuggestionStore persists the suggestion catalog. Entries are keyed
// by (term, type); recording an existing key bumps its frequency.
type SuggestionStore interface {
	// Record upserts entries. A new key is inserted with the
	// entry's frequency (minimum 1); an existing key gains it.
	Record(ctx context.Context, entries []domain.SuggestionEntry) error

	// Prefix returns entries whose term starts with the lowercased
	// prefix, highest frequency first. An empty types slice matches
	// every type.
	Prefix(ctx context.Context, prefix string, types []domain.SuggestionType, limit int) ([]domain.SuggestionEntry, error)

	// TopByType returns the most frequent entries of one type.
	TopByType(ctx context.Context, t domain.SuggestionType, limit int) ([]domain.SuggestionEntry, error)

	// Candidates returns the most frequent entries across all types,
	// for fuzzy matching against a misspelled term.
	Candidates(ctx context.Context, limit int) ([]domain.SuggestionEntry, error)

	// Count returns the number of catalog entries.
	Count(ctx context.Context) (int, error)

	// Clear removes every catalog entry.
	Clear(ctx context.Context) error
}

// HistoryStore persists executed searches.
type HistoryStore interface {
	// Record appends one executed search.
	Record(ctx context.Context, rec domain.QueryRecord) error

	// Recent returns records newest first.
	Recent(ctx context.Context, limit int) ([]domain.QueryRecord, error)

	// Clear removes all history.
	Clear(ctx context.Context) error
}
