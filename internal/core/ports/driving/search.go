package driving

import (
	"context"

	"github.com/custodia-labs/docfind/internal/core/domain"
)

// SearchService provides search capabilities to external actors.
type SearchService interface {
	// Search parses and executes a query, returning ranked hits.
	Search(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchResults, error)

	// SearchSimilar finds documents resembling the one given.
	SearchSimilar(ctx context.Context, documentID string, limit int) (*domain.SearchResults, error)

	// Suggest returns completions for a partial query.
	Suggest(ctx context.Context, partial string, limit int) ([]domain.Suggestion, error)

	// RelatedTerms returns terms co-occurring with the given one.
	RelatedTerms(ctx context.Context, term string, limit int) ([]string, error)

	// PopularSearches returns frequent catalog entries.
	PopularSearches(ctx context.Context, limit int) ([]domain.Suggestion, error)

	// Stats summarizes the index and suggestion catalog.
	Stats(ctx context.Context) (*domain.IndexStats, error)

	// History returns recent searches, newest first.
	History(ctx context.Context, limit int) ([]domain.QueryRecord, error)

	// ClearHistory removes all recorded searches.
	ClearHistory(ctx context.Context) error
}
