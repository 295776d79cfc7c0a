package driving

import (
	"context"

	"github.com/custodia-labs/docfind/internal/core/domain"
)

// IndexerService manages the index lifecycle.
type IndexerService interface {
	// IndexDocument adds or updates one document.
	IndexDocument(ctx context.Context, doc domain.IndexedDocument) error

	// IndexDocuments adds or updates documents in batches and
	// returns how many were accepted.
	IndexDocuments(ctx context.Context, docs []domain.IndexedDocument) (int, error)

	// DeleteDocument removes a document by ID. Returns false when
	// the ID was not indexed.
	DeleteDocument(ctx context.Context, id string) (bool, error)

	// ClearIndex removes every document and resets the suggestion
	// catalog.
	ClearIndex(ctx context.Context) error

	// Optimize compacts the index for faster reads.
	Optimize(ctx context.Context) error
}
