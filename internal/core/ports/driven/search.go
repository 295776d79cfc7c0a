package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/docfind/internal/core/domain"
)

// DocumentIndex provides full-text index operations.
// Backed by Bleve for BM25 keyword search.
type DocumentIndex interface {
	// Index adds or updates a single document. Indexing an existing
	// ID replaces the previous entry.
	Index(ctx context.Context, doc domain.IndexedDocument) error

	// IndexBatch adds or updates documents in one atomic batch.
	IndexBatch(ctx context.Context, docs []domain.IndexedDocument) error

	// Delete removes a document by ID. Returns false when the ID
	// was not present; that is not an error.
	Delete(ctx context.Context, id string) (bool, error)

	// Search executes a plan and returns hydrated hits.
	Search(ctx context.Context, plan domain.SearchPlan) (*domain.IndexResult, error)

	// Document fetches one document's stored fields by ID.
	// Returns domain.ErrNotFound when the ID is absent.
	Document(ctx context.Context, id string) (*domain.Hit, error)

	// Count returns the number of indexed documents.
	Count() (int, error)

	// FieldNames returns the fields present in the index.
	FieldNames() ([]string, error)

	// SizeBytes reports the on-disk footprint of the index.
	SizeBytes() (int64, error)

	// LastModified reports when index data last changed.
	// Zero time means unknown or empty.
	LastModified() (time.Time, error)

	// Clear removes every document, leaving an empty index.
	Clear(ctx context.Context) error

	// Optimize compacts index segments for faster reads.
	Optimize(ctx context.Context) error

	// Close releases resources. The index is unusable afterwards.
	Close() error
}
