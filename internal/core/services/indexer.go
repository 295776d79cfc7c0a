package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/docfind/internal/core/domain"
	"github.com/custodia-labs/docfind/internal/core/ports/driven"
	"github.com/custodia-labs/docfind/internal/core/ports/driving"
	"github.com/custodia-labs/docfind/internal/logger"
)

// Ensure IndexerService implements the interface.
var _ driving.IndexerService = (*IndexerService)(nil)

// IndexerService manages document ingestion into the search index.
type IndexerService struct {
	index       driven.DocumentIndex
	suggestions *SuggestionEngine
	settings    driving.SettingsService
	now         func() time.Time
}

// NewIndexerService creates a new indexer service.
// The suggestions engine and settings service are optional (can be nil).
func NewIndexerService(
	index driven.DocumentIndex,
	suggestions *SuggestionEngine,
	settings driving.SettingsService,
) *IndexerService {
	return &IndexerService{
		index:       index,
		suggestions: suggestions,
		settings:    settings,
		now:         time.Now,
	}
}

// IndexDocument adds or updates one document. Indexing the same ID
// again replaces the previous entry.
func (s *IndexerService) IndexDocument(ctx context.Context, doc domain.IndexedDocument) error {
	if doc.ID == "" {
		return fmt.Errorf("index document: %w: missing document id", domain.ErrInvalidInput)
	}

	if doc.IndexedAt.IsZero() {
		doc.IndexedAt = s.now()
	}

	if err := s.index.Index(ctx, doc); err != nil {
		return fmt.Errorf("index document %s: %w", doc.ID, err)
	}
	logger.Debug("Indexed document: %s", doc.ID)

	if s.suggestions != nil {
		s.suggestions.RecordDocument(ctx, doc)
	}

	return nil
}

// IndexDocuments adds or updates documents in batches. Each batch
// commits independently, so documents from completed batches stay
// visible even when a later batch fails. Returns how many documents
// were accepted.
func (s *IndexerService) IndexDocuments(ctx context.Context, docs []domain.IndexedDocument) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	start := time.Now()
	batchSize := s.batchSize()
	indexed := 0

	for start := 0; start < len(docs); start += batchSize {
		end := start + batchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[start:end]

		for i := range batch {
			if batch[i].ID == "" {
				return indexed, fmt.Errorf("index documents: %w: missing document id", domain.ErrInvalidInput)
			}
			if batch[i].IndexedAt.IsZero() {
				batch[i].IndexedAt = s.now()
			}
		}

		if err := s.index.IndexBatch(ctx, batch); err != nil {
			return indexed, fmt.Errorf("index batch: %w", err)
		}
		indexed += len(batch)
		logger.Info("Indexed %d/%d documents", indexed, len(docs))

		if s.suggestions != nil {
			for i := range batch {
				s.suggestions.RecordDocument(ctx, batch[i])
			}
		}
	}

	logger.Info("Indexed %d documents total", indexed)
	logger.Timing("batch indexing", start)
	return indexed, nil
}

// DeleteDocument removes a document by ID. Returns false when the ID
// was not indexed; that is not an error.
func (s *IndexerService) DeleteDocument(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("delete document: %w: missing document id", domain.ErrInvalidInput)
	}

	found, err := s.index.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete document %s: %w", id, err)
	}

	// The suggestion catalog is intentionally left untouched: the
	// frequencies learned from this document's title and tags are
	// not decremented on delete.
	if found {
		logger.Debug("Deleted document from index: %s", id)
	}

	return found, nil
}

// ClearIndex removes every document and resets the suggestion catalog.
func (s *IndexerService) ClearIndex(ctx context.Context) error {
	if err := s.index.Clear(ctx); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	logger.Info("Cleared document index")

	if s.suggestions != nil {
		if err := s.suggestions.Clear(ctx); err != nil {
			return fmt.Errorf("clear suggestions: %w", err)
		}
	}

	return nil
}

// Optimize compacts index segments for faster reads.
func (s *IndexerService) Optimize(ctx context.Context) error {
	if err := s.index.Optimize(ctx); err != nil {
		return fmt.Errorf("optimize index: %w", err)
	}
	logger.Info("Optimized document index")
	return nil
}

// batchSize resolves the batch size from settings, falling back to
// the default when settings are unavailable.
func (s *IndexerService) batchSize() int {
	if s.settings != nil {
		if cfg, err := s.settings.Get(); err == nil && cfg.Index.BatchSize > 0 {
			return cfg.Index.BatchSize
		}
	}
	return domain.DefaultAppSettings().Index.BatchSize
}
