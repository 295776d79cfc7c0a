// Package bleve adapts the document index port to a Bleve full-text
// index backed by the scorch engine. It owns the physical mapping,
// lowers parsed query trees to Bleve queries and hydrates hits from
// stored fields; scoring beyond BM25 stays in the core services.
package bleve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	bleve "github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/index/scorch"
	"github.com/blevesearch/bleve/v2/index/scorch/mergeplan"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/custodia-labs/docfind/internal/core/domain"
	"github.com/custodia-labs/docfind/internal/core/ports/driven"
	"github.com/custodia-labs/docfind/internal/logger"
)

// Ensure Engine implements the interface.
var _ driven.DocumentIndex = (*Engine)(nil)

// facetTermLimit caps distinct values returned per facet field.
const facetTermLimit = 100

// Config configures an Engine.
type Config struct {
	// Path is the index directory. Created when missing.
	Path string

	// Schema declares field behaviour. Zero value means the default
	// document schema.
	Schema domain.Schema

	// SnippetLength caps stored snippets. Zero means the default.
	SnippetLength int
}

// Engine is the Bleve-backed document index. Writes are serialized
// through a mutex; reads run against snapshot state and are never
// blocked by writers.
type Engine struct {
	path       string
	schema     domain.Schema
	mapping    mapping.IndexMapping
	snippetLen int

	mu  sync.RWMutex
	idx bleve.Index
}

// New opens the index at the configured path, creating it when the
// path does not exist yet.
func New(cfg Config) (*Engine, error) {
	schema := cfg.Schema
	if len(schema.Fields()) == 0 {
		schema = domain.DefaultSchema()
	}

	m, err := buildIndexMapping(schema)
	if err != nil {
		return nil, fmt.Errorf("build index mapping: %w", err)
	}

	idx, err := openIndex(cfg.Path, m)
	if err != nil {
		return nil, err
	}

	return &Engine{
		path:       cfg.Path,
		schema:     schema,
		mapping:    m,
		snippetLen: cfg.SnippetLength,
		idx:        idx,
	}, nil
}

// openIndex opens an existing index or creates a fresh scorch index.
func openIndex(path string, m mapping.IndexMapping) (bleve.Index, error) {
	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		logger.Debug("Creating search index at %s", path)
		idx, err = bleve.NewUsing(path, m, scorch.Name, scorch.Name, nil)
		if err != nil {
			return nil, fmt.Errorf("create search index: %w: %v", domain.ErrIndexUnavailable, err)
		}
		return idx, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open search index: %w: %v", domain.ErrIndexUnavailable, err)
	}
	return idx, nil
}

// Index adds or updates a single document.
func (e *Engine) Index(ctx context.Context, doc domain.IndexedDocument) error {
	entry := e.indexEntry(doc)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.idx.Index(doc.ID, entry); err != nil {
		return fmt.Errorf("index document %s: %w", doc.ID, err)
	}
	return nil
}

// IndexBatch adds or updates documents in one atomic batch.
func (e *Engine) IndexBatch(ctx context.Context, docs []domain.IndexedDocument) error {
	if len(docs) == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	batch := e.idx.NewBatch()
	for i := range docs {
		if err := batch.Index(docs[i].ID, e.indexEntry(docs[i])); err != nil {
			return fmt.Errorf("stage document %s: %w", docs[i].ID, err)
		}
	}
	if err := e.idx.Batch(batch); err != nil {
		return fmt.Errorf("commit batch of %d documents: %w", len(docs), err)
	}
	return nil
}

// Delete removes a document by ID, reporting whether it was present.
func (e *Engine) Delete(ctx context.Context, id string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	existing, err := e.idx.Document(id)
	if err != nil {
		return false, fmt.Errorf("look up document %s: %w", id, err)
	}
	if existing == nil {
		return false, nil
	}

	if err := e.idx.Delete(id); err != nil {
		return false, fmt.Errorf("delete document %s: %w", id, err)
	}
	return true, nil
}

// Search executes a plan and returns hydrated hits.
func (e *Engine) Search(ctx context.Context, plan domain.SearchPlan) (*domain.IndexResult, error) {
	req := bleve.NewSearchRequest(translateQuery(e.schema, plan.Query))
	req.Fields = []string{"*"}
	if plan.Size > 0 {
		req.Size = plan.Size
	} else {
		req.Size = 0
	}
	if plan.From > 0 {
		req.From = plan.From
	}
	if len(plan.Sort) > 0 {
		req.SortBy(sortFields(e.schema, plan.Sort))
	}
	for _, field := range plan.FacetFields {
		req.AddFacet(field, bleve.NewFacetRequest(field, facetTermLimit))
	}

	res, err := e.index().SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	out := &domain.IndexResult{
		Total: int(res.Total),
		Hits:  make([]domain.Hit, 0, len(res.Hits)),
	}
	for _, h := range res.Hits {
		out.Hits = append(out.Hits, hydrateHit(h.ID, h.Score, h.Fields))
	}
	if len(res.Facets) > 0 {
		out.Facets = make(map[string]map[string]int, len(res.Facets))
		for field, facet := range res.Facets {
			counts := make(map[string]int)
			for _, term := range facet.Terms.Terms() {
				counts[term.Term] = term.Count
			}
			out.Facets[field] = counts
		}
	}
	return out, nil
}

// Document fetches one document's stored fields by ID.
func (e *Engine) Document(ctx context.Context, id string) (*domain.Hit, error) {
	req := bleve.NewSearchRequest(bleve.NewDocIDQuery([]string{id}))
	req.Fields = []string{"*"}

	res, err := e.index().SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w", id, err)
	}
	if len(res.Hits) == 0 {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	hit := hydrateHit(res.Hits[0].ID, res.Hits[0].Score, res.Hits[0].Fields)
	return &hit, nil
}

// Count returns the number of indexed documents.
func (e *Engine) Count() (int, error) {
	count, err := e.index().DocCount()
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return int(count), nil
}

// FieldNames returns the schema-visible fields present in the index.
func (e *Engine) FieldNames() ([]string, error) {
	fields, err := e.index().Fields()
	if err != nil {
		return nil, fmt.Errorf("list index fields: %w", err)
	}

	names := make([]string, 0, len(fields))
	for _, name := range fields {
		if strings.HasPrefix(name, "_") || strings.HasSuffix(name, sortSuffix) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// SizeBytes reports the on-disk footprint of the index directory.
func (e *Engine) SizeBytes() (int64, error) {
	var total int64
	err := filepath.Walk(e.path, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("measure index size: %w", err)
	}
	return total, nil
}

// LastModified reports the newest file change under the index
// directory. Zero time means the directory is missing or empty.
func (e *Engine) LastModified() (time.Time, error) {
	var last time.Time
	err := filepath.Walk(e.path, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !info.IsDir() && info.ModTime().After(last) {
			last = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("read index timestamps: %w", err)
	}
	return last, nil
}

// Clear removes every document by recreating the index from scratch.
func (e *Engine) Clear(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.idx.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}
	if err := os.RemoveAll(e.path); err != nil {
		return fmt.Errorf("remove index files: %w", err)
	}

	idx, err := openIndex(e.path, e.mapping)
	if err != nil {
		return err
	}
	e.idx = idx
	logger.Info("Recreated empty search index at %s", e.path)
	return nil
}

// Optimize merges index segments down for faster reads. Safe to run
// while readers are active.
func (e *Engine) Optimize(ctx context.Context) error {
	raw, err := e.index().Advanced()
	if err != nil {
		return fmt.Errorf("access index internals: %w", err)
	}

	sc, ok := raw.(*scorch.Scorch)
	if !ok {
		logger.Debug("Index backend %T does not support merging", raw)
		return nil
	}

	start := time.Now()
	if err := sc.ForceMerge(ctx, &mergeplan.SingleSegmentMergePlanOptions); err != nil {
		return fmt.Errorf("merge index segments: %w", err)
	}
	logger.Timing("segment merge", start)
	return nil
}

// Close releases the index. The engine is unusable afterwards.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.idx.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}
	return nil
}

// index returns the current index handle. Reads hold the lock only
// long enough to observe a consistent handle across Clear.
func (e *Engine) index() bleve.Index {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.idx
}

// indexEntry lowers a document to the field map Bleve indexes. The
// secondary fields (snippet, path components, calendar terms, format
// keywords) are derived here so every writer stores them identically.
func (e *Engine) indexEntry(doc domain.IndexedDocument) map[string]interface{} {
	entry := make(map[string]interface{}, 24)
	entry["id"] = doc.ID
	entry["size"] = doc.Size
	entry["score"] = doc.Score

	putString(entry, "path", doc.Path)
	putString(entry, "title", doc.Title)
	putString(entry, "content", doc.Content)
	putString(entry, "description", doc.Description)
	putString(entry, "format", doc.Format)
	putString(entry, "category", doc.Category)
	putString(entry, "status", doc.Status)
	putString(entry, "content_hash", doc.ContentHash)
	putString(entry, "snippet", doc.Snippet(e.snippetLen))
	putString(entry, "title"+sortSuffix, doc.Title)

	putStrings(entry, "tags", doc.Tags)
	putStrings(entry, "path_components", doc.PathComponents())
	putStrings(entry, "keywords", append(append([]string{}, doc.Keywords...), doc.FormatKeywords()...))

	putTime(entry, "created_at", doc.CreatedAt)
	putTime(entry, "modified_at", doc.ModifiedAt)
	putTime(entry, "indexed_at", doc.IndexedAt)

	if stamp := calendarSource(doc); !stamp.IsZero() {
		entry["year"] = padCalendar("year", stamp.Year())
		entry["month"] = padCalendar("month", int(stamp.Month()))
	}

	if len(doc.Metadata) > 0 {
		if raw, err := json.Marshal(doc.Metadata); err == nil {
			entry["metadata_json"] = string(raw)
		} else {
			logger.Warn("Dropping unencodable metadata for %s: %v", doc.ID, err)
		}
	}

	return entry
}

// calendarSource picks the timestamp year/month derive from.
func calendarSource(doc domain.IndexedDocument) time.Time {
	if !doc.ModifiedAt.IsZero() {
		return doc.ModifiedAt
	}
	return doc.CreatedAt
}

func putString(entry map[string]interface{}, key, value string) {
	if value != "" {
		entry[key] = value
	}
}

func putStrings(entry map[string]interface{}, key string, values []string) {
	if len(values) > 0 {
		entry[key] = values
	}
}

func putTime(entry map[string]interface{}, key string, value time.Time) {
	if !value.IsZero() {
		entry[key] = value
	}
}

// hydrateHit rebuilds a hit from Bleve stored fields.
func hydrateHit(id string, score float64, fields map[string]interface{}) domain.Hit {
	hit := domain.Hit{
		DocumentID:  id,
		Score:       score,
		Title:       fieldString(fields, "title"),
		Path:        fieldString(fields, "path"),
		Description: fieldString(fields, "description"),
		Format:      fieldString(fields, "format"),
		Category:    fieldString(fields, "category"),
		Status:      fieldString(fields, "status"),
		Snippet:     fieldString(fields, "snippet"),
		Tags:        fieldStrings(fields, "tags"),
		Size:        int64(fieldFloat(fields, "size")),
		DocScore:    fieldFloat(fields, "score"),
		CreatedAt:   fieldTime(fields, "created_at"),
		ModifiedAt:  fieldTime(fields, "modified_at"),
	}

	if raw := fieldString(fields, "metadata_json"); raw != "" {
		var meta map[string]any
		if err := json.Unmarshal([]byte(raw), &meta); err == nil {
			hit.Metadata = meta
		}
	}
	return hit
}

func fieldString(fields map[string]interface{}, name string) string {
	if s, ok := fields[name].(string); ok {
		return s
	}
	return ""
}

// fieldStrings reads a multi-valued stored field. Bleve returns a
// bare string when the document stored a single value.
func fieldStrings(fields map[string]interface{}, name string) []string {
	switch v := fields[name].(type) {
	case string:
		return []string{v}
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func fieldFloat(fields map[string]interface{}, name string) float64 {
	if f, ok := fields[name].(float64); ok {
		return f
	}
	return 0
}

// fieldTime parses a stored datetime, which Bleve returns in RFC3339.
func fieldTime(fields map[string]interface{}, name string) time.Time {
	s, ok := fields[name].(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
