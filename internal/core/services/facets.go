package services

import (
	"github.com/custodia-labs/docfind/internal/core/domain"
	"github.com/custodia-labs/docfind/internal/logger"
)

// FacetEngine decides which fields may be faceted and tidies the raw
// counts the index returns. Counting itself happens inside the index
// over the already-constrained match set; no extra filtering is
// applied here.
type FacetEngine struct {
	schema domain.Schema
	parser *QueryParser
}

// NewFacetEngine creates a facet engine bound to a schema.
func NewFacetEngine(schema domain.Schema, parser *QueryParser) *FacetEngine {
	return &FacetEngine{schema: schema, parser: parser}
}

// Fields returns the facet fields for a query: the default set plus
// fields referenced in the query, restricted to keyword and numeric
// schema fields.
func (f *FacetEngine) Fields(queryString string) []string {
	requested := f.parser.ExtractFacetFields(queryString)

	fields := make([]string, 0, len(requested))
	for _, field := range requested {
		if !f.schema.Facetable(field) {
			logger.Debug("Skipping unfacetable field %q", field)
			continue
		}
		fields = append(fields, field)
	}
	return fields
}

// Allowed filters an explicit facet field list down to the fields
// the schema can facet, deduplicated, preserving order.
func (f *FacetEngine) Allowed(fields []string) []string {
	seen := make(map[string]bool, len(fields))
	allowed := make([]string, 0, len(fields))
	for _, field := range fields {
		if seen[field] {
			continue
		}
		seen[field] = true
		if !f.schema.Facetable(field) {
			logger.Warn("Ignoring unfacetable field %q", field)
			continue
		}
		allowed = append(allowed, field)
	}
	return allowed
}

// Clean drops facet groups with no observed values.
func (f *FacetEngine) Clean(facets map[string]map[string]int) map[string]map[string]int {
	if len(facets) == 0 {
		return nil
	}

	cleaned := make(map[string]map[string]int, len(facets))
	for field, counts := range facets {
		if len(counts) == 0 {
			continue
		}
		cleaned[field] = counts
	}
	if len(cleaned) == 0 {
		return nil
	}
	return cleaned
}
