package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// SnippetLength is the default maximum length of a stored snippet.
const SnippetLength = 200

// IndexedDocument is the unit the search index stores per record.
// It is the canonical representation handed over by the document
// pipeline; the indexer derives the secondary fields (snippet, path
// components, year/month, format keywords) before writing postings.
type IndexedDocument struct {
	// ID is the unique identifier. Immutable once assigned;
	// re-indexing the same ID replaces the previous entry.
	ID string

	// Path is the original location of the document.
	Path string

	// Title is the human-readable title. Carries a higher relevance
	// weight than body content.
	Title string

	// Content is the full text. Analyzed and searchable but not
	// stored verbatim; only the derived snippet is retrievable.
	Content string

	// Description is an optional searchable summary.
	Description string

	// Format is the document format (markdown, code, text, json, yaml).
	// Exact-match keyword, case-folded.
	Format string

	// Category is an optional grouping keyword.
	Category string

	// Status is the document lifecycle state (e.g. active, archived).
	Status string

	// Tags are exact-match keywords, multi-valued.
	Tags []string

	// Keywords are derived searchable terms from format-specific
	// metadata (markdown headings, code symbols). They boost recall
	// without polluting the content field.
	Keywords []string

	// ContentHash identifies the content for duplicate detection.
	ContentHash string

	// Size is the document size in bytes.
	Size int64

	// Score is a precomputed popularity score in [0, 1] used as a
	// mild ranking boost.
	Score float64

	// CreatedAt is when the document was created.
	CreatedAt time.Time

	// ModifiedAt is when the document was last modified.
	ModifiedAt time.Time

	// IndexedAt is when the document was last written to the index.
	// Zero value means "now" at index time.
	IndexedAt time.Time

	// Metadata is an opaque caller blob, stored as JSON, never searched.
	Metadata map[string]any
}

// Snippet returns a display excerpt of the content, truncated at a
// word boundary when one falls in the last fifth of the window.
func (d IndexedDocument) Snippet(maxLength int) string {
	if maxLength <= 0 {
		maxLength = SnippetLength
	}
	if len(d.Content) <= maxLength {
		return d.Content
	}

	snippet := d.Content[:maxLength]
	if last := strings.LastIndex(snippet, " "); last > maxLength*4/5 {
		snippet = snippet[:last]
	}
	return snippet + "..."
}

// PathComponents splits the path into its hierarchical parts for
// component-level keyword search.
func (d IndexedDocument) PathComponents() []string {
	if d.Path == "" {
		return nil
	}

	clean := filepath.ToSlash(filepath.Clean(d.Path))
	parts := strings.Split(strings.Trim(clean, "/"), "/")

	components := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" && p != "." {
			components = append(components, p)
		}
	}
	return components
}

// FormatKeywords extracts extra searchable terms from format-specific
// metadata. Markdown contributes heading texts, code contributes
// function and class names. Other formats contribute nothing.
func (d IndexedDocument) FormatKeywords() []string {
	if len(d.Metadata) == 0 {
		return nil
	}

	switch strings.ToLower(d.Format) {
	case "markdown":
		return metadataStrings(d.Metadata, "headers", 20)
	case "code":
		keywords := metadataStrings(d.Metadata, "functions", 10)
		return append(keywords, metadataStrings(d.Metadata, "classes", 10)...)
	default:
		return nil
	}
}

// metadataStrings pulls up to max string values from a metadata list
// entry. Entries may be plain strings or maps carrying a "text" key
// (the shape markdown extractors emit for headings).
func metadataStrings(metadata map[string]any, key string, max int) []string {
	raw, ok := metadata[key]
	if !ok {
		return nil
	}

	list, ok := raw.([]any)
	if !ok {
		return nil
	}

	var values []string
	for _, item := range list {
		if len(values) >= max {
			break
		}
		switch v := item.(type) {
		case string:
			if v != "" {
				values = append(values, v)
			}
		case map[string]any:
			if text, ok := v["text"].(string); ok && text != "" {
				values = append(values, text)
			}
		}
	}
	return values
}
