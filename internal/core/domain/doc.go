// Package domain defines the core business entities for docfind.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - IndexedDocument: A document record as stored in the search index
//   - Schema: Field behaviour declarations for the index
//   - Query: The parsed query tree (terms, phrases, booleans, ranges)
//   - SearchResult: An executed search with hits, facets and suggestions
//   - SuggestionEntry: An autocomplete catalog entry
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
