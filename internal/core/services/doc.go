// Package services implements the driving port interfaces: query
// parsing, relevance ranking, faceting, suggestions and the search
// and indexer orchestrators. Services contain the core business
// logic and reach the index and stores only through driven ports.
package services
