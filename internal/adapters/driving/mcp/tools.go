package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docfind/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query  string `json:"query" jsonschema:"the search query, supports field:value filters, quoted phrases and AND/OR/NOT"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	Sort   string `json:"sort,omitempty" jsonschema:"sort order: relevance, date, modified, created, size or title"`
	Facets bool   `json:"facets,omitempty" jsonschema:"include per-field value counts in the response"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput      `json:"results"`
	Total   int                       `json:"total"`
	Facets  map[string]map[string]int `json:"facets,omitempty"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	DocumentID string   `json:"document_id"`
	Title      string   `json:"title"`
	Path       string   `json:"path"`
	Format     string   `json:"format,omitempty"`
	Score      float64  `json:"score"`
	Snippet    string   `json:"snippet,omitempty"`
	Highlights []string `json:"highlights,omitempty"`
}

// SuggestInput is the input schema for the suggest tool.
type SuggestInput struct {
	Partial string `json:"partial" jsonschema:"the partial query to complete, empty returns popular searches"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of suggestions to return (default 10)"`
}

// SuggestOutput is the output schema for the suggest tool.
type SuggestOutput struct {
	Suggestions []SuggestionOutput `json:"suggestions"`
}

// SuggestionOutput represents a single completion.
type SuggestionOutput struct {
	Text      string `json:"text"`
	Source    string `json:"source"`
	Frequency int    `json:"frequency,omitempty"`
}

// StatsInput is the input schema for the stats tool. It takes no arguments.
type StatsInput struct{}

// StatsOutput is the output schema for the stats tool.
type StatsOutput struct {
	DocumentCount   int      `json:"document_count"`
	SizeBytes       int64    `json:"size_bytes"`
	Fields          []string `json:"fields,omitempty"`
	LastModified    string   `json:"last_modified,omitempty"`
	SuggestionCount int      `json:"suggestion_count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search across all indexed documents",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "suggest",
		Description: "Complete a partial search query",
	}, s.handleSuggest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "stats",
		Description: "Report index and suggestion catalog statistics",
	}, s.handleStats)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	opts := domain.SearchOptions{
		Limit:     limit,
		SortBy:    input.Sort,
		Facets:    input.Facets,
		Highlight: true,
	}
	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results.Hits)),
		Total:   results.Total,
		Facets:  results.Facets,
	}

	for i := range results.Hits {
		hit := &results.Hits[i]
		output.Results[i] = SearchResultOutput{
			DocumentID: hit.DocumentID,
			Title:      hit.Title,
			Path:       hit.Path,
			Format:     hit.Format,
			Score:      hit.Score,
			Snippet:    hit.Snippet,
			Highlights: hit.Highlights,
		}
	}

	return nil, output, nil
}

// handleSuggest handles the suggest tool invocation.
func (s *Server) handleSuggest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SuggestInput,
) (*mcp.CallToolResult, SuggestOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	suggestions, err := s.ports.Search.Suggest(ctx, input.Partial, limit)
	if err != nil {
		return nil, SuggestOutput{}, err
	}

	output := SuggestOutput{
		Suggestions: make([]SuggestionOutput, len(suggestions)),
	}
	for i, sug := range suggestions {
		output.Suggestions[i] = SuggestionOutput{
			Text:      sug.Text,
			Source:    sug.Source,
			Frequency: sug.Frequency,
		}
	}

	return nil, output, nil
}

// handleStats handles the stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, StatsOutput, error) {
	stats, err := s.ports.Search.Stats(ctx)
	if err != nil {
		return nil, StatsOutput{}, err
	}

	return nil, statsOutput(stats), nil
}

// statsOutput maps index statistics to the wire shape shared by the
// stats tool and the stats resource.
func statsOutput(stats *domain.IndexStats) StatsOutput {
	out := StatsOutput{
		DocumentCount:   stats.DocumentCount,
		SizeBytes:       stats.SizeBytes,
		Fields:          stats.Fields,
		SuggestionCount: stats.SuggestionCount,
	}
	if !stats.LastModified.IsZero() {
		out.LastModified = stats.LastModified.Format(time.RFC3339)
	}
	return out
}
