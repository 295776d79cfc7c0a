package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docfind/internal/core/domain"
)

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleStatsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns statistics as JSON", func(t *testing.T) {
		mockSearch := &mockSearchService{
			stats: &domain.IndexStats{
				DocumentCount:   42,
				SizeBytes:       2048,
				Fields:          []string{"title", "content", "tags"},
				LastModified:    time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
				SuggestionCount: 7,
			},
		}

		ports := &Ports{Search: mockSearch}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("docfind://stats")
		result, err := server.handleStatsResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "docfind://stats", result.Contents[0].URI)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, `"document_count": 42`)
		assert.Contains(t, result.Contents[0].Text, `"size_bytes": 2048`)
		assert.Contains(t, result.Contents[0].Text, `"suggestion_count": 7`)
		assert.Contains(t, result.Contents[0].Text, "2024-06-01T12:00:00Z")
	})

	t.Run("returns error on stats failure", func(t *testing.T) {
		mockSearch := &mockSearchService{
			err: errors.New("index unavailable"),
		}

		ports := &Ports{Search: mockSearch}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("docfind://stats")
		_, err = server.handleStatsResource(ctx, req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading index stats")
	})
}
