package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteCmd_Use(t *testing.T) {
	assert.Equal(t, "delete [document-id...]", deleteCmd.Use)
}

func TestDeleteCmd_Short(t *testing.T) {
	assert.Equal(t, "Remove documents from the index", deleteCmd.Short)
}

func TestDeleteCmd_RequiresAtLeastOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"delete"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestDeleteCmd_DeletesEachArgument(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := &mockIndexerService{}
	indexerService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"delete", "doc-1", "doc-2"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Deleted doc-1.")
	assert.Contains(t, buf.String(), "Deleted doc-2.")
	assert.Equal(t, []string{"doc-1", "doc-2"}, mock.deleted)
}

func TestDeleteCmd_ReportsUnindexedIDs(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := &mockIndexerService{notFound: map[string]bool{"ghost": true}}
	indexerService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"delete", "doc-1", "ghost"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Deleted doc-1.")
	assert.Contains(t, buf.String(), "Not indexed: ghost.")
}

func TestDeleteCmd_ServiceNotConfigured(t *testing.T) {
	oldService := indexerService
	indexerService = nil
	defer func() {
		indexerService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"delete", "doc-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "indexer service not configured")
}

func TestDeleteCmd_ServiceError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	indexerService = &mockIndexerService{err: assert.AnError}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"delete", "doc-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "delete failed")
}
