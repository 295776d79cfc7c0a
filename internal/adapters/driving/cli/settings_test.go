package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docfind/internal/core/domain"
)

func TestSettingsCmd_Use(t *testing.T) {
	assert.Equal(t, "settings", settingsCmd.Use)
}

func TestSettingsCmd_Short(t *testing.T) {
	assert.Equal(t, "Manage application settings", settingsCmd.Short)
}

func TestSettingsCmd_ShowsAllSections(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "[Index]")
	assert.Contains(t, buf.String(), "[Search]")
	assert.Contains(t, buf.String(), "[Ranking]")
	assert.Contains(t, buf.String(), "[Suggest]")
	assert.Contains(t, buf.String(), "Default limit: 20")
	assert.Contains(t, buf.String(), "Default sort: relevance (Best match first)")
	assert.Contains(t, buf.String(), "Recency boost: yes")
}

func TestSettingsShowCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Current Settings")
}

func TestSettingsGetCmd_KnownKey(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "get", "search.default_limit"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "20")
}

func TestSettingsGetCmd_UnknownKey(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "get", "bogus.key"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown setting: bogus.key")
}

func TestSettingsSetCmd_DefaultSort(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := newMockSettingsService()
	settingsService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "set", "search.default_sort", "modified"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Set search.default_sort = modified")
	assert.Equal(t, domain.SortModified, mock.sortSet)
}

func TestSettingsSetCmd_InvalidSort(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "set", "search.default_sort", "bogus"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set default sort")
}

func TestSettingsSetCmd_DefaultLimit(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := newMockSettingsService()
	settingsService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "set", "search.default_limit", "50"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, 50, mock.limitSet)
}

func TestSettingsSetCmd_PreferredFormats(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := newMockSettingsService()
	settingsService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "set", "ranking.preferred_formats", "markdown,html"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, []string{"markdown", "html"}, mock.formatsSet)
}

func TestSettingsSetCmd_BatchSize(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := newMockSettingsService()
	settingsService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "set", "index.batch_size", "250"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	require.NotNil(t, mock.saved)
	assert.Equal(t, 250, mock.saved.Index.BatchSize)
}

func TestSettingsSetCmd_RecencyBoost(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := newMockSettingsService()
	settingsService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "set", "ranking.recency_boost", "false"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	require.NotNil(t, mock.saved)
	assert.False(t, mock.saved.Ranking.RecencyBoost)
}

func TestSettingsSetCmd_InvalidInteger(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "set", "index.batch_size", "lots"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid value for index.batch_size")
}

func TestSettingsSetCmd_InvalidBool(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "set", "suggest.record_queries", "sometimes"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "use true or false")
}

func TestSettingsSetCmd_UnknownKey(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "set", "bogus.key", "1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown setting: bogus.key")
}

func TestSettingsCmd_ServiceNotConfigured(t *testing.T) {
	oldService := settingsService
	settingsService = nil
	defer func() {
		settingsService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}

// Helper functions.

func TestSettingValue(t *testing.T) {
	settings := domain.DefaultAppSettings()

	tests := []struct {
		key      string
		expected string
	}{
		{key: "index.batch_size", expected: "100"},
		{key: "search.default_limit", expected: "20"},
		{key: "search.max_limit", expected: "100"},
		{key: "search.default_sort", expected: "relevance"},
		{key: "ranking.preferred_formats", expected: "markdown"},
		{key: "ranking.recency_boost", expected: "true"},
		{key: "suggest.max_suggestions", expected: "10"},
		{key: "suggest.record_queries", expected: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			value, ok := settingValue(&settings, tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.expected, value)
		})
	}

	t.Run("unknown key", func(t *testing.T) {
		_, ok := settingValue(&settings, "nope")
		assert.False(t, ok)
	})
}

func TestParsePositiveInt(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		n, err := parsePositiveInt("index.batch_size", "42")
		require.NoError(t, err)
		assert.Equal(t, 42, n)
	})

	t.Run("zero rejected", func(t *testing.T) {
		_, err := parsePositiveInt("index.batch_size", "0")
		assert.Error(t, err)
	})

	t.Run("negative rejected", func(t *testing.T) {
		_, err := parsePositiveInt("index.batch_size", "-3")
		assert.Error(t, err)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := parsePositiveInt("index.batch_size", "many")
		assert.Error(t, err)
	})
}
