package driving

import "github.com/custodia-labs/docfind/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetDefaultSort updates the default result ordering.
	SetDefaultSort(order domain.SortOrder) error

	// SetDefaultLimit updates the default result window size.
	SetDefaultLimit(limit int) error

	// SetPreferredFormats updates the formats boosted during ranking.
	SetPreferredFormats(formats []string) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
