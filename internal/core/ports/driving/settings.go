package driving

import "github.com/custodia-labs/fieldarchive/internal/core/domain"

// SettingsService provides the effective application settings.
type SettingsService interface {
	// Get returns the settings after defaults and environment overrides.
	Get() (*domain.AppSettings, error)

	// Validate checks that the selected drive provider is configured.
	Validate(settings *domain.AppSettings) error
}
