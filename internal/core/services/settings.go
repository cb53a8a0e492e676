package services

import (
	"fmt"
	"os"
	"time"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
	"github.com/custodia-labs/fieldarchive/internal/core/ports/driven"
	"github.com/custodia-labs/fieldarchive/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyWatcherAutostart    = "watcher.autostart"
	keyWatcherPollInterval = "watcher.poll_interval"
	keyWatcherFileDelay    = "watcher.file_delay"
	keyWatcherCallTimeout  = "watcher.call_timeout"
	keyDriveProvider       = "drive.provider"
	keyGraphTenantID       = "drive.graph.tenant_id"
	keyGraphClientID       = "drive.graph.client_id"
	keyGraphClientSecret   = "drive.graph.client_secret"
	keyGraphSiteURL        = "drive.graph.site_url"
	keyGraphLibrary        = "drive.graph.library"
	keyGraphWatchFolder    = "drive.graph.watch_folder"
	keyGoogleCredentials   = "drive.google.credentials_file"
	keyGoogleFolderID      = "drive.google.folder_id"
	keyMinTextLength       = "extraction.min_text_length"
	keyMinEmbeddedImage    = "extraction.min_embedded_image_bytes"
	keyRasterDPI           = "extraction.raster_dpi"
	keyOCRLanguage         = "extraction.ocr_language"
	keyOCRTimeout          = "extraction.ocr_timeout"
	keyMaxImageDimension   = "extraction.max_image_dimension"
	keyExtractionTempDir   = "extraction.temp_dir"
	keyStorageDataDir      = "storage.data_dir"
	keyStorageBlob         = "storage.blob"
	keyStorageGCSBucket    = "storage.gcs_bucket"
	keyEnrichmentProvider  = "enrichment.provider"
	keyEnrichmentModel     = "enrichment.model"
	keyEnrichmentBaseURL   = "enrichment.base_url"
	keyEnrichmentAPIKey    = "enrichment.api_key"
	keyHTTPAddr            = "http.addr"
	keyHTTPMaxUploadMB     = "http.max_upload_mb"
	keyInboxDir            = "inbox.dir"
)

// envOverrides maps environment variables onto config keys.
// Environment values take precedence over the config file.
var envOverrides = map[string]string{
	"MICROSOFT_TENANT_ID":            keyGraphTenantID,
	"MICROSOFT_CLIENT_ID":            keyGraphClientID,
	"MICROSOFT_CLIENT_SECRET":        keyGraphClientSecret,
	"SHAREPOINT_SITE_URL":            keyGraphSiteURL,
	"SHAREPOINT_LIBRARY":             keyGraphLibrary,
	"SHAREPOINT_WATCH_FOLDER":        keyGraphWatchFolder,
	"GOOGLE_APPLICATION_CREDENTIALS": keyGoogleCredentials,
	"ANTHROPIC_API_KEY":              keyEnrichmentAPIKey,
}

// SettingsService reads application settings from the config store,
// applying environment overrides and defaults.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service reading the process environment.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Watcher: domain.WatcherSettings{
			Autostart:    s.getBool(keyWatcherAutostart, d.Watcher.Autostart),
			PollInterval: s.getDuration(keyWatcherPollInterval, d.Watcher.PollInterval),
			FileDelay:    s.getDuration(keyWatcherFileDelay, d.Watcher.FileDelay),
			CallTimeout:  s.getDuration(keyWatcherCallTimeout, d.Watcher.CallTimeout),
		},
		Drive: domain.DriveSettings{
			Provider: s.getDriveProvider(d.Drive.Provider),
			Graph: domain.GraphSettings{
				TenantID:     s.getString(keyGraphTenantID, ""),
				ClientID:     s.getString(keyGraphClientID, ""),
				ClientSecret: s.getString(keyGraphClientSecret, ""),
				SiteURL:      s.getString(keyGraphSiteURL, ""),
				Library:      s.getString(keyGraphLibrary, d.Drive.Graph.Library),
				WatchFolder:  s.getString(keyGraphWatchFolder, d.Drive.Graph.WatchFolder),
			},
			Google: domain.GoogleSettings{
				CredentialsFile: s.getString(keyGoogleCredentials, ""),
				FolderID:        s.getString(keyGoogleFolderID, ""),
			},
		},
		Extraction: domain.ExtractionSettings{
			MinTextLength:         s.getInt(keyMinTextLength, d.Extraction.MinTextLength),
			MinEmbeddedImageBytes: s.getInt(keyMinEmbeddedImage, d.Extraction.MinEmbeddedImageBytes),
			RasterDPI:             s.getInt(keyRasterDPI, d.Extraction.RasterDPI),
			OCRLanguage:           s.getString(keyOCRLanguage, d.Extraction.OCRLanguage),
			OCRTimeout:            s.getDuration(keyOCRTimeout, d.Extraction.OCRTimeout),
			MaxImageDimension:     s.getInt(keyMaxImageDimension, d.Extraction.MaxImageDimension),
			TempDir:               s.getString(keyExtractionTempDir, ""),
		},
		Storage: domain.StorageSettings{
			DataDir:   s.getString(keyStorageDataDir, ""),
			Blob:      domain.BlobBackend(s.getString(keyStorageBlob, string(d.Storage.Blob))),
			GCSBucket: s.getString(keyStorageGCSBucket, ""),
		},
		Enrichment: domain.EnrichmentSettings{
			Provider: s.getAIProvider(d.Enrichment.Provider),
			Model:    s.getString(keyEnrichmentModel, ""),
			BaseURL:  s.getString(keyEnrichmentBaseURL, ""),
			APIKey:   s.getString(keyEnrichmentAPIKey, ""),
		},
		HTTP: domain.HTTPSettings{
			Addr:        s.getString(keyHTTPAddr, d.HTTP.Addr),
			MaxUploadMB: s.getInt(keyHTTPMaxUploadMB, d.HTTP.MaxUploadMB),
		},
		Inbox: domain.InboxSettings{
			Dir: s.getString(keyInboxDir, ""),
		},
	}

	return settings, nil
}

// Validate checks that the selected drive provider is configured.
func (s *SettingsService) Validate(settings *domain.AppSettings) error {
	switch settings.Drive.Provider {
	case domain.DriveProviderGraph:
		if !settings.Drive.Graph.IsConfigured() {
			return fmt.Errorf("%w: graph drive needs tenant_id, client_id, client_secret and site_url",
				domain.ErrInvalidInput)
		}
	case domain.DriveProviderGoogle:
		if settings.Drive.Google.CredentialsFile == "" {
			return fmt.Errorf("%w: google drive needs credentials_file", domain.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown drive provider %q", domain.ErrInvalidInput, settings.Drive.Provider)
	}
	if settings.Storage.Blob == domain.BlobBackendGCS && settings.Storage.GCSBucket == "" {
		return fmt.Errorf("%w: gcs blob storage needs gcs_bucket", domain.ErrInvalidInput)
	}
	return nil
}

// Helper methods for reading config with defaults.

// lookup returns the environment override for key, if any.
func (s *SettingsService) lookup(key string) string {
	for env, k := range envOverrides {
		if k == key {
			return s.getenv(env)
		}
	}
	return ""
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if v := s.lookup(key); v != "" {
		return v
	}
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetDuration(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getDriveProvider(defaultVal domain.DriveProvider) domain.DriveProvider {
	provider := domain.DriveProvider(s.configStore.GetString(keyDriveProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getAIProvider(defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(keyEnrichmentProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
