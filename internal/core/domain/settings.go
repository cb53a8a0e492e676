package domain

import "time"

const unknownDescription = "Unknown"

// DriveProvider identifies the remote drive implementation.
type DriveProvider string

// Available drive providers.
const (
	// DriveProviderGraph is a SharePoint document library via Microsoft Graph.
	DriveProviderGraph DriveProvider = "graph"

	// DriveProviderGoogle is a Google Drive folder via the Drive changes API.
	DriveProviderGoogle DriveProvider = "google"
)

// IsValid returns true if the drive provider is recognised.
func (p DriveProvider) IsValid() bool {
	switch p {
	case DriveProviderGraph, DriveProviderGoogle:
		return true
	default:
		return false
	}
}

// Description returns a human-readable description of the provider.
func (p DriveProvider) Description() string {
	switch p {
	case DriveProviderGraph:
		return "SharePoint (Microsoft Graph)"
	case DriveProviderGoogle:
		return "Google Drive"
	default:
		return unknownDescription
	}
}

// BlobBackend identifies where original file bytes are kept.
type BlobBackend string

// Available blob backends.
const (
	BlobBackendFilesystem BlobBackend = "filesystem"
	BlobBackendGCS        BlobBackend = "gcs"
)

// AIProvider identifies an AI service provider for enrichment.
type AIProvider string

// Available AI providers.
const (
	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	return p == AIProviderAnthropic
}

// WatcherSettings configures the delta-sync watcher.
type WatcherSettings struct {
	// Autostart starts the watcher when the server starts.
	Autostart bool

	// PollInterval is the time between scheduled polls.
	PollInterval time.Duration

	// FileDelay is the pause between processed files within one poll.
	FileDelay time.Duration

	// CallTimeout bounds each remote call (listing, download).
	CallTimeout time.Duration
}

// GraphSettings configures the Microsoft Graph drive.
type GraphSettings struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	SiteURL      string
	Library      string
	WatchFolder  string
}

// IsConfigured returns true if credentials and site are set.
func (g GraphSettings) IsConfigured() bool {
	return g.TenantID != "" && g.ClientID != "" && g.ClientSecret != "" && g.SiteURL != ""
}

// GoogleSettings configures the Google Drive drive.
type GoogleSettings struct {
	// CredentialsFile is a service account JSON key.
	CredentialsFile string

	// FolderID restricts ingestion to one folder. Empty means the whole drive.
	FolderID string
}

// DriveSettings selects and configures the remote drive.
type DriveSettings struct {
	Provider DriveProvider
	Graph    GraphSettings
	Google   GoogleSettings
}

// ExtractionSettings tunes the extraction pipeline.
type ExtractionSettings struct {
	// MinTextLength is the trimmed text length a PDF text layer must exceed.
	MinTextLength int

	// MinEmbeddedImageBytes is the smallest embedded JPEG considered a page scan.
	MinEmbeddedImageBytes int

	// RasterDPI is the resolution used to render PDF pages for OCR.
	RasterDPI int

	// OCRLanguage is passed to the OCR engine.
	OCRLanguage string

	// OCRTimeout bounds a single OCR invocation.
	OCRTimeout time.Duration

	// MaxImageDimension downsizes images before OCR. Zero disables it.
	MaxImageDimension int

	// TempDir holds OCR scratch files. Empty uses the system default.
	TempDir string
}

// StorageSettings configures persistence.
type StorageSettings struct {
	DataDir   string
	Blob      BlobBackend
	GCSBucket string
}

// EnrichmentSettings holds LLM provider configuration.
type EnrichmentSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// APIKey is the API key.
	APIKey string
}

// IsConfigured returns true if the enrichment provider is set up.
func (e EnrichmentSettings) IsConfigured() bool {
	return e.Provider.IsValid() && e.APIKey != ""
}

// HTTPSettings configures the HTTP surface.
type HTTPSettings struct {
	Addr        string
	MaxUploadMB int
}

// InboxSettings configures the drop-folder ingestion.
type InboxSettings struct {
	// Dir is the watched folder. Empty disables the inbox.
	Dir string
}

// AppSettings is the complete application configuration.
type AppSettings struct {
	Watcher    WatcherSettings
	Drive      DriveSettings
	Extraction ExtractionSettings
	Storage    StorageSettings
	Enrichment EnrichmentSettings
	HTTP       HTTPSettings
	Inbox      InboxSettings
}

// DefaultAppSettings returns the defaults used when configuration is silent.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Watcher: WatcherSettings{
			PollInterval: 5 * time.Minute,
			FileDelay:    15 * time.Second,
			CallTimeout:  2 * time.Minute,
		},
		Drive: DriveSettings{
			Provider: DriveProviderGraph,
			Graph: GraphSettings{
				Library:     "Shared Documents",
				WatchFolder: "FSA - State Committee",
			},
		},
		Extraction: ExtractionSettings{
			MinTextLength:         20,
			MinEmbeddedImageBytes: 5 * 1024,
			RasterDPI:             300,
			OCRLanguage:           "eng",
			OCRTimeout:            2 * time.Minute,
			MaxImageDimension:     4000,
		},
		Storage: StorageSettings{
			Blob: BlobBackendFilesystem,
		},
		Enrichment: EnrichmentSettings{
			Provider: AIProviderAnthropic,
		},
		HTTP: HTTPSettings{
			Addr:        ":8080",
			MaxUploadMB: 50,
		},
	}
}
