package msgraph

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
)

const (
	// DefaultBaseURL is the Graph v1.0 endpoint.
	DefaultBaseURL = "https://graph.microsoft.com/v1.0"

	// DefaultScope requests the application's configured permissions.
	DefaultScope = "https://graph.microsoft.com/.default"

	// tokenURLTemplate is the tenant's v2 token endpoint.
	tokenURLTemplate = "https://login.microsoftonline.com/%s/oauth2/v2.0/token"

	// FallbackLibrary is the drive name Graph reports for "Shared Documents".
	FallbackLibrary = "Documents"

	// DefaultMaxDownloadBytes bounds a single file download.
	DefaultMaxDownloadBytes = 100 << 20
)

// Config holds the SharePoint drive configuration.
type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string

	// SiteURL is the SharePoint site, e.g. https://contoso.sharepoint.com/sites/fsa.
	SiteURL string

	// Library is the document library name.
	Library string

	// WatchFolder is the folder path within the library. Empty watches the library root.
	WatchFolder string

	// BaseURL overrides DefaultBaseURL.
	BaseURL string

	// TokenURL overrides the tenant token endpoint.
	TokenURL string

	// HTTPClient is used for token, API and download requests. Nil uses http.DefaultClient.
	HTTPClient *http.Client

	// MaxDownloadBytes bounds a single download. Zero uses DefaultMaxDownloadBytes.
	MaxDownloadBytes int64
}

// ConfigFromSettings builds a Config from application settings.
func ConfigFromSettings(s domain.GraphSettings) Config {
	return Config{
		TenantID:     s.TenantID,
		ClientID:     s.ClientID,
		ClientSecret: s.ClientSecret,
		SiteURL:      s.SiteURL,
		Library:      s.Library,
		WatchFolder:  s.WatchFolder,
	}
}

// Validate checks that credentials and the site are present.
func (c Config) Validate() error {
	var missing []string
	if c.TenantID == "" {
		missing = append(missing, "tenant ID")
	}
	if c.ClientID == "" {
		missing = append(missing, "client ID")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "client secret")
	}
	if c.SiteURL == "" {
		missing = append(missing, "site URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrNotConfigured, strings.Join(missing, ", "))
	}

	u, err := url.Parse(c.SiteURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%w: invalid site URL %q", ErrNotConfigured, c.SiteURL)
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	if c.TokenURL == "" {
		c.TokenURL = fmt.Sprintf(tokenURLTemplate, url.PathEscape(c.TenantID))
	}
	if c.Library == "" {
		c.Library = "Shared Documents"
	}
	c.WatchFolder = strings.Trim(c.WatchFolder, "/")
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.MaxDownloadBytes <= 0 {
		c.MaxDownloadBytes = DefaultMaxDownloadBytes
	}
	return c
}
