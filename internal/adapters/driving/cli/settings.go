package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show application settings",
	Long: `Shows the effective settings after defaults, ~/.fieldarchive/config.toml
and environment overrides are applied. Secrets are masked.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the drive configuration",
	Long:  `Checks that the selected drive provider and blob backend have everything they need.`,
	RunE:  runSettingsCheck,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return notConfigured("settings service")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Watcher]")
	cmd.Printf("  Autostart: %t\n", settings.Watcher.Autostart)
	cmd.Printf("  Poll interval: %s\n", settings.Watcher.PollInterval)
	cmd.Printf("  File delay: %s\n", settings.Watcher.FileDelay)
	cmd.Printf("  Call timeout: %s\n", settings.Watcher.CallTimeout)
	cmd.Println()

	cmd.Println("[Drive]")
	cmd.Printf("  Provider: %s\n", settings.Drive.Provider.Description())
	switch settings.Drive.Provider {
	case domain.DriveProviderGraph:
		g := settings.Drive.Graph
		cmd.Printf("  Tenant ID: %s\n", orNotSet(g.TenantID))
		cmd.Printf("  Client ID: %s\n", orNotSet(g.ClientID))
		cmd.Printf("  Client secret: %s\n", maskSecret(g.ClientSecret))
		cmd.Printf("  Site URL: %s\n", orNotSet(g.SiteURL))
		cmd.Printf("  Library: %s\n", g.Library)
		cmd.Printf("  Watch folder: %s\n", g.WatchFolder)
	case domain.DriveProviderGoogle:
		gd := settings.Drive.Google
		cmd.Printf("  Credentials file: %s\n", orNotSet(gd.CredentialsFile))
		cmd.Printf("  Folder ID: %s\n", orNotSet(gd.FolderID))
	}
	cmd.Println()

	cmd.Println("[Extraction]")
	cmd.Printf("  Min text length: %d\n", settings.Extraction.MinTextLength)
	cmd.Printf("  Min embedded image bytes: %d\n", settings.Extraction.MinEmbeddedImageBytes)
	cmd.Printf("  Raster DPI: %d\n", settings.Extraction.RasterDPI)
	cmd.Printf("  OCR language: %s\n", settings.Extraction.OCRLanguage)
	cmd.Printf("  OCR timeout: %s\n", settings.Extraction.OCRTimeout)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Data dir: %s\n", orDefault(settings.Storage.DataDir))
	cmd.Printf("  Blob backend: %s\n", settings.Storage.Blob)
	if settings.Storage.Blob == domain.BlobBackendGCS {
		cmd.Printf("  GCS bucket: %s\n", orNotSet(settings.Storage.GCSBucket))
	}
	cmd.Println()

	cmd.Println("[Enrichment]")
	cmd.Printf("  Provider: %s\n", settings.Enrichment.Provider)
	cmd.Printf("  Model: %s\n", orDefault(settings.Enrichment.Model))
	cmd.Printf("  API Key: %s\n", maskSecret(settings.Enrichment.APIKey))
	status := "configured"
	if !settings.Enrichment.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[HTTP]")
	cmd.Printf("  Address: %s\n", settings.HTTP.Addr)
	cmd.Printf("  Max upload: %d MB\n", settings.HTTP.MaxUploadMB)
	cmd.Println()

	cmd.Println("[Inbox]")
	if settings.Inbox.Dir != "" {
		cmd.Printf("  Directory: %s\n", settings.Inbox.Dir)
	} else {
		cmd.Println("  Directory: (disabled)")
	}

	return nil
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return notConfigured("settings service")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if err := settingsService.Validate(settings); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	cmd.Printf("Settings are valid (%s).\n", settings.Drive.Provider.Description())
	return nil
}

// maskSecret shows only the ends of a secret.
func maskSecret(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func orDefault(s string) string {
	if s == "" {
		return "(default)"
	}
	return s
}
