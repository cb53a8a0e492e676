// Package cli provides the fieldarchive command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fieldarchive/internal/core/ports/driving"
	"github.com/custodia-labs/fieldarchive/internal/logger"
)

// skipBootstrap marks commands that run without services.
const skipBootstrap = "skip-bootstrap"

// Dependencies are the services the commands run against.
// A nil member makes the commands that need it fail with a "not configured" error.
type Dependencies struct {
	Watcher  driving.Watcher
	Ingest   driving.IngestService
	Settings driving.SettingsService

	// Serve runs the long-lived server until ctx is cancelled.
	Serve func(ctx context.Context) error

	// Close releases the services after the command has run.
	Close func() error
}

// Bootstrap builds the dependencies before a command runs.
type Bootstrap func(ctx context.Context) (*Dependencies, error)

var (
	version = "dev"
	verbose bool

	bootstrap Bootstrap
	closeDeps func() error

	watcher         driving.Watcher
	ingestService   driving.IngestService
	settingsService driving.SettingsService
	serveFunc       func(ctx context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "fieldarchive",
	Short: "Field document ingestion pipeline",
	Long: `fieldarchive ingests field documents into a searchable ledger.

It watches a remote drive folder for new files, extracts their text
(falling back to OCR for scanned documents) and records each file once.
Files can also be uploaded over HTTP, dropped into an inbox folder or
ingested from the command line.`,
	SilenceUsage:      true,
	PersistentPreRunE: runBootstrap,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command with ctx. b builds the services for every
// command except those that need none; they are closed once the command returns.
func Execute(ctx context.Context, b Bootstrap) error {
	bootstrap = b
	err := rootCmd.ExecuteContext(ctx)
	if closeDeps != nil {
		err = errors.Join(err, closeDeps())
		closeDeps = nil
	}
	return err
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if bootstrap == nil || cmd.Annotations[skipBootstrap] == "true" {
		return nil
	}

	deps, err := bootstrap(cmd.Context())
	if err != nil {
		return fmt.Errorf("initialise: %w", err)
	}
	configure(deps)
	return nil
}

// configure installs deps as the package services.
func configure(deps *Dependencies) {
	watcher = deps.Watcher
	ingestService = deps.Ingest
	settingsService = deps.Settings
	serveFunc = deps.Serve
	closeDeps = deps.Close
}

// notConfigured builds the error returned when a service is missing.
func notConfigured(service string) error {
	return errors.New(service + " not configured")
}
