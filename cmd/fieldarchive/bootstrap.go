package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/fieldarchive/internal/adapters/driven/ai"
	"github.com/custodia-labs/fieldarchive/internal/adapters/driven/blob/filesystem"
	"github.com/custodia-labs/fieldarchive/internal/adapters/driven/blob/gcs"
	"github.com/custodia-labs/fieldarchive/internal/adapters/driven/config/file"
	"github.com/custodia-labs/fieldarchive/internal/adapters/driven/enrichment"
	"github.com/custodia-labs/fieldarchive/internal/adapters/driven/ocr/tesseract"
	"github.com/custodia-labs/fieldarchive/internal/adapters/driven/raster/pdftoppm"
	"github.com/custodia-labs/fieldarchive/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/fieldarchive/internal/adapters/driving/api"
	"github.com/custodia-labs/fieldarchive/internal/adapters/driving/cli"
	"github.com/custodia-labs/fieldarchive/internal/adapters/driving/inbox"
	"github.com/custodia-labs/fieldarchive/internal/connectors/google"
	"github.com/custodia-labs/fieldarchive/internal/connectors/google/drive"
	"github.com/custodia-labs/fieldarchive/internal/connectors/msgraph"
	"github.com/custodia-labs/fieldarchive/internal/core/domain"
	"github.com/custodia-labs/fieldarchive/internal/core/ports/driven"
	"github.com/custodia-labs/fieldarchive/internal/core/services"
	"github.com/custodia-labs/fieldarchive/internal/extractors/command"
	"github.com/custodia-labs/fieldarchive/internal/extractors/docx"
	"github.com/custodia-labs/fieldarchive/internal/extractors/image"
	"github.com/custodia-labs/fieldarchive/internal/extractors/imaging"
	"github.com/custodia-labs/fieldarchive/internal/extractors/pdf"
	"github.com/custodia-labs/fieldarchive/internal/extractors/xlsx"
	"github.com/custodia-labs/fieldarchive/internal/logger"
)

// closers releases resources in reverse order of acquisition.
type closers []func() error

func (c *closers) add(fn func() error) {
	*c = append(*c, fn)
}

func (c closers) close() error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// newBootstrap returns the function that wires the application from the
// configuration kept in home.
func newBootstrap(home string) cli.Bootstrap {
	return func(ctx context.Context) (*cli.Dependencies, error) {
		configStore, err := file.NewConfigStore(home)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		settingsService := services.NewSettingsService(configStore)
		settings, err := settingsService.Get()
		if err != nil {
			return nil, fmt.Errorf("load settings: %w", err)
		}

		var cleanup closers
		deps, err := wire(ctx, home, settings, &cleanup)
		if err != nil {
			if cerr := cleanup.close(); cerr != nil {
				logger.Warn("cleanup after failed start: %v", cerr)
			}
			return nil, err
		}
		deps.Settings = settingsService
		deps.Close = func() error {
			err := cleanup.close()
			if err != nil {
				logger.Error("shutdown: %v", err)
			}
			return err
		}
		return deps, nil
	}
}

func wire(ctx context.Context, home string, settings *domain.AppSettings, cleanup *closers) (*cli.Dependencies, error) {
	dataDir := settings.Storage.DataDir
	if dataDir == "" {
		dataDir = filepath.Join(home, "data")
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	cleanup.add(store.Close)

	blobs, err := newBlobStore(ctx, settings, dataDir, cleanup)
	if err != nil {
		return nil, err
	}

	prompts, err := file.NewPromptStore(filepath.Join(home, "prompts"), enrichment.DefaultPrompts)
	if err != nil {
		return nil, fmt.Errorf("open prompts: %w", err)
	}
	aiResult := ai.Init(&settings.Enrichment, prompts)
	cleanup.add(func() error {
		aiResult.Close()
		return nil
	})
	for _, w := range aiResult.Warnings {
		logger.Warn("%s", w)
	}

	ingest := services.NewIngestService(
		newDispatcher(settings.Extraction),
		store.DocumentStore(),
		blobs,
		aiResult.Enricher,
		store.ExpenseStore(),
	)
	deps := &cli.Dependencies{Ingest: ingest}

	remote, driveErr := newRemoteDrive(ctx, settings)
	if driveErr != nil {
		logger.Warn("remote drive disabled: %v", driveErr)
		deps.Serve = func(context.Context) error {
			return fmt.Errorf("serve needs a remote drive: %w", driveErr)
		}
		return deps, nil
	}

	watcher := services.NewWatcher(
		remote,
		ingest,
		store.SyncStateStore(),
		store.PollHistoryStore(),
		services.WatcherConfigFrom(settings.Watcher),
	)
	cleanup.add(watcher.Close)
	deps.Watcher = watcher
	deps.Serve = func(ctx context.Context) error {
		return serve(ctx, settings, ingest, watcher)
	}
	return deps, nil
}

func newBlobStore(ctx context.Context, settings *domain.AppSettings, dataDir string, cleanup *closers) (driven.BlobStore, error) {
	if settings.Storage.Blob == domain.BlobBackendGCS {
		store, err := gcs.New(ctx, settings.Storage.GCSBucket, settings.Drive.Google.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("open gcs bucket: %w", err)
		}
		cleanup.add(store.Close)
		return store, nil
	}

	store, err := filesystem.New(filepath.Join(dataDir, "originals"))
	if err != nil {
		return nil, fmt.Errorf("open originals: %w", err)
	}
	return store, nil
}

func newDispatcher(cfg domain.ExtractionSettings) *services.Dispatcher {
	if err := command.CheckAvailable("pdftotext", "pdftoppm", "tesseract"); err != nil {
		logger.Warn("%v\n%s", err, command.InstallInstructions())
	}

	runner := command.ExecRunner{}
	ocr := imaging.NewRecogniser(tesseract.New(cfg.OCRLanguage), imaging.Config{
		TempDir:      cfg.TempDir,
		Timeout:      cfg.OCRTimeout,
		MaxDimension: cfg.MaxImageDimension,
	})
	sources := []pdf.ImageSource{
		pdf.NewRasterSource(pdftoppm.New(cfg.TempDir), cfg.RasterDPI),
		pdf.NewEmbeddedJPEGSource(cfg.MinEmbeddedImageBytes),
	}

	return services.NewDispatcher(
		pdf.New(runner, ocr, sources, pdf.Config{
			MinTextLength: cfg.MinTextLength,
			TempDir:       cfg.TempDir,
		}),
		docx.New(),
		xlsx.New(),
		image.New(ocr),
	)
}

func newRemoteDrive(ctx context.Context, settings *domain.AppSettings) (driven.RemoteDrive, error) {
	switch settings.Drive.Provider {
	case domain.DriveProviderGraph:
		if !settings.Drive.Graph.IsConfigured() {
			return nil, fmt.Errorf("%w: graph drive needs tenant_id, client_id, client_secret and site_url",
				domain.ErrInvalidInput)
		}
		return msgraph.New(msgraph.ConfigFromSettings(settings.Drive.Graph))
	case domain.DriveProviderGoogle:
		svc, err := google.NewDriveService(ctx, settings.Drive.Google.CredentialsFile)
		if err != nil {
			return nil, err
		}
		return drive.New(svc, settings.Drive.Google.FolderID), nil
	default:
		return nil, fmt.Errorf("%w: unknown drive provider %q", domain.ErrInvalidInput, settings.Drive.Provider)
	}
}

// serve runs the HTTP API and the inbox until ctx is cancelled.
func serve(ctx context.Context, settings *domain.AppSettings, ingest *services.IngestService, watcher *services.Watcher) error {
	server, err := api.NewServer(&api.Ports{Watcher: watcher, Ingest: ingest}, api.Config{MaxUploadMB: settings.HTTP.MaxUploadMB})
	if err != nil {
		return err
	}

	if settings.Inbox.Dir != "" {
		box, err := inbox.New(ingest, inbox.Config{Dir: settings.Inbox.Dir})
		if err != nil {
			return fmt.Errorf("open inbox: %w", err)
		}
		defer box.Close()
		if err := box.Start(ctx); err != nil {
			return fmt.Errorf("start inbox: %w", err)
		}
		logger.Info("inbox watching %s", box.Dir())
	}

	if settings.Watcher.Autostart {
		if err := watcher.Start(ctx); err != nil {
			logger.Warn("watcher autostart: %v", err)
		}
	}

	logger.Info("listening on %s", settings.HTTP.Addr)
	return server.Run(ctx, settings.HTTP.Addr)
}
