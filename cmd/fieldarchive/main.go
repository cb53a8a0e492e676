// Command fieldarchive ingests documents from a remote drive, uploads and a
// drop folder into a searchable local archive.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/fieldarchive/internal/adapters/driving/cli"
	"github.com/custodia-labs/fieldarchive/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("load .env: %v", err)
	}

	home, err := homeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	if err := cli.Execute(ctx, newBootstrap(home)); err != nil {
		stop()
		os.Exit(1)
	}
}

// homeDir returns FIELDARCHIVE_HOME, or ~/.fieldarchive when unset.
func homeDir() (string, error) {
	if dir := os.Getenv("FIELDARCHIVE_HOME"); dir != "" {
		return dir, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(userHome, ".fieldarchive"), nil
}
