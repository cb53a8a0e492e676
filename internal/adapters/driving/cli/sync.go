package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronise documents from the remote drive",
	Long: `Runs one full synchronisation against the remote drive.

The delta cursor is discarded, so every file in the watched folder is
examined; files already in the ledger are skipped.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if watcher == nil {
		return notConfigured("watcher")
	}

	cmd.Println("Synchronising remote drive...")

	result, err := watcher.TriggerManualSync(cmd.Context())
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	cmd.Printf("Processed %d files (%d skipped, %d failed)\n",
		result.FilesProcessed, result.FilesSkipped, result.FilesFailed)

	if !result.Success {
		return fmt.Errorf("sync failed: %s", result.Error)
	}
	cmd.Println("Remote drive synchronised successfully.")
	return nil
}
