package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>...",
	Short: "Ingest local files",
	Long: `Ingests one or more local files as manual uploads.

Accepted extensions: .pdf .docx .xlsx .jpg .jpeg .png. A file that cannot
be read or is rejected does not stop the remaining files.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

var reprocessCmd = &cobra.Command{
	Use:   "reprocess <doc-id>",
	Short: "Re-extract text from a stored document",
	Long:  `Re-runs text extraction on a document's stored original and updates its text.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runReprocess,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(reprocessCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return notConfigured("ingest service")
	}

	var errs []error
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", path, err))
			continue
		}

		doc, err := ingestService.IngestUploadedFile(cmd.Context(), filepath.Base(path), data)
		if err != nil {
			errs = append(errs, fmt.Errorf("ingest %s: %w", path, err))
			continue
		}

		cmd.Printf("Ingested %s as %s (%s, %d chars)\n",
			doc.OriginalName, doc.ID, doc.ExtractionMethod, len(doc.ExtractedText))
	}

	return errors.Join(errs...)
}

func runReprocess(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return notConfigured("ingest service")
	}

	doc, err := ingestService.Reprocess(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to reprocess document: %w", err)
	}

	cmd.Printf("Reprocessed %s: extracted %d chars (%s)\n",
		doc.OriginalName, len(doc.ExtractedText), doc.ExtractionMethod)
	return nil
}
