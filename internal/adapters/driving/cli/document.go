package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
)

const timeLayout = "2006-01-02 15:04:05"

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Inspect ingested documents",
	Long:  `List ingested documents, show their details or print their extracted text.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get <doc-id>",
	Short: "Show document details",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentTextCmd = &cobra.Command{
	Use:   "text <doc-id>",
	Short: "Print extracted text",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentText,
}

// List flags.
var (
	listFormat string
	listRemote bool
	listLimit  int
)

func init() {
	documentListCmd.Flags().StringVarP(&listFormat, "format", "f", "", "Only list one format (pdf, docx, xlsx, jpg, png)")
	documentListCmd.Flags().BoolVar(&listRemote, "remote", false, "Only list documents from the remote drive")
	documentListCmd.Flags().IntVarP(&listLimit, "limit", "n", 50, "Maximum number of documents")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentTextCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return notConfigured("ingest service")
	}

	filter := domain.DocumentFilter{RemoteOnly: listRemote, Limit: listLimit}
	if listFormat != "" {
		f, ok := domain.FormatFromExtension("." + strings.TrimPrefix(listFormat, "."))
		if !ok {
			return fmt.Errorf("%w: unknown format %q", domain.ErrInvalidInput, listFormat)
		}
		filter.Format = f
	}

	docs, err := ingestService.List(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	for i := range docs {
		d := &docs[i]
		origin := "upload"
		if d.IsRemote() {
			origin = "remote"
		}
		cmd.Printf("  %s  %-6s %-7s %-18s %6d chars  %s\n",
			d.ID, d.Format, origin, d.ExtractionMethod, len(d.ExtractedText), d.OriginalName)
	}

	cmd.Printf("\nTotal: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return notConfigured("ingest service")
	}

	doc, err := ingestService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Name:       %s\n", doc.OriginalName)
	cmd.Printf("  Format:     %s (%s)\n", doc.Format, doc.Extension)
	cmd.Printf("  Size:       %d bytes\n", doc.Size)
	cmd.Printf("  Method:     %s\n", doc.ExtractionMethod)
	cmd.Printf("  Text:       %d chars\n", len(doc.ExtractedText))
	if doc.PageCount > 0 {
		cmd.Printf("  Pages:      %d\n", doc.PageCount)
	}
	if doc.IsRemote() {
		cmd.Printf("  Remote ID:  %s\n", *doc.RemoteItemID)
		cmd.Printf("  Drive:      %s\n", doc.RemoteDriveID)
		if doc.RemoteFolder != "" {
			cmd.Printf("  Folder:     %s\n", doc.RemoteFolder)
		}
	}
	if len(doc.Tags) > 0 {
		cmd.Printf("  Tags:       %s\n", strings.Join(doc.Tags, ", "))
	}
	cmd.Printf("  Checksum:   %s\n", doc.Checksum)
	cmd.Printf("  Processed:  %s\n", doc.ProcessedAt.Format(timeLayout))
	cmd.Printf("  Created:    %s\n", doc.CreatedAt.Format(timeLayout))
	return nil
}

func runDocumentText(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return notConfigured("ingest service")
	}

	doc, err := ingestService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Println(doc.ExtractedText)
	return nil
}
