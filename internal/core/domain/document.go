package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Format identifies how a file's bytes are interpreted.
// The set is closed: anything else is rejected at the ingestion boundary.
type Format string

// Supported formats.
const (
	FormatPDF  Format = "PDF"
	FormatDOCX Format = "DOCX"
	FormatXLSX Format = "XLSX"
	FormatJPEG Format = "JPEG"
	FormatPNG  Format = "PNG"
)

// extensionFormats maps lower-cased extensions to formats.
var extensionFormats = map[string]Format{
	".pdf":  FormatPDF,
	".docx": FormatDOCX,
	".xlsx": FormatXLSX,
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".png":  FormatPNG,
}

// AcceptedExtensions returns the accepted file extensions in a stable order.
func AcceptedExtensions() []string {
	return []string{".pdf", ".docx", ".xlsx", ".jpg", ".jpeg", ".png"}
}

// FormatFromExtension returns the format for an extension such as ".PDF".
// The comparison is case-insensitive. ok is false for unaccepted extensions.
func FormatFromExtension(ext string) (Format, bool) {
	f, ok := extensionFormats[strings.ToLower(ext)]
	return f, ok
}

// FormatFromName returns the format for a file name, using its extension.
func FormatFromName(name string) (Format, bool) {
	return FormatFromExtension(filepath.Ext(name))
}

// IsAcceptedName reports whether a file name carries an accepted extension.
func IsAcceptedName(name string) bool {
	_, ok := FormatFromName(name)
	return ok
}

// IsImage reports whether the format is a raster image.
func (f Format) IsImage() bool {
	return f == FormatJPEG || f == FormatPNG
}

// String returns the string representation.
func (f Format) String() string {
	return string(f)
}

// ExtractionMethod records which strategy produced a document's text.
type ExtractionMethod string

// Extraction methods.
const (
	MethodNone        ExtractionMethod = "none"
	MethodTextLayer   ExtractionMethod = "text_layer"
	MethodOCRRaster   ExtractionMethod = "ocr_raster"
	MethodOCREmbed    ExtractionMethod = "ocr_embedded_jpeg"
	MethodOCRImage    ExtractionMethod = "ocr_image"
	MethodDocument    ExtractionMethod = "document"
	MethodSpreadsheet ExtractionMethod = "spreadsheet"
)

// Extraction is the output of the extraction dispatcher.
// Text is never absent; empty text means the file was processed but yielded nothing.
type Extraction struct {
	// Text is the extracted plain text.
	Text string

	// Method identifies the strategy that produced Text.
	Method ExtractionMethod

	// PageCount is the number of pages for paged formats, zero otherwise.
	PageCount int

	// Title is document metadata when the format carries it.
	Title string
}

// IngestedDocument is the persisted record of an ingested file.
// It is written in a single operation carrying the full record including text.
type IngestedDocument struct {
	// ID is the local unique identifier.
	ID string

	// OriginalName is the file name as uploaded or as named on the remote drive.
	OriginalName string

	// Format is the detected format.
	Format Format

	// Extension is the lower-cased original extension (".jpg" and ".jpeg" both map to FormatJPEG).
	Extension string

	// Size is the byte size of the original file.
	Size int64

	// ExtractedText is the extracted plain text. Empty means "processed, no text".
	ExtractedText string

	// ExtractionMethod identifies the strategy that produced ExtractedText.
	ExtractionMethod ExtractionMethod

	// PageCount is the number of pages for PDFs.
	PageCount int

	// RemoteItemID is the remote drive's stable item ID.
	// Nil for manual uploads. At most one document exists per non-nil value.
	RemoteItemID *string

	// RemoteDriveID is the drive the item was ingested from.
	RemoteDriveID string

	// RemoteFolder is the item's folder relative to the watched folder.
	RemoteFolder string

	// BlobKey locates the original bytes in the blob store.
	BlobKey string

	// Checksum is the hex BLAKE2b-256 digest of the original bytes.
	Checksum string

	// Tags are labels assigned by enrichment.
	Tags []string

	// ProcessedAt is when text extraction last completed.
	ProcessedAt time.Time

	// CreatedAt is when the document was first recorded.
	CreatedAt time.Time
}

// IsRemote reports whether the document came from the remote drive.
func (d *IngestedDocument) IsRemote() bool {
	return d.RemoteItemID != nil && *d.RemoteItemID != ""
}

// DocumentFilter narrows document listings.
type DocumentFilter struct {
	// Format restricts results to one format when set.
	Format Format

	// RemoteOnly restricts results to documents from the remote drive.
	RemoteOnly bool

	// Limit caps the number of results. Zero means no limit.
	Limit int

	// Offset skips results for pagination.
	Offset int
}
