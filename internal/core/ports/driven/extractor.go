package driven

import (
	"context"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
)

// Extractor converts the bytes of one or more formats into plain text.
type Extractor interface {
	// Formats returns the formats this extractor handles.
	Formats() []domain.Format

	// Extract returns the text of data. A nil error with empty text means
	// the file was readable but carried no text.
	Extract(ctx context.Context, data []byte) (*domain.Extraction, error)
}

// OCREngine recognises text in an image stored on disk.
// Callers own the image file and remove it afterwards.
type OCREngine interface {
	// Recognise returns the text found in the image at path.
	Recognise(ctx context.Context, imagePath string) (string, error)
}

// Rasteriser renders PDF pages as images.
type Rasteriser interface {
	// RenderFirstPage renders page one of pdf at dpi and returns PNG bytes.
	RenderFirstPage(ctx context.Context, pdf []byte, dpi int) ([]byte, error)
}
