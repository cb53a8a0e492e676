package pdf

import (
	"context"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
	"github.com/custodia-labs/fieldarchive/internal/core/ports/driven"
	"github.com/custodia-labs/fieldarchive/internal/extractors/imaging"
)

// ImageSource recovers a page image from a PDF for OCR.
// Sources are tried in order; a nil image with a nil error means
// the source found nothing.
type ImageSource interface {
	// Method identifies the source in extraction results.
	Method() domain.ExtractionMethod

	// Image returns image bytes for OCR.
	Image(ctx context.Context, pdf []byte) ([]byte, error)
}

// RasterSource renders the first page with a Rasteriser.
type RasterSource struct {
	rasteriser driven.Rasteriser
	dpi        int
}

// NewRasterSource creates a source rendering page one at dpi.
func NewRasterSource(rasteriser driven.Rasteriser, dpi int) *RasterSource {
	return &RasterSource{rasteriser: rasteriser, dpi: dpi}
}

// Method returns the extraction method for raster OCR.
func (s *RasterSource) Method() domain.ExtractionMethod {
	return domain.MethodOCRRaster
}

// Image renders the first page.
func (s *RasterSource) Image(ctx context.Context, pdf []byte) ([]byte, error) {
	return s.rasteriser.RenderFirstPage(ctx, pdf, s.dpi)
}

// EmbeddedJPEGSource recovers the largest JPEG stream embedded in the file.
// Scanners commonly wrap each page as a single DCT-encoded image.
type EmbeddedJPEGSource struct {
	minBytes int
}

// NewEmbeddedJPEGSource creates a source ignoring streams below minBytes.
func NewEmbeddedJPEGSource(minBytes int) *EmbeddedJPEGSource {
	return &EmbeddedJPEGSource{minBytes: minBytes}
}

// Method returns the extraction method for embedded JPEG OCR.
func (s *EmbeddedJPEGSource) Method() domain.ExtractionMethod {
	return domain.MethodOCREmbed
}

// Image scans the raw bytes.
func (s *EmbeddedJPEGSource) Image(_ context.Context, pdf []byte) ([]byte, error) {
	return imaging.LargestEmbeddedJPEG(pdf, s.minBytes), nil
}
