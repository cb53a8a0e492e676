// Package image extracts text from JPEG and PNG files with OCR.
package image

import (
	"context"
	"fmt"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
	"github.com/custodia-labs/fieldarchive/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// OCR recognises text in in-memory images.
type OCR interface {
	Recognise(ctx context.Context, image []byte) (string, error)
}

// Extractor handles raster images.
type Extractor struct {
	ocr OCR
}

// New creates an image extractor backed by ocr.
func New(ocr OCR) *Extractor {
	return &Extractor{ocr: ocr}
}

// Formats returns the formats this extractor handles.
func (e *Extractor) Formats() []domain.Format {
	return []domain.Format{domain.FormatJPEG, domain.FormatPNG}
}

// Extract runs OCR on the image.
func (e *Extractor) Extract(ctx context.Context, data []byte) (*domain.Extraction, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image: %w", domain.ErrInvalidInput)
	}
	text, err := e.ocr.Recognise(ctx, data)
	if err != nil {
		return nil, err
	}
	method := domain.MethodOCRImage
	if text == "" {
		method = domain.MethodNone
	}
	return &domain.Extraction{Text: text, Method: method}, nil
}
