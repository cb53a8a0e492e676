// Package pdf extracts text from PDF files.
//
// The text layer is read with pdftotext. When it carries too little text
// the file is treated as a scan: page images are recovered from a list of
// ImageSources and passed to OCR until one yields text.
package pdf

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
	"github.com/custodia-labs/fieldarchive/internal/core/ports/driven"
	"github.com/custodia-labs/fieldarchive/internal/extractors/command"
	"github.com/custodia-labs/fieldarchive/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

const textTool = "pdftotext"

// OCR recognises text in in-memory images.
type OCR interface {
	Recognise(ctx context.Context, image []byte) (string, error)
}

// Config tunes the fallback chain.
type Config struct {
	// MinTextLength is the trimmed text length, in characters,
	// the text layer must exceed to be accepted.
	MinTextLength int

	// TempDir holds the PDF while pdftotext reads it.
	TempDir string
}

// Extractor handles PDF documents.
type Extractor struct {
	runner        command.Runner
	ocr           OCR
	sources       []ImageSource
	minTextLength int
	tempDir       string
	info          func([]byte) (documentInfo, error)
}

// New creates a PDF extractor with the given image sources, tried in order.
func New(runner command.Runner, ocr OCR, sources []ImageSource, cfg Config) *Extractor {
	return &Extractor{
		runner:        runner,
		ocr:           ocr,
		sources:       sources,
		minTextLength: cfg.MinTextLength,
		tempDir:       cfg.TempDir,
		info:          readInfo,
	}
}

// Formats returns the formats this extractor handles.
func (e *Extractor) Formats() []domain.Format {
	return []domain.Format{domain.FormatPDF}
}

// Extract returns the best text available for a PDF.
// A file that yields no text anywhere is not an error.
func (e *Extractor) Extract(ctx context.Context, data []byte) (*domain.Extraction, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty pdf: %w", domain.ErrInvalidInput)
	}

	result := &domain.Extraction{Method: domain.MethodNone}
	if info, err := e.info(data); err != nil {
		logger.Debug("pdf: read info: %v", err)
	} else {
		result.PageCount = info.PageCount
		result.Title = info.Title
	}

	text, textErr := e.textLayer(ctx, data)
	if textErr != nil {
		logger.Debug("pdf: text layer: %v", textErr)
	}
	if utf8.RuneCountInString(text) > e.minTextLength {
		result.Text = text
		result.Method = domain.MethodTextLayer
		return result, nil
	}

	logger.Debug("pdf: text layer has %d chars, trying OCR", utf8.RuneCountInString(text))
	for _, src := range e.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ocrText, err := e.recogniseFrom(ctx, src, data)
		if err != nil {
			logger.Debug("pdf: %s: %v", src.Method(), err)
			continue
		}
		if ocrText != "" {
			result.Text = ocrText
			result.Method = src.Method()
			return result, nil
		}
	}

	result.Text = text
	if text != "" {
		result.Method = domain.MethodTextLayer
	}
	if textErr != nil && text == "" {
		return result, fmt.Errorf("%w: %w", domain.ErrExtractionFailed, textErr)
	}
	return result, nil
}

// recogniseFrom obtains an image from src and runs OCR on it.
func (e *Extractor) recogniseFrom(ctx context.Context, src ImageSource, data []byte) (string, error) {
	img, err := src.Image(ctx, data)
	if err != nil {
		return "", err
	}
	if len(img) == 0 {
		return "", nil
	}
	return e.ocr.Recognise(ctx, img)
}

// textLayer runs pdftotext on a scoped copy of data and returns trimmed text.
func (e *Extractor) textLayer(ctx context.Context, data []byte) (string, error) {
	f, err := os.CreateTemp(e.tempDir, "fieldarchive-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp pdf: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("write temp pdf: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close temp pdf: %w", err)
	}

	out, err := e.runner.Run(ctx, textTool, "-layout", "-enc", "UTF-8", path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext failed: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
