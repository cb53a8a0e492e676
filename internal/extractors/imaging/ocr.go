package imaging

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/custodia-labs/fieldarchive/internal/core/ports/driven"
	"github.com/custodia-labs/fieldarchive/internal/logger"
)

// Recogniser runs OCR on in-memory images.
type Recogniser struct {
	engine       driven.OCREngine
	tempDir      string
	timeout      time.Duration
	maxDimension int
}

// Config configures a Recogniser.
type Config struct {
	// TempDir holds scratch files. Empty uses os.TempDir.
	TempDir string

	// Timeout bounds a single OCR call. Zero means no limit beyond ctx.
	Timeout time.Duration

	// MaxDimension is passed to Normalise.
	MaxDimension int
}

// NewRecogniser creates a Recogniser backed by engine.
func NewRecogniser(engine driven.OCREngine, cfg Config) *Recogniser {
	return &Recogniser{
		engine:       engine,
		tempDir:      cfg.TempDir,
		timeout:      cfg.Timeout,
		maxDimension: cfg.MaxDimension,
	}
}

// Recognise normalises data, writes it to a temporary file, runs OCR and
// returns the trimmed text. The temporary file is removed on every path.
// Images that cannot be decoded are passed to the engine unchanged.
func (r *Recogniser) Recognise(ctx context.Context, data []byte) (string, error) {
	prepared, err := Normalise(data, r.maxDimension)
	if err != nil {
		logger.Debug("ocr: normalise skipped: %v", err)
		prepared = data
	}

	f, err := os.CreateTemp(r.tempDir, "fieldarchive-ocr-*.png")
	if err != nil {
		return "", fmt.Errorf("create ocr temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(prepared); err != nil {
		f.Close()
		return "", fmt.Errorf("write ocr temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close ocr temp file: %w", err)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	text, err := r.engine.Recognise(ctx, path)
	if err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}
	return strings.TrimSpace(text), nil
}
