// Package pdftoppm renders PDF pages with poppler's pdftoppm.
package pdftoppm

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/custodia-labs/fieldarchive/internal/core/ports/driven"
	"github.com/custodia-labs/fieldarchive/internal/extractors/command"
)

// Ensure Rasteriser implements the interface.
var _ driven.Rasteriser = (*Rasteriser)(nil)

const tool = "pdftoppm"

// Rasteriser renders pages as PNG.
type Rasteriser struct {
	runner  command.Runner
	tempDir string
}

// New creates a rasteriser using the system pdftoppm.
func New(tempDir string) *Rasteriser {
	return NewWithRunner(command.ExecRunner{}, tempDir)
}

// NewWithRunner creates a rasteriser with a custom command runner.
func NewWithRunner(runner command.Runner, tempDir string) *Rasteriser {
	return &Rasteriser{runner: runner, tempDir: tempDir}
}

// RenderFirstPage writes pdf to a scoped temporary file and renders page
// one to PNG on stdout.
func (r *Rasteriser) RenderFirstPage(ctx context.Context, pdf []byte, dpi int) ([]byte, error) {
	f, err := os.CreateTemp(r.tempDir, "fieldarchive-raster-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp pdf: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(pdf); err != nil {
		f.Close()
		return nil, fmt.Errorf("write temp pdf: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close temp pdf: %w", err)
	}

	out, err := r.runner.Run(ctx, tool,
		"-f", "1", "-l", "1",
		"-r", strconv.Itoa(dpi),
		"-png", "-singlefile",
		path,
	)
	if err != nil {
		return nil, fmt.Errorf("pdftoppm: %w", err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// CheckAvailable verifies that pdftoppm is installed.
func CheckAvailable() error {
	return command.CheckAvailable(tool)
}
