// Package tesseract runs the tesseract OCR engine as an external process.
package tesseract

import (
	"context"
	"fmt"

	"github.com/custodia-labs/fieldarchive/internal/core/ports/driven"
	"github.com/custodia-labs/fieldarchive/internal/extractors/command"
)

// Ensure Engine implements the interface.
var _ driven.OCREngine = (*Engine)(nil)

const tool = "tesseract"

// Engine recognises text with tesseract.
type Engine struct {
	runner   command.Runner
	language string
}

// New creates an engine using the system tesseract.
func New(language string) *Engine {
	return NewWithRunner(command.ExecRunner{}, language)
}

// NewWithRunner creates an engine with a custom command runner.
func NewWithRunner(runner command.Runner, language string) *Engine {
	if language == "" {
		language = "eng"
	}
	return &Engine{runner: runner, language: language}
}

// Recognise runs tesseract on the image and returns its stdout.
func (e *Engine) Recognise(ctx context.Context, imagePath string) (string, error) {
	out, err := e.runner.Run(ctx, tool, imagePath, "stdout", "-l", e.language)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return string(out), nil
}

// CheckAvailable verifies that tesseract is installed.
func CheckAvailable() error {
	return command.CheckAvailable(tool)
}
