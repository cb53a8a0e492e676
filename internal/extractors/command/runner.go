// Package command runs the external tools used during extraction
// (pdftotext, pdftoppm, tesseract).
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
)

// Runner executes an external command and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes name with args. A non-zero exit is returned as an error
// carrying the command's stderr.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s: %w", name, ctx.Err())
		}
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", name, domain.ErrToolNotFound)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("%s failed: %w", name, err)
		}
		return nil, fmt.Errorf("%s failed: %w: %s", name, err, msg)
	}
	return out, nil
}

// CheckAvailable verifies that each tool is on PATH.
func CheckAvailable(tools ...string) error {
	for _, tool := range tools {
		if _, err := exec.LookPath(tool); err != nil {
			return fmt.Errorf("%s: %w", tool, domain.ErrToolNotFound)
		}
	}
	return nil
}

// InstallInstructions returns platform-specific installation instructions
// for the extraction tools.
func InstallInstructions() string {
	return `fieldarchive uses poppler (pdftotext, pdftoppm) and tesseract for extraction.

Install with:
  macOS:  brew install poppler tesseract
  Ubuntu: apt install poppler-utils tesseract-ocr
  Fedora: dnf install poppler-utils tesseract`
}
