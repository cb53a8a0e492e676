package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
	"github.com/custodia-labs/fieldarchive/internal/core/ports/driven"
	"github.com/custodia-labs/fieldarchive/internal/logger"
)

// Dispatcher routes file bytes to the extractor registered for their format.
type Dispatcher struct {
	extractors map[domain.Format]driven.Extractor
}

// NewDispatcher creates a dispatcher and registers the given extractors.
func NewDispatcher(extractors ...driven.Extractor) *Dispatcher {
	d := &Dispatcher{extractors: make(map[domain.Format]driven.Extractor)}
	for _, e := range extractors {
		d.Register(e)
	}
	return d
}

// Register adds an extractor for each of its formats.
// A later registration for the same format replaces the earlier one.
func (d *Dispatcher) Register(e driven.Extractor) {
	for _, f := range e.Formats() {
		d.extractors[f] = e
	}
}

// Extract returns the text of data. The result is never nil.
// An unregistered format yields an empty result and no error. When the
// extractor fails the result is empty and the error wraps
// domain.ErrExtractionFailed; callers record the document regardless.
func (d *Dispatcher) Extract(ctx context.Context, format domain.Format, data []byte) (*domain.Extraction, error) {
	e, ok := d.extractors[format]
	if !ok {
		logger.Debug("dispatch: no extractor for %q", format)
		return &domain.Extraction{Method: domain.MethodNone}, nil
	}

	result, err := e.Extract(ctx, data)
	if err != nil {
		empty := &domain.Extraction{Method: domain.MethodNone}
		if result != nil {
			empty.PageCount = result.PageCount
			empty.Title = result.Title
		}
		if errors.Is(err, domain.ErrExtractionFailed) {
			return empty, err
		}
		return empty, fmt.Errorf("%w: %s: %w", domain.ErrExtractionFailed, format, err)
	}
	if result == nil {
		return &domain.Extraction{Method: domain.MethodNone}, nil
	}
	return result, nil
}
