package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	// The ingestion ledger returns it for a remote item that has already been recorded.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Ingestion Errors.

	// ErrRemoteUnavailable indicates the remote drive could not be reached,
	// authenticated against, or resolved.
	ErrRemoteUnavailable = errors.New("remote drive unavailable")

	// ErrUnsupportedFormat indicates a file extension outside the accepted set.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrExtractionFailed indicates a format extractor failed.
	// Callers absorb it and record the document with empty text.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrEnrichmentFailed indicates the enrichment collaborator failed.
	// It never prevents a document from being recorded.
	ErrEnrichmentFailed = errors.New("enrichment failed")

	// ErrEnricherUnavailable indicates no enrichment provider is configured.
	ErrEnricherUnavailable = errors.New("enricher unavailable")

	// ErrRateLimited indicates the remote API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrToolNotFound indicates an external extraction tool is not installed.
	ErrToolNotFound = errors.New("external tool not found")
)
