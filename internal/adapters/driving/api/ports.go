package api

import (
	"github.com/custodia-labs/fieldarchive/internal/core/ports/driving"
)

// Ports aggregates the driving ports served over HTTP.
type Ports struct {
	// Watcher controls the delta-sync watcher.
	Watcher driving.Watcher

	// Ingest ingests uploads and serves documents.
	Ingest driving.IngestService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Watcher == nil {
		return ErrMissingWatcher
	}
	if p.Ingest == nil {
		return ErrMissingIngestService
	}
	return nil
}
