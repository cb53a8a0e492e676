// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The ingestion pipeline lives here: the extraction Dispatcher, the
// IngestService that records documents in the ledger, and the Watcher
// that drives remote changes through both.
//
// Services are pure Go with no CGO or external process dependencies.
package services
