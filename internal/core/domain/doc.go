// Package domain defines the core business entities for fieldarchive.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - IngestedDocument: An original file with its extracted text
//   - RemoteItem: An entry reported by a remote drive's change feed
//   - WatcherStatus: A snapshot of the delta-sync watcher
//   - Expense: A receipt recovered from an ingested document
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
