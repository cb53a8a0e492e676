// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - RemoteDrive: Lists changes and downloads files from the watched drive
//   - Extractor: Converts one file format into plain text
//   - OCREngine: Recognises text in an image file
//   - Rasteriser: Renders a PDF page as an image
//   - DocumentStore: The ingestion ledger and document persistence
//   - BlobStore: Original file bytes
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Enricher: Tags documents and recovers receipts. Without it, documents are stored untagged.
//   - ExpenseStore: Expense persistence. Without it, recovered receipts are only logged.
//   - SyncStateStore: Cursor persistence. Without it, every process start begins with a full listing.
//   - PollHistoryStore: Poll history. Without it, history is not recorded.
//   - LLMService: Language model backing the LLM enricher.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or extractor package
package driven
