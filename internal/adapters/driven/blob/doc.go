// Package blob holds BlobStore adapters that keep the original bytes of
// ingested files: filesystem for a single host, gcs for Google Cloud Storage.
package blob
