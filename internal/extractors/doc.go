// Package extractors provides implementations of the Extractor interface
// for each accepted file format. Each extractor knows how to recover plain
// text from one format's bytes:
//
//   - docx: paragraph text from word/document.xml
//   - xlsx: one CSV block per sheet
//   - pdf: text layer with an OCR fallback chain for scanned pages
//   - image: OCR of JPEG and PNG files
//
// Extractors are registered with the dispatcher in core/services at startup.
package extractors
