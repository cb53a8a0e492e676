// Package imaging prepares images for OCR. It recovers embedded JPEG
// streams from raw bytes, normalises images to a single pixel format and
// hands them to an OCR engine through a scoped temporary file.
package imaging
