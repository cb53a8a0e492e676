package imaging

import "bytes"

var (
	jpegSOI = []byte{0xFF, 0xD8, 0xFF}
	jpegEOI = []byte{0xFF, 0xD9}
)

// LargestEmbeddedJPEG scans data for JPEG streams, each running from a
// start-of-image marker to the next end-of-image marker inclusive, and
// returns the largest one of at least minBytes. When spans tie in size the
// first found wins. Returns nil if no span qualifies.
func LargestEmbeddedJPEG(data []byte, minBytes int) []byte {
	var best []byte
	pos := 0
	for pos < len(data) {
		start := bytes.Index(data[pos:], jpegSOI)
		if start < 0 {
			break
		}
		start += pos

		end := bytes.Index(data[start+len(jpegSOI):], jpegEOI)
		if end < 0 {
			break
		}
		end += start + len(jpegSOI) + len(jpegEOI)

		if span := data[start:end]; len(span) >= minBytes && len(span) > len(best) {
			best = span
		}
		pos = end
	}
	if best == nil {
		return nil
	}
	return bytes.Clone(best)
}
