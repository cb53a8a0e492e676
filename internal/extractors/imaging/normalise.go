package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	// Registered decoders for images arriving from PDFs and uploads.
	_ "image/jpeg"

	"golang.org/x/image/draw"
)

// Normalise decodes a JPEG or PNG image and re-encodes it as 8-bit
// grayscale PNG. Images whose longer side exceeds maxDimension are scaled
// down to it. A maxDimension of zero disables scaling.
func Normalise(data []byte, maxDimension int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	w, h := targetSize(bounds.Dx(), bounds.Dy(), maxDimension)

	dst := image.NewGray(image.Rect(0, 0, w, h))
	if w == bounds.Dx() && h == bounds.Dy() {
		draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// targetSize returns the dimensions after fitting the longer side to max.
func targetSize(w, h, maxDimension int) (int, int) {
	if maxDimension <= 0 || (w <= maxDimension && h <= maxDimension) {
		return w, h
	}
	if w >= h {
		return maxDimension, max(1, h*maxDimension/w)
	}
	return max(1, w*maxDimension/h), maxDimension
}
