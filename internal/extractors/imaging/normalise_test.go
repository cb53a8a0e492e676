package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestNormalise_GrayscalePNG(t *testing.T) {
	out, err := Normalise(encodeJPEG(t, testImage(40, 20)), 0)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.IsType(t, &image.Gray{}, decoded)
	assert.Equal(t, 40, decoded.Bounds().Dx())
	assert.Equal(t, 20, decoded.Bounds().Dy())
}

func TestNormalise_Downscales(t *testing.T) {
	out, err := Normalise(encodeJPEG(t, testImage(200, 100)), 50)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 50, decoded.Bounds().Dx())
	assert.Equal(t, 25, decoded.Bounds().Dy())
}

func TestNormalise_InvalidImage(t *testing.T) {
	_, err := Normalise([]byte("not an image"), 0)
	assert.Error(t, err)
}

func TestTargetSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h, max    int
		wantW, wantH int
	}{
		{"disabled", 5000, 3000, 0, 5000, 3000},
		{"within bounds", 800, 600, 4000, 800, 600},
		{"landscape", 8000, 4000, 4000, 4000, 2000},
		{"portrait", 3000, 6000, 4000, 2000, 4000},
		{"extreme aspect keeps one pixel", 10000, 1, 100, 100, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := targetSize(tt.w, tt.h, tt.max)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}
