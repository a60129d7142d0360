package imageprocessor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) *bytes.Buffer {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestThumbnailFitsBounds(t *testing.T) {
	p := NewProcessor(0)

	thumb, err := p.Thumbnail(encodePNG(t, 1600, 800))
	require.NoError(t, err)

	w, h, err := Dimensions(thumb)
	require.NoError(t, err)
	assert.Equal(t, ThumbnailBound, w)
	assert.Equal(t, ThumbnailBound/2, h)
}

func TestThumbnailDoesNotUpscale(t *testing.T) {
	p := NewProcessor(0)

	thumb, err := p.Thumbnail(encodePNG(t, 100, 60))
	require.NoError(t, err)

	w, h, err := Dimensions(thumb)
	require.NoError(t, err)
	assert.Equal(t, 100, w)
	assert.Equal(t, 60, h)
}

func TestThumbnailRejectsGarbage(t *testing.T) {
	p := NewProcessor(0)

	_, err := p.Thumbnail(bytes.NewBufferString("not an image"))
	assert.Error(t, err)
}

func TestSupports(t *testing.T) {
	p := NewProcessor(0)

	assert.True(t, p.Supports("image/jpeg"))
	assert.True(t, p.Supports("image/png"))
	assert.False(t, p.Supports("image/webp"))
	assert.False(t, p.Supports("application/pdf"))
}
