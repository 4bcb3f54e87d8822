//go:build unit
// +build unit

package vision

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScaleToWidthDownscales(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 5000, 2000))

	scaled := ScaleToWidth(img, 2500)

	assert.Equal(t, 2500, scaled.Bounds().Dx())
	assert.Equal(t, 1000, scaled.Bounds().Dy())
}

func TestScaleToWidthKeepsSmallImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 800, 600))

	scaled := ScaleToWidth(img, 2500)

	assert.Same(t, image.Image(img), scaled)
}

func TestScaleToWidthIgnoresNonPositiveLimit(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 800, 600))
	assert.Same(t, image.Image(img), ScaleToWidth(img, 0))
}
