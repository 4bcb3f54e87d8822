package vision

import (
	"image"

	"golang.org/x/image/draw"
)

// ScaleToWidth downscales img to maxWidth pixels wide, preserving aspect
// ratio. Images at or below maxWidth are returned unchanged; upscaling is
// never done.
func ScaleToWidth(img image.Image, maxWidth int) image.Image {
	bounds := img.Bounds()
	if maxWidth <= 0 || bounds.Dx() <= maxWidth {
		return img
	}

	height := bounds.Dy() * maxWidth / bounds.Dx()
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
