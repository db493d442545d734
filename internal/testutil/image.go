// Package testutil provides synthetic image construction helpers for tests.
package testutil

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/framelift/quadcrop/internal/geometry"
)

// ImageSize represents common test image dimensions.
type ImageSize struct {
	Width  int
	Height int
}

var (
	// Common test image sizes.
	SmallSize  = ImageSize{320, 240}
	MediumSize = ImageSize{640, 480}
	LargeSize  = ImageSize{800, 600}
)

// GradientImage creates an image whose pixel values encode their position,
// which makes warp and crop results easy to verify.
func GradientImage(size ImageSize) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	for y := 0; y < size.Height; y++ {
		for x := 0; x < size.Width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(x * 255 / max(size.Width-1, 1)),
				G: uint8(y * 255 / max(size.Height-1, 1)),
				B: 64,
				A: 255,
			})
		}
	}
	return img
}

// SolidImage creates a uniformly colored image.
func SolidImage(size ImageSize, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

// PhotoWithRegion creates a dark image with a bright axis-aligned region,
// simulating a photograph of a photograph against a dark background.
func PhotoWithRegion(size ImageSize, region image.Rectangle, fill color.Color) *image.RGBA {
	img := SolidImage(size, color.RGBA{20, 20, 20, 255})
	draw.Draw(img, region.Intersect(img.Bounds()), &image.Uniform{fill}, image.Point{}, draw.Src)
	return img
}

// Quad builds a quadrilateral from corner coordinates in reading order:
// top-left, top-right, bottom-left, bottom-right.
func Quad(tlx, tly, trx, try, blx, bly, brx, bry float64) geometry.Quadrilateral {
	return geometry.Quadrilateral{
		TopLeft:     geometry.Point{X: tlx, Y: tly},
		TopRight:    geometry.Point{X: trx, Y: try},
		BottomLeft:  geometry.Point{X: blx, Y: bly},
		BottomRight: geometry.Point{X: brx, Y: bry},
	}
}
