// Package warp provides the built-in perspective-correction collaborator:
// it maps an arbitrary quadrilateral region of a photograph onto a
// rectangular output image, correcting camera-angle skew via a homography.
package warp

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/framelift/quadcrop/internal/geometry"
)

// Config holds sizing limits for corrected output images.
type Config struct {
	// MaxOutputDim caps the longer output edge; larger results are scaled
	// down proportionally. Zero applies the default.
	MaxOutputDim int
	// MinOutputDim floors both output edges.
	MinOutputDim int
}

// DefaultConfig returns sensible output sizing defaults.
func DefaultConfig() Config {
	return Config{
		MaxOutputDim: 4096,
		MinOutputDim: 8,
	}
}

// Corrector performs perspective correction on the CPU. It is stateless and
// side-effect-free on the source image; the same input always yields the
// same output.
type Corrector struct {
	cfg Config
}

// New creates a perspective corrector.
func New(cfg Config) *Corrector {
	if cfg.MaxOutputDim <= 0 {
		cfg.MaxOutputDim = DefaultConfig().MaxOutputDim
	}
	if cfg.MinOutputDim <= 0 {
		cfg.MinOutputDim = DefaultConfig().MinOutputDim
	}
	return &Corrector{cfg: cfg}
}

// Correct dewarps the region of img enclosed by the natural-space corners
// into a rectangular image. The output size follows the average edge lengths
// of the quadrilateral, so an un-skewed quad is returned at native scale.
// The context is honored between output rows; a few seconds of work on large
// images can be cancelled mid-warp.
func (c *Corrector) Correct(ctx context.Context, img image.Image, corners geometry.Quadrilateral) (image.Image, error) {
	if img == nil {
		return nil, errors.New("warp: nil image")
	}
	if !corners.Valid(1) {
		return nil, errors.New("warp: degenerate quadrilateral")
	}

	dstW, dstH := c.outputSize(corners)
	if dstW <= 0 || dstH <= 0 {
		return nil, fmt.Errorf("warp: unusable output size %dx%d", dstW, dstH)
	}

	out, err := c.warpWithContext(ctx, img, corners, dstW, dstH)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errors.New("warp: homography is degenerate")
	}
	return out, nil
}

// outputSize derives the output rectangle from the average opposing edge
// lengths of the quad, clamped to the configured limits.
func (c *Corrector) outputSize(q geometry.Quadrilateral) (int, int) {
	avgW := (q.TopLeft.Dist(q.TopRight) + q.BottomLeft.Dist(q.BottomRight)) * 0.5
	avgH := (q.TopLeft.Dist(q.BottomLeft) + q.TopRight.Dist(q.BottomRight)) * 0.5
	if avgW < 1 || avgH < 1 {
		return 0, 0
	}

	w, h := avgW, avgH
	longest := math.Max(w, h)
	if longest > float64(c.cfg.MaxOutputDim) {
		scale := float64(c.cfg.MaxOutputDim) / longest
		w *= scale
		h *= scale
	}
	dstW := int(math.Round(w))
	dstH := int(math.Round(h))
	if dstW < c.cfg.MinOutputDim {
		dstW = c.cfg.MinOutputDim
	}
	if dstH < c.cfg.MinOutputDim {
		dstH = c.cfg.MinOutputDim
	}
	return dstW, dstH
}

func (c *Corrector) warpWithContext(ctx context.Context, img image.Image, corners geometry.Quadrilateral, dstW, dstH int) (*image.RGBA, error) {
	dstRect := [4]geometry.Point{
		{X: 0, Y: 0},
		{X: float64(dstW - 1), Y: 0},
		{X: float64(dstW - 1), Y: float64(dstH - 1)},
		{X: 0, Y: float64(dstH - 1)},
	}
	srcCorners := [4]geometry.Point{
		corners.TopLeft, corners.TopRight, corners.BottomRight, corners.BottomLeft,
	}
	h, ok := computeHomography(dstRect, srcCorners)
	if !ok {
		return nil, nil
	}

	out := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	sb := img.Bounds()
	for y := 0; y < dstH; y++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for x := 0; x < dstW; x++ {
			sx, sy := applyHomography(h, float64(x), float64(y))
			out.Set(x, y, bilinearSample(img, sx+float64(sb.Min.X), sy+float64(sb.Min.Y)))
		}
	}
	return out, nil
}
