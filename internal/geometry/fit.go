package geometry

import (
	"errors"
	"fmt"
	"math"
)

// FitResult describes the rendered size and placement of an image within its
// display container, including any letterbox offset.
type FitResult struct {
	DisplayWidth  float64
	DisplayHeight float64
	OriginX       float64
	OriginY       float64
}

// ScaleFactors holds the display/natural size ratios per axis. Multiply a
// natural coordinate by the factor to reach display space, divide to go back.
type ScaleFactors struct {
	ScaleX float64
	ScaleY float64
}

// Scale derives the display/natural ratios for an image of the given natural
// size rendered at this fit.
func (f FitResult) Scale(naturalWidth, naturalHeight float64) (ScaleFactors, error) {
	if naturalWidth <= 0 || naturalHeight <= 0 {
		return ScaleFactors{}, fmt.Errorf("invalid natural dimensions %gx%g", naturalWidth, naturalHeight)
	}
	return ScaleFactors{
		ScaleX: f.DisplayWidth / naturalWidth,
		ScaleY: f.DisplayHeight / naturalHeight,
	}, nil
}

// FitOptions controls how an image is fitted into its container.
type FitOptions struct {
	// TargetAspect, when positive, crops the display rectangle to this
	// width/height ratio instead of letterboxing, preserving visual
	// continuity with a preceding camera preview. Zero disables it.
	TargetAspect float64
	// AlignTop anchors the image near the container top instead of
	// centering it vertically.
	AlignTop bool
	// TopMargin is the vertical offset used when AlignTop is set.
	TopMargin float64
	// MinWidth/MinHeight floor the container size so a zero-sized
	// container reported during initial layout cannot produce a
	// degenerate fit.
	MinWidth  float64
	MinHeight float64
	// AspectEpsilon is the tolerance below which the image's own aspect
	// ratio is treated as already matching TargetAspect.
	AspectEpsilon float64
}

// DefaultFitOptions returns the standard fit behavior: centered letterbox
// fit with a 200x200 minimum display size.
func DefaultFitOptions() FitOptions {
	return FitOptions{
		TargetAspect:  0,
		AlignTop:      false,
		TopMargin:     16,
		MinWidth:      200,
		MinHeight:     200,
		AspectEpsilon: 0.01,
	}
}

// EffectiveContainer floors a reported container size to the configured
// minimum display size. Containers report zero size during initial mount;
// flooring keeps the layout from degenerating.
func EffectiveContainer(containerWidth, containerHeight float64, opts FitOptions) (float64, float64) {
	minW := opts.MinWidth
	if minW <= 0 {
		minW = DefaultFitOptions().MinWidth
	}
	minH := opts.MinHeight
	if minH <= 0 {
		minH = DefaultFitOptions().MinHeight
	}
	if containerWidth < minW || math.IsNaN(containerWidth) {
		containerWidth = minW
	}
	if containerHeight < minH || math.IsNaN(containerHeight) {
		containerHeight = minH
	}
	return containerWidth, containerHeight
}

// Fit computes the rendered size and origin of an image with the given
// natural dimensions inside a container. With no target aspect the image is
// letterboxed to fill the available space while preserving its own aspect
// ratio. With a target aspect that differs from the image's, the display
// rectangle covers the container at the target ratio (cropping, not padding).
func Fit(naturalWidth, naturalHeight, containerWidth, containerHeight float64, opts FitOptions) (FitResult, error) {
	if naturalWidth <= 0 || naturalHeight <= 0 ||
		math.IsNaN(naturalWidth) || math.IsNaN(naturalHeight) {
		return FitResult{}, errors.New("fit: natural dimensions must be positive")
	}
	if opts.AspectEpsilon <= 0 {
		opts.AspectEpsilon = DefaultFitOptions().AspectEpsilon
	}
	containerWidth, containerHeight = EffectiveContainer(containerWidth, containerHeight, opts)

	imageAspect := naturalWidth / naturalHeight

	var dw, dh float64
	if opts.TargetAspect > 0 && math.Abs(imageAspect-opts.TargetAspect) > opts.AspectEpsilon {
		// Cover the container at the target ratio; the overflow on one
		// axis is cropped by the container rather than padded.
		dw = containerWidth
		dh = dw / opts.TargetAspect
		if dh < containerHeight {
			dh = containerHeight
			dw = dh * opts.TargetAspect
		}
	} else {
		// Letterbox fit preserving the image aspect.
		scale := math.Min(containerWidth/naturalWidth, containerHeight/naturalHeight)
		dw = naturalWidth * scale
		dh = naturalHeight * scale
	}

	originX := (containerWidth - dw) / 2
	var originY float64
	if opts.AlignTop {
		originY = opts.TopMargin
	} else {
		originY = (containerHeight - dh) / 2
	}

	return FitResult{
		DisplayWidth:  dw,
		DisplayHeight: dh,
		OriginX:       originX,
		OriginY:       originY,
	}, nil
}
