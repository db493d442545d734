package geometry

import (
	"errors"
	"fmt"
)

// Transform errors. Invalid inputs are rejected at this boundary so NaN can
// never propagate into downstream crop math.
var (
	ErrNonFinitePoint = errors.New("point has non-finite coordinates")
	ErrInvalidScale   = errors.New("scale factors must be positive and finite")
)

func validScale(s ScaleFactors) bool {
	p := Point{X: s.ScaleX, Y: s.ScaleY}
	return p.IsFinite() && s.ScaleX > 0 && s.ScaleY > 0
}

// ToDisplay converts a natural-space point to display space: scale each axis,
// then add the letterbox origin. The result is clamped to the display
// rectangle.
func ToDisplay(p Point, s ScaleFactors, fit FitResult) (Point, error) {
	if !p.IsFinite() {
		return Point{}, fmt.Errorf("to display: %w", ErrNonFinitePoint)
	}
	if !validScale(s) {
		return Point{}, fmt.Errorf("to display: %w", ErrInvalidScale)
	}
	out := Point{
		X: p.X*s.ScaleX + fit.OriginX,
		Y: p.Y*s.ScaleY + fit.OriginY,
	}
	return ClampToDisplay(out, fit), nil
}

// ToNatural converts a display-space point back to natural space: subtract
// the origin, then divide by the scale factors. The result is clamped to
// [0, naturalSize] on each axis.
func ToNatural(p Point, s ScaleFactors, fit FitResult, naturalWidth, naturalHeight float64) (Point, error) {
	if !p.IsFinite() {
		return Point{}, fmt.Errorf("to natural: %w", ErrNonFinitePoint)
	}
	if !validScale(s) {
		return Point{}, fmt.Errorf("to natural: %w", ErrInvalidScale)
	}
	out := Point{
		X: clampFloat((p.X-fit.OriginX)/s.ScaleX, 0, naturalWidth),
		Y: clampFloat((p.Y-fit.OriginY)/s.ScaleY, 0, naturalHeight),
	}
	return out, nil
}

// ClampToDisplay clamps a point to the display rectangle described by fit.
func ClampToDisplay(p Point, fit FitResult) Point {
	return Point{
		X: clampFloat(p.X, fit.OriginX, fit.OriginX+fit.DisplayWidth),
		Y: clampFloat(p.Y, fit.OriginY, fit.OriginY+fit.DisplayHeight),
	}
}

// QuadToDisplay converts all four corners of a natural-space quadrilateral to
// display space. Any invalid corner rejects the whole conversion.
func QuadToDisplay(q Quadrilateral, s ScaleFactors, fit FitResult) (Quadrilateral, error) {
	var out Quadrilateral
	for _, c := range Corners {
		p, err := ToDisplay(q.Corner(c), s, fit)
		if err != nil {
			return Quadrilateral{}, fmt.Errorf("%s corner: %w", c, err)
		}
		out = out.WithCorner(c, p)
	}
	return out, nil
}

// QuadToNatural converts all four corners of a display-space quadrilateral
// back to natural space. Any invalid corner rejects the whole conversion.
func QuadToNatural(q Quadrilateral, s ScaleFactors, fit FitResult, naturalWidth, naturalHeight float64) (Quadrilateral, error) {
	var out Quadrilateral
	for _, c := range Corners {
		p, err := ToNatural(q.Corner(c), s, fit, naturalWidth, naturalHeight)
		if err != nil {
			return Quadrilateral{}, fmt.Errorf("%s corner: %w", c, err)
		}
		out = out.WithCorner(c, p)
	}
	return out, nil
}
