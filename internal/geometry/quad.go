package geometry

import "math"

// Corner identifies one of the four logical corners of a Quadrilateral.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

// Corners lists all four corners in a stable order.
var Corners = [4]Corner{TopLeft, TopRight, BottomLeft, BottomRight}

func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomLeft:
		return "bottom-left"
	case BottomRight:
		return "bottom-right"
	default:
		return "unknown"
	}
}

// Quadrilateral is a four-corner crop region. The corners need not form a
// rectangle; a photograph captured at an angle yields a trapezoid.
type Quadrilateral struct {
	TopLeft     Point
	TopRight    Point
	BottomLeft  Point
	BottomRight Point
}

// Corner returns the point for the given logical corner.
func (q Quadrilateral) Corner(c Corner) Point {
	switch c {
	case TopLeft:
		return q.TopLeft
	case TopRight:
		return q.TopRight
	case BottomLeft:
		return q.BottomLeft
	default:
		return q.BottomRight
	}
}

// WithCorner returns a copy of q with the given corner replaced.
func (q Quadrilateral) WithCorner(c Corner, p Point) Quadrilateral {
	switch c {
	case TopLeft:
		q.TopLeft = p
	case TopRight:
		q.TopRight = p
	case BottomLeft:
		q.BottomLeft = p
	case BottomRight:
		q.BottomRight = p
	}
	return q
}

// Points returns the corners in polygon winding order:
// top-left, top-right, bottom-right, bottom-left.
func (q Quadrilateral) Points() []Point {
	return []Point{q.TopLeft, q.TopRight, q.BottomRight, q.BottomLeft}
}

// Bounds returns the axis-aligned bounding box of the four corners.
func (q Quadrilateral) Bounds() Box {
	return BoundingBox(q.Points())
}

// minCornerSeparation guards against collapsed quadrilaterals where two
// corners coincide; below this distance the shape is unusable for correction.
const minCornerSeparation = 1.0

// Valid reports whether the quadrilateral is usable for cropping: all
// corners finite, no two corners coinciding, and a bounding-box area of at
// least minArea square pixels.
func (q Quadrilateral) Valid(minArea float64) bool {
	pts := q.Points()
	for _, p := range pts {
		if !p.IsFinite() {
			return false
		}
	}
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			if pts[i].Dist(pts[j]) < minCornerSeparation {
				return false
			}
		}
	}
	return q.Bounds().Area() >= minArea
}

// IsAxisAligned reports whether the four corners form a true rectangle
// within tol pixels on each axis. Such quads can be extracted with a plain
// rectangular crop instead of a perspective warp.
func (q Quadrilateral) IsAxisAligned(tol float64) bool {
	return math.Abs(q.TopLeft.Y-q.TopRight.Y) <= tol &&
		math.Abs(q.BottomLeft.Y-q.BottomRight.Y) <= tol &&
		math.Abs(q.TopLeft.X-q.BottomLeft.X) <= tol &&
		math.Abs(q.TopRight.X-q.BottomRight.X) <= tol
}

// RectQuad returns the axis-aligned quadrilateral covering b.
func RectQuad(b Box) Quadrilateral {
	return Quadrilateral{
		TopLeft:     Point{X: b.MinX, Y: b.MinY},
		TopRight:    Point{X: b.MaxX, Y: b.MinY},
		BottomLeft:  Point{X: b.MinX, Y: b.MaxY},
		BottomRight: Point{X: b.MaxX, Y: b.MaxY},
	}
}

// DefaultQuad returns the fallback crop region: a rectangle centered on the
// displayed image covering the given fraction of the display size on each
// axis (0.8 yields the standard 80% default).
func DefaultQuad(fit FitResult, fraction float64) Quadrilateral {
	if fraction <= 0 || fraction > 1 {
		fraction = 0.8
	}
	insetX := fit.DisplayWidth * (1 - fraction) / 2
	insetY := fit.DisplayHeight * (1 - fraction) / 2
	return RectQuad(Box{
		MinX: fit.OriginX + insetX,
		MinY: fit.OriginY + insetY,
		MaxX: fit.OriginX + fit.DisplayWidth - insetX,
		MaxY: fit.OriginY + fit.DisplayHeight - insetY,
	})
}
