package editor

import (
	"image"
	"image/color"
	"math"

	"github.com/framelift/quadcrop/internal/geometry"
	xdraw "golang.org/x/image/draw"
)

// OverlayStyle controls how the editing overlay is drawn.
type OverlayStyle struct {
	Outline      color.Color
	Handle       color.Color
	HandleRadius int
	// Shade is blended over the image outside the quadrilateral; the
	// alpha channel controls the darkening strength.
	Shade     color.NRGBA
	Thickness int
}

// DefaultOverlayStyle returns the standard editing look: white outline and
// handles over a half-dark exterior.
func DefaultOverlayStyle() OverlayStyle {
	return OverlayStyle{
		Outline:      color.RGBA{255, 255, 255, 255},
		Handle:       color.RGBA{255, 255, 255, 255},
		HandleRadius: 6,
		Shade:        color.NRGBA{0, 0, 0, 128},
		Thickness:    2,
	}
}

// RenderOverlay produces the full editing view: the source image scaled into
// its fitted display rectangle, a darkened mask outside the current
// quadrilateral, the quad outline, and the four corner handles. The result
// is container-sized; letterboxed borders stay black.
func (s *Session) RenderOverlay(src image.Image, style OverlayStyle) *image.RGBA {
	w := int(math.Ceil(s.containerWidth))
	h := int(math.Ceil(s.containerHeight))
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))

	displayRect := image.Rect(
		int(math.Round(s.fit.OriginX)),
		int(math.Round(s.fit.OriginY)),
		int(math.Round(s.fit.OriginX+s.fit.DisplayWidth)),
		int(math.Round(s.fit.OriginY+s.fit.DisplayHeight)),
	)
	if src != nil {
		xdraw.ApproxBiLinear.Scale(canvas, displayRect, src, src.Bounds(), xdraw.Src, nil)
	}

	s.shadeExterior(canvas, displayRect, style.Shade)
	drawQuadOutline(canvas, s.quad, style.Outline, style.Thickness)
	for _, c := range geometry.Corners {
		p := s.quad.Corner(c)
		fillDisc(canvas, int(math.Round(p.X)), int(math.Round(p.Y)), style.HandleRadius, style.Handle)
	}
	return canvas
}

// shadeExterior blends the shade color over every display-rect pixel that
// lies outside the quadrilateral.
func (s *Session) shadeExterior(dst *image.RGBA, displayRect image.Rectangle, shade color.NRGBA) {
	if shade.A == 0 {
		return
	}
	poly := s.quad.Points()
	bounds := displayRect.Intersect(dst.Bounds())
	alpha := float64(shade.A) / 255
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			p := geometry.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			if pointInPolygon(p, poly) {
				continue
			}
			r, g, b, a := dst.At(x, y).RGBA()
			blend := func(c uint32, s uint8) uint8 {
				return uint8(float64(c>>8)*(1-alpha) + float64(s)*alpha)
			}
			dst.Set(x, y, color.RGBA{
				R: blend(r, shade.R),
				G: blend(g, shade.G),
				B: blend(b, shade.B),
				A: uint8(a >> 8),
			})
		}
	}
}

// pointInPolygon uses even-odd ray casting, valid for any simple polygon.
func pointInPolygon(p geometry.Point, poly []geometry.Point) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// drawQuadOutline draws the closed quadrilateral edge loop.
func drawQuadOutline(dst *image.RGBA, q geometry.Quadrilateral, col color.Color, thickness int) {
	pts := q.Points()
	ip := make([]image.Point, len(pts))
	for i, p := range pts {
		ip[i] = image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
	}
	for i := range ip {
		drawLine(dst, ip[i], ip[(i+1)%len(ip)], col, thickness)
	}
}

// drawLine draws a line between two points using a simple Bresenham variant.
func drawLine(dst *image.RGBA, a, b image.Point, col color.Color, thickness int) {
	x0, y0 := a.X, a.Y
	x1, y1 := b.X, b.Y
	dx := int(math.Abs(float64(x1 - x0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -int(math.Abs(float64(y1 - y0)))
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		drawThickPoint(dst, x0, y0, col, thickness)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func drawThickPoint(dst *image.RGBA, x, y int, col color.Color, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	r := (thickness - 1) / 2
	for yy := y - r; yy <= y+r; yy++ {
		for xx := x - r; xx <= x+r; xx++ {
			if image.Pt(xx, yy).In(dst.Bounds()) {
				dst.Set(xx, yy, col)
			}
		}
	}
}

// fillDisc draws a filled circle for a corner handle.
func fillDisc(dst *image.RGBA, cx, cy, radius int, col color.Color) {
	if radius < 1 {
		radius = 1
	}
	r2 := radius * radius
	for yy := cy - radius; yy <= cy+radius; yy++ {
		for xx := cx - radius; xx <= cx+radius; xx++ {
			dx, dy := xx-cx, yy-cy
			if dx*dx+dy*dy <= r2 && image.Pt(xx, yy).In(dst.Bounds()) {
				dst.Set(xx, yy, col)
			}
		}
	}
}
