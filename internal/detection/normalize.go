package detection

import (
	"github.com/framelift/quadcrop/internal/geometry"
)

// cornerAliases maps each logical corner to the key spellings used by known
// detector implementations, in lookup priority order. Verbose JScanify-style
// names come first, then abbreviated and snake_case variants.
var cornerAliases = map[geometry.Corner][]string{
	geometry.TopLeft:     {"topLeftCorner", "topLeft", "top_left", "tl"},
	geometry.TopRight:    {"topRightCorner", "topRight", "top_right", "tr"},
	geometry.BottomLeft:  {"bottomLeftCorner", "bottomLeft", "bottom_left", "bl"},
	geometry.BottomRight: {"bottomRightCorner", "bottomRight", "bottom_right", "br"},
}

// NormalizeCorners resolves a detector's raw corner payload into a canonical
// quadrilateral. For each logical corner the known aliases are tried in
// order; the first finite match wins. Returns false when any corner is
// missing or non-finite, in which case callers should fall back.
func NormalizeCorners(raw map[string]Point) (geometry.Quadrilateral, bool) {
	if len(raw) == 0 {
		return geometry.Quadrilateral{}, false
	}
	var quad geometry.Quadrilateral
	for _, c := range geometry.Corners {
		p, ok := lookupCorner(raw, cornerAliases[c])
		if !ok {
			return geometry.Quadrilateral{}, false
		}
		quad = quad.WithCorner(c, p)
	}
	return quad, true
}

func lookupCorner(raw map[string]Point, aliases []string) (geometry.Point, bool) {
	for _, key := range aliases {
		p, ok := raw[key]
		if !ok {
			continue
		}
		gp := geometry.Point{X: p.X, Y: p.Y}
		if gp.IsFinite() {
			return gp, true
		}
	}
	return geometry.Point{}, false
}

// Corners returns the canonical quadrilateral for a detection result, in
// natural-image coordinates. Preference order: normalized corner points,
// then the axis-aligned bounding box. Returns false when neither yields a
// usable shape.
func (r Result) Corners() (geometry.Quadrilateral, bool) {
	if !r.Detected {
		return geometry.Quadrilateral{}, false
	}
	if quad, ok := NormalizeCorners(r.CornerPoints); ok {
		return quad, true
	}
	if box, ok := r.Box(); ok && box.IsFinite() && box.Area() > 0 {
		return geometry.RectQuad(box), true
	}
	return geometry.Quadrilateral{}, false
}
