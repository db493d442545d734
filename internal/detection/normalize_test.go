package detection

import (
	"math"
	"testing"

	"github.com/framelift/quadcrop/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func canonicalCorners() map[string]Point {
	return map[string]Point{
		"topLeftCorner":     {X: 10, Y: 20},
		"topRightCorner":    {X: 210, Y: 22},
		"bottomLeftCorner":  {X: 12, Y: 320},
		"bottomRightCorner": {X: 208, Y: 318},
	}
}

func TestNormalizeCorners_CanonicalNaming(t *testing.T) {
	quad, ok := NormalizeCorners(canonicalCorners())
	require.True(t, ok)
	assert.Equal(t, geometry.Point{X: 10, Y: 20}, quad.TopLeft)
	assert.Equal(t, geometry.Point{X: 210, Y: 22}, quad.TopRight)
	assert.Equal(t, geometry.Point{X: 12, Y: 320}, quad.BottomLeft)
	assert.Equal(t, geometry.Point{X: 208, Y: 318}, quad.BottomRight)
}

func TestNormalizeCorners_AlternateNamings(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]Point
	}{
		{"camelCase short", map[string]Point{
			"topLeft": {X: 10, Y: 20}, "topRight": {X: 210, Y: 22},
			"bottomLeft": {X: 12, Y: 320}, "bottomRight": {X: 208, Y: 318},
		}},
		{"snake_case", map[string]Point{
			"top_left": {X: 10, Y: 20}, "top_right": {X: 210, Y: 22},
			"bottom_left": {X: 12, Y: 320}, "bottom_right": {X: 208, Y: 318},
		}},
		{"abbreviated", map[string]Point{
			"tl": {X: 10, Y: 20}, "tr": {X: 210, Y: 22},
			"bl": {X: 12, Y: 320}, "br": {X: 208, Y: 318},
		}},
	}

	want, ok := NormalizeCorners(canonicalCorners())
	require.True(t, ok)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Alternate conventions must seed identically to canonical.
			quad, ok := NormalizeCorners(tt.raw)
			require.True(t, ok)
			assert.Equal(t, want, quad)
		})
	}
}

func TestNormalizeCorners_MissingCorner(t *testing.T) {
	raw := canonicalCorners()
	delete(raw, "bottomRightCorner")
	_, ok := NormalizeCorners(raw)
	assert.False(t, ok)
}

func TestNormalizeCorners_NonFiniteCornerRejected(t *testing.T) {
	raw := canonicalCorners()
	raw["topLeftCorner"] = Point{X: math.NaN(), Y: 20}
	_, ok := NormalizeCorners(raw)
	assert.False(t, ok)
}

func TestNormalizeCorners_AliasPriority(t *testing.T) {
	// A non-finite verbose key is skipped in favor of a finite alias.
	raw := canonicalCorners()
	raw["topLeftCorner"] = Point{X: math.Inf(1), Y: 20}
	raw["topLeft"] = Point{X: 11, Y: 21}
	quad, ok := NormalizeCorners(raw)
	require.True(t, ok)
	assert.Equal(t, geometry.Point{X: 11, Y: 21}, quad.TopLeft)
}

func TestNormalizeCorners_Empty(t *testing.T) {
	_, ok := NormalizeCorners(nil)
	assert.False(t, ok)
}

func TestResultCorners_PrefersCornerPoints(t *testing.T) {
	res := Result{
		Detected:     true,
		Confidence:   0.9,
		CornerPoints: canonicalCorners(),
		BoundingBox:  &BoundingBox{X: 0, Y: 0, Width: 50, Height: 50},
		Source:       SourceDetector,
	}
	quad, ok := res.Corners()
	require.True(t, ok)
	assert.Equal(t, geometry.Point{X: 10, Y: 20}, quad.TopLeft)
}

func TestResultCorners_BoundingBoxFallback(t *testing.T) {
	res := Result{
		Detected:    true,
		Confidence:  0.6,
		BoundingBox: &BoundingBox{X: 5, Y: 10, Width: 100, Height: 80},
		Source:      SourceDetector,
	}
	quad, ok := res.Corners()
	require.True(t, ok)
	assert.Equal(t, geometry.Point{X: 5, Y: 10}, quad.TopLeft)
	assert.Equal(t, geometry.Point{X: 105, Y: 90}, quad.BottomRight)
	assert.True(t, quad.IsAxisAligned(0))
}

func TestResultCorners_NotDetected(t *testing.T) {
	res := Result{Detected: false, CornerPoints: canonicalCorners()}
	_, ok := res.Corners()
	assert.False(t, ok)
}
