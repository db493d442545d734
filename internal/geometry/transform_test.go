package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDisplay_ScalesAndOffsets(t *testing.T) {
	fit := FitResult{DisplayWidth: 400, DisplayHeight: 300, OriginX: 10, OriginY: 20}
	s := ScaleFactors{ScaleX: 0.5, ScaleY: 0.5}

	p, err := ToDisplay(Point{X: 100, Y: 200}, s, fit)
	require.NoError(t, err)
	assert.InDelta(t, 60, p.X, 1e-9)
	assert.InDelta(t, 120, p.Y, 1e-9)
}

func TestToDisplay_ClampsToDisplayRect(t *testing.T) {
	fit := FitResult{DisplayWidth: 400, DisplayHeight: 300, OriginX: 10, OriginY: 20}
	s := ScaleFactors{ScaleX: 0.5, ScaleY: 0.5}

	// A natural point far beyond the image clamps to the display edge.
	p, err := ToDisplay(Point{X: 5000, Y: -5000}, s, fit)
	require.NoError(t, err)
	assert.InDelta(t, 410, p.X, 1e-9)
	assert.InDelta(t, 20, p.Y, 1e-9)
}

func TestToNatural_InvertsAndClamps(t *testing.T) {
	fit := FitResult{DisplayWidth: 400, DisplayHeight: 300, OriginX: 10, OriginY: 20}
	s := ScaleFactors{ScaleX: 0.5, ScaleY: 0.5}

	p, err := ToNatural(Point{X: 60, Y: 120}, s, fit, 800, 600)
	require.NoError(t, err)
	assert.InDelta(t, 100, p.X, 1e-9)
	assert.InDelta(t, 200, p.Y, 1e-9)

	// Outside the display rect clamps into the natural range.
	p, err = ToNatural(Point{X: -1000, Y: 100000}, s, fit, 800, 600)
	require.NoError(t, err)
	assert.InDelta(t, 0, p.X, 1e-9)
	assert.InDelta(t, 600, p.Y, 1e-9)
}

func TestTransform_RejectsNonFiniteInputs(t *testing.T) {
	fit := FitResult{DisplayWidth: 400, DisplayHeight: 300}
	s := ScaleFactors{ScaleX: 0.5, ScaleY: 0.5}

	for _, bad := range []Point{
		{X: math.NaN(), Y: 0},
		{X: 0, Y: math.Inf(1)},
		{X: math.Inf(-1), Y: math.NaN()},
	} {
		_, err := ToDisplay(bad, s, fit)
		require.ErrorIs(t, err, ErrNonFinitePoint)
		_, err = ToNatural(bad, s, fit, 800, 600)
		require.ErrorIs(t, err, ErrNonFinitePoint)
	}
}

func TestTransform_RejectsInvalidScale(t *testing.T) {
	fit := FitResult{DisplayWidth: 400, DisplayHeight: 300}
	for _, bad := range []ScaleFactors{
		{ScaleX: 0, ScaleY: 1},
		{ScaleX: 1, ScaleY: -2},
		{ScaleX: math.NaN(), ScaleY: 1},
	} {
		_, err := ToDisplay(Point{X: 1, Y: 1}, bad, fit)
		require.ErrorIs(t, err, ErrInvalidScale)
		_, err = ToNatural(Point{X: 1, Y: 1}, bad, fit, 800, 600)
		require.ErrorIs(t, err, ErrInvalidScale)
	}
}

func TestQuadToNatural_RejectsBadCorner(t *testing.T) {
	fit := FitResult{DisplayWidth: 400, DisplayHeight: 300}
	s := ScaleFactors{ScaleX: 0.5, ScaleY: 0.5}
	q := Quadrilateral{
		TopLeft:     Point{X: 10, Y: 10},
		TopRight:    Point{X: math.NaN(), Y: 10},
		BottomLeft:  Point{X: 10, Y: 100},
		BottomRight: Point{X: 100, Y: 100},
	}
	_, err := QuadToNatural(q, s, fit, 800, 600)
	require.ErrorIs(t, err, ErrNonFinitePoint)
}

func TestQuadRoundTrip(t *testing.T) {
	fit := FitResult{DisplayWidth: 400, DisplayHeight: 300, OriginX: 25, OriginY: 40}
	s := ScaleFactors{ScaleX: 0.5, ScaleY: 0.5}
	natural := Quadrilateral{
		TopLeft:     Point{X: 100, Y: 80},
		TopRight:    Point{X: 700, Y: 90},
		BottomLeft:  Point{X: 110, Y: 500},
		BottomRight: Point{X: 690, Y: 510},
	}

	display, err := QuadToDisplay(natural, s, fit)
	require.NoError(t, err)
	back, err := QuadToNatural(display, s, fit, 800, 600)
	require.NoError(t, err)

	for _, c := range Corners {
		assert.InDelta(t, natural.Corner(c).X, back.Corner(c).X, 1e-9)
		assert.InDelta(t, natural.Corner(c).Y, back.Corner(c).Y, 1e-9)
	}
}

func TestClampToDisplay(t *testing.T) {
	fit := FitResult{DisplayWidth: 100, DisplayHeight: 100, OriginX: 50, OriginY: 50}
	p := ClampToDisplay(Point{X: 0, Y: 500}, fit)
	assert.InDelta(t, 50, p.X, 1e-9)
	assert.InDelta(t, 150, p.Y, 1e-9)
}
