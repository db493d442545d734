package warp

import (
	"testing"

	"github.com/framelift/quadcrop/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitSquare() [4]geometry.Point {
	return [4]geometry.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
	}
}

func TestComputeHomography_Identity(t *testing.T) {
	sq := unitSquare()
	h, ok := computeHomography(sq, sq)
	require.True(t, ok)

	for _, p := range []geometry.Point{{X: 0.5, Y: 0.5}, {X: 0.1, Y: 0.9}, {X: 1, Y: 0}} {
		x, y := applyHomography(h, p.X, p.Y)
		assert.InDelta(t, p.X, x, 1e-9)
		assert.InDelta(t, p.Y, y, 1e-9)
	}
}

func TestComputeHomography_Translation(t *testing.T) {
	src := unitSquare()
	dst := src
	for i := range dst {
		dst[i].X += 10
		dst[i].Y += 20
	}
	h, ok := computeHomography(src, dst)
	require.True(t, ok)

	x, y := applyHomography(h, 0.25, 0.75)
	assert.InDelta(t, 10.25, x, 1e-9)
	assert.InDelta(t, 20.75, y, 1e-9)
}

func TestComputeHomography_ScaleAndSkew(t *testing.T) {
	src := unitSquare()
	dst := [4]geometry.Point{
		{X: 0, Y: 0}, {X: 200, Y: 10}, {X: 210, Y: 160}, {X: -5, Y: 150},
	}
	h, ok := computeHomography(src, dst)
	require.True(t, ok)

	// Corner correspondences must be exact.
	for i := range src {
		x, y := applyHomography(h, src[i].X, src[i].Y)
		assert.InDelta(t, dst[i].X, x, 1e-6)
		assert.InDelta(t, dst[i].Y, y, 1e-6)
	}
}

func TestComputeHomography_CollinearDegenerates(t *testing.T) {
	src := unitSquare()
	// All destination points on one line: no valid projective map.
	dst := [4]geometry.Point{
		{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3},
	}
	_, ok := computeHomography(src, dst)
	assert.False(t, ok)
}

func TestApplyHomography_ZeroDenominator(t *testing.T) {
	// h chosen so the denominator vanishes at (1, 0).
	h := [9]float64{1, 0, 0, 0, 1, 0, -1, 0, 1}
	x, y := applyHomography(h, 1, 0)
	assert.Less(t, x, -1e8)
	assert.Less(t, y, -1e8)
}
