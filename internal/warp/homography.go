package warp

import (
	"math"

	"github.com/framelift/quadcrop/internal/geometry"
)

// computeHomography computes the 3x3 projective matrix H mapping src[i] to
// dst[i], returned in row-major order with h22 fixed to 1. Returns false for
// degenerate point sets (collinear corners).
func computeHomography(src, dst [4]geometry.Point) ([9]float64, bool) {
	// Standard DLT setup: 8 unknowns h00..h21, two equations per point pair.
	var a [8][9]float64 // augmented matrix, last column is the rhs
	for i := 0; i < 4; i++ {
		sx, sy := src[i].X, src[i].Y
		dx, dy := dst[i].X, dst[i].Y
		r := 2 * i
		a[r] = [9]float64{sx, sy, 1, 0, 0, 0, -sx * dx, -sy * dx, dx}
		a[r+1] = [9]float64{0, 0, 0, sx, sy, 1, -sx * dy, -sy * dy, dy}
	}

	h, ok := gaussianSolve(&a)
	if !ok {
		return [9]float64{}, false
	}
	return [9]float64{h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7], 1}, true
}

// gaussianSolve runs Gauss-Jordan elimination with partial pivoting on the
// augmented 8x9 system and returns the solution vector.
func gaussianSolve(a *[8][9]float64) ([8]float64, bool) {
	for col := 0; col < 8; col++ {
		// Partial pivot: bring the largest remaining magnitude into place.
		pivot := col
		for r := col + 1; r < 8; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if a[pivot][col] == 0 {
			return [8]float64{}, false
		}
		a[col], a[pivot] = a[pivot], a[col]

		div := a[col][col]
		for c := col; c < 9; c++ {
			a[col][c] /= div
		}
		for r := 0; r < 8; r++ {
			if r == col || a[r][col] == 0 {
				continue
			}
			factor := a[r][col]
			for c := col; c < 9; c++ {
				a[r][c] -= factor * a[col][c]
			}
		}
	}

	var x [8]float64
	for i := 0; i < 8; i++ {
		x[i] = a[i][8]
	}
	return x, true
}

// applyHomography maps (x, y) through H, performing the perspective divide.
func applyHomography(h [9]float64, x, y float64) (float64, float64) {
	denom := h[6]*x + h[7]*y + h[8]
	if denom == 0 {
		return -1e9, -1e9
	}
	return (h[0]*x + h[1]*y + h[2]) / denom, (h[3]*x + h[4]*y + h[5]) / denom
}
