package detection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/framelift/quadcrop/internal/geometry"
)

// ErrUnavailable indicates the boundary detector produced no usable result.
// It is non-fatal; callers fall back to a default crop region.
var ErrUnavailable = errors.New("detection unavailable")

// Source identifies where a detection result came from.
type Source string

const (
	SourceDetector Source = "detector"
	SourceFallback Source = "fallback"
	SourceGeneric  Source = "generic"
)

// Point is a detector-space coordinate as serialized by external detectors.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoundingBox is an axis-aligned detector result.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Result is the boundary detector's best-effort output. Corner points are
// kept in raw keyed form because detectors disagree on corner naming; use
// NormalizeCorners to obtain a canonical quadrilateral.
type Result struct {
	Detected     bool             `json:"detected"`
	Confidence   float64          `json:"confidence"`
	BoundingBox  *BoundingBox     `json:"boundingBox,omitempty"`
	CornerPoints map[string]Point `json:"cornerPoints,omitempty"`
	Source       Source           `json:"source"`
}

// Detector locates the photograph boundary within a captured frame. The
// editor treats it as best-effort: errors and absent results only trigger
// the fallback seeding path.
type Detector interface {
	Detect(ctx context.Context, img image.Image) (Result, error)
}

// FromJSON parses a serialized detection result.
func FromJSON(data []byte) (Result, error) {
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return Result{}, fmt.Errorf("parse detection result: %w", err)
	}
	return res, nil
}

// ToJSON serializes a detection result with indentation.
func (r Result) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Validate performs sanity checks against the natural image dimensions.
func (r Result) Validate(naturalWidth, naturalHeight float64) error {
	if naturalWidth <= 0 || naturalHeight <= 0 {
		return errors.New("invalid image dimensions for validation")
	}
	if r.Confidence < 0 || r.Confidence > 1 || math.IsNaN(r.Confidence) {
		return fmt.Errorf("confidence %g out of range", r.Confidence)
	}
	if b := r.BoundingBox; b != nil {
		if b.Width <= 0 || b.Height <= 0 {
			return errors.New("bounding box has non-positive size")
		}
		if b.X < 0 || b.Y < 0 || b.X+b.Width > naturalWidth || b.Y+b.Height > naturalHeight {
			return errors.New("bounding box out of bounds")
		}
	}
	for key, p := range r.CornerPoints {
		gp := geometry.Point{X: p.X, Y: p.Y}
		if !gp.IsFinite() {
			return fmt.Errorf("corner %q has non-finite coordinates", key)
		}
	}
	return nil
}

// Box returns the bounding box as a geometry.Box, when present.
func (r Result) Box() (geometry.Box, bool) {
	if r.BoundingBox == nil {
		return geometry.Box{}, false
	}
	b := *r.BoundingBox
	return geometry.NewBox(b.X, b.Y, b.X+b.Width, b.Y+b.Height), true
}
