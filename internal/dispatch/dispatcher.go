// Package dispatch converts an accepted display-space quadrilateral back to
// natural-image coordinates and produces the cropped output image, either by
// plain rectangular extraction or by handing the corners to a perspective
// correction collaborator.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/disintegration/imaging"
	"github.com/framelift/quadcrop/internal/geometry"
)

// Subsystem error taxonomy. Geometry failures block the accept action but
// never abort the editing session; only an unreadable source image is fatal.
var (
	ErrImageNotReady    = errors.New("image not ready")
	ErrInvalidGeometry  = errors.New("invalid crop geometry")
	ErrCorrectionFailed = errors.New("perspective correction failed")
)

// Corrector is the external perspective-correction collaborator. It must be
// idempotent and side-effect-free on the source image. Cancellation and
// deadlines arrive through the context.
type Corrector interface {
	Correct(ctx context.Context, img image.Image, corners geometry.Quadrilateral) (image.Image, error)
}

// Config controls dispatch behavior.
type Config struct {
	// AxisAlignedTolerance is the per-axis pixel tolerance below which a
	// quadrilateral is treated as a true rectangle and extracted without
	// a perspective warp.
	AxisAlignedTolerance float64
	// CorrectionTimeout bounds the collaborator call.
	CorrectionTimeout time.Duration
	// GracePeriod is how long after the timeout we wait for a
	// non-cooperative collaborator before abandoning its result.
	GracePeriod time.Duration
	// MinQuadArea is the minimum natural-space bounding-box area for a
	// crop to be considered usable.
	MinQuadArea float64
}

// DefaultConfig returns the standard dispatch settings.
func DefaultConfig() Config {
	return Config{
		AxisAlignedTolerance: 2.0,
		CorrectionTimeout:    5 * time.Second,
		GracePeriod:          500 * time.Millisecond,
		MinQuadArea:          100,
	}
}

// CropRect is an axis-aligned extraction rectangle in natural pixels.
type CropRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PercentRect is the same rectangle expressed as percentages of the natural
// image size, for resolution-independent storage.
type PercentRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ToPercent converts the rectangle to percentage form.
func (r CropRect) ToPercent(naturalWidth, naturalHeight float64) PercentRect {
	if naturalWidth <= 0 || naturalHeight <= 0 {
		return PercentRect{}
	}
	return PercentRect{
		X:      r.X / naturalWidth * 100,
		Y:      r.Y / naturalHeight * 100,
		Width:  r.Width / naturalWidth * 100,
		Height: r.Height / naturalHeight * 100,
	}
}

// Result is the outcome of a crop dispatch.
type Result struct {
	// Image is the cropped (and possibly dewarped) output.
	Image image.Image
	// Rect is the natural-space bounding rectangle of the crop.
	Rect CropRect
	// RectPercent is Rect in resolution-independent form.
	RectPercent PercentRect
	// Corners holds the natural-space corners handed to the corrector;
	// nil when the axis-aligned shortcut was taken.
	Corners *geometry.Quadrilateral
	// Corrected is true when the output came from the perspective
	// corrector rather than a rectangular extraction.
	Corrected bool
	// FellBack is true when correction failed or timed out and the
	// bounding-box extraction was used instead.
	FellBack bool
	// ProcessingTime covers the correction call, when one was made.
	ProcessingTime time.Duration
}

// Dispatcher owns the final conversion and extraction step of the editing
// flow.
type Dispatcher struct {
	cfg       Config
	corrector Corrector
	logger    *slog.Logger
}

// New creates a dispatcher. A nil corrector disables perspective correction:
// every quad is extracted by bounding box.
func New(cfg Config, corrector Corrector, logger *slog.Logger) *Dispatcher {
	if cfg.CorrectionTimeout <= 0 {
		cfg.CorrectionTimeout = DefaultConfig().CorrectionTimeout
	}
	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = DefaultConfig().GracePeriod
	}
	if cfg.AxisAlignedTolerance < 0 {
		cfg.AxisAlignedTolerance = DefaultConfig().AxisAlignedTolerance
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{cfg: cfg, corrector: corrector, logger: logger}
}

// Dispatch converts the display-space quadrilateral to natural space and
// produces the output image. Axis-aligned quads are extracted directly; all
// others go through the corrector with a timeout, falling back to the
// bounding-box extraction on failure so the user is never blocked.
func (d *Dispatcher) Dispatch(ctx context.Context, img image.Image, quad geometry.Quadrilateral,
	fit geometry.FitResult, scale geometry.ScaleFactors,
) (Result, error) {
	if img == nil {
		return Result{}, fmt.Errorf("dispatch: %w: no source image", ErrImageNotReady)
	}
	b := img.Bounds()
	naturalW, naturalH := float64(b.Dx()), float64(b.Dy())
	if naturalW <= 0 || naturalH <= 0 {
		return Result{}, fmt.Errorf("dispatch: %w: natural dimensions %gx%g", ErrImageNotReady, naturalW, naturalH)
	}

	natural, err := geometry.QuadToNatural(quad, scale, fit, naturalW, naturalH)
	if err != nil {
		return Result{}, fmt.Errorf("dispatch: %w: %w", ErrInvalidGeometry, err)
	}
	if !natural.Valid(d.cfg.MinQuadArea) {
		return Result{}, fmt.Errorf("dispatch: %w: degenerate quadrilateral", ErrInvalidGeometry)
	}

	bounds := natural.Bounds()
	rect := CropRect{X: bounds.MinX, Y: bounds.MinY, Width: bounds.Width(), Height: bounds.Height()}
	res := Result{
		Rect:        rect,
		RectPercent: rect.ToPercent(naturalW, naturalH),
	}

	if d.corrector == nil || natural.IsAxisAligned(d.cfg.AxisAlignedTolerance) {
		res.Image = d.extractBounds(img, bounds)
		observeDispatch(outcomeRectangle, 0)
		return res, nil
	}

	corrected, took, err := d.correctWithTimeout(ctx, img, natural)
	res.ProcessingTime = took
	if err != nil {
		// Non-blocking: the same corners still produce a usable crop.
		d.logger.Warn("perspective correction failed, using bounding-box extraction",
			"error", err, "took", took)
		res.Image = d.extractBounds(img, bounds)
		res.FellBack = true
		observeDispatch(outcomeFallback, took)
		return res, nil
	}

	res.Image = corrected
	res.Corners = &natural
	res.Corrected = true
	observeDispatch(outcomeCorrected, took)
	return res, nil
}

func (d *Dispatcher) extractBounds(img image.Image, bounds geometry.Box) image.Image {
	return imaging.Crop(img, bounds.ToRect(img.Bounds()))
}

// correctWithTimeout runs the collaborator under the configured timeout. The
// call runs in its own goroutine so a collaborator that ignores its context
// can still be abandoned after the grace period; its eventual result is then
// discarded.
func (d *Dispatcher) correctWithTimeout(ctx context.Context, img image.Image,
	corners geometry.Quadrilateral,
) (image.Image, time.Duration, error) {
	cctx, cancel := context.WithTimeout(ctx, d.cfg.CorrectionTimeout)
	defer cancel()

	type outcome struct {
		img image.Image
		err error
	}
	done := make(chan outcome, 1)
	start := time.Now()
	go func() {
		out, err := d.corrector.Correct(cctx, img, corners)
		done <- outcome{img: out, err: err}
	}()

	deadline := time.NewTimer(d.cfg.CorrectionTimeout + d.cfg.GracePeriod)
	defer deadline.Stop()

	select {
	case o := <-done:
		took := time.Since(start)
		if o.err != nil {
			return nil, took, fmt.Errorf("%w: %w", ErrCorrectionFailed, o.err)
		}
		if o.img == nil {
			return nil, took, fmt.Errorf("%w: collaborator returned no image", ErrCorrectionFailed)
		}
		return o.img, took, nil
	case <-deadline.C:
		return nil, time.Since(start), fmt.Errorf("%w: timed out after %s", ErrCorrectionFailed, d.cfg.CorrectionTimeout)
	case <-ctx.Done():
		return nil, time.Since(start), fmt.Errorf("%w: %w", ErrCorrectionFailed, ctx.Err())
	}
}
