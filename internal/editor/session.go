// Package editor holds the interactive state of one quadrilateral crop
// editing session: the current corner positions in display space, the drag
// state machine that mutates them, and the overlay rendering that visualizes
// them. A session is created when an image finishes loading, mutated only
// through pointer events, and consumed exactly once by the dispatcher.
package editor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/framelift/quadcrop/internal/detection"
	"github.com/framelift/quadcrop/internal/dispatch"
	"github.com/framelift/quadcrop/internal/geometry"
)

// ErrDismissed indicates the session was dismissed; any in-flight result is
// discarded and no further mutation is accepted.
var ErrDismissed = errors.New("editor session dismissed")

// ErrProcessing indicates an accept is already in flight.
var ErrProcessing = errors.New("correction in progress")

// Config holds editing-session tunables.
type Config struct {
	// HandleRadius is the hit-test radius around each corner handle, in
	// display pixels.
	HandleRadius float64
	// MinQuadArea is the minimum display-space bounding-box area below
	// which the quad is considered collapsed and invalid.
	MinQuadArea float64
	// DefaultFraction sizes the fallback quad relative to the displayed
	// image (0.8 = the centered 80% default).
	DefaultFraction float64
}

// DefaultConfig returns the standard editor settings.
func DefaultConfig() Config {
	return Config{
		HandleRadius:    24,
		MinQuadArea:     100,
		DefaultFraction: 0.8,
	}
}

// Seed carries the optional initial crop suggestions for a session, in
// priority order: a detector result beats a caller-supplied rectangle, and
// both beat the centered default.
type Seed struct {
	// Detection is the external boundary detector's output, if any.
	Detection *detection.Result
	// Rect is a caller-supplied axis-aligned rectangle in natural space.
	Rect *geometry.Box
}

// Session is the editing state for a single image. All pointer-event methods
// are expected to be called from one goroutine (the UI event loop); the
// mutex only protects the dismissal and processing flags, which the host may
// touch while an accept is in flight.
type Session struct {
	cfg    Config
	logger *slog.Logger

	naturalWidth    float64
	naturalHeight   float64
	containerWidth  float64
	containerHeight float64
	fit             geometry.FitResult
	scale           geometry.ScaleFactors

	quad    geometry.Quadrilateral
	seedSrc detection.Source
	drag    dragState

	onChange func(geometry.Quadrilateral)

	mu         sync.Mutex
	dismissed  bool
	processing bool
}

// NewSession computes the fit for the container, seeds the quadrilateral,
// and returns a ready-to-edit session. The seeded quad is always valid: if
// detection and the caller rectangle are both absent or unusable, the
// centered default is used.
func NewSession(naturalWidth, naturalHeight, containerWidth, containerHeight float64,
	fitOpts geometry.FitOptions, cfg Config, seed Seed, logger *slog.Logger,
) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.HandleRadius <= 0 {
		cfg.HandleRadius = DefaultConfig().HandleRadius
	}
	if cfg.MinQuadArea <= 0 {
		cfg.MinQuadArea = DefaultConfig().MinQuadArea
	}
	if cfg.DefaultFraction <= 0 || cfg.DefaultFraction > 1 {
		cfg.DefaultFraction = DefaultConfig().DefaultFraction
	}

	fit, err := geometry.Fit(naturalWidth, naturalHeight, containerWidth, containerHeight, fitOpts)
	if err != nil {
		return nil, fmt.Errorf("editor: %w", err)
	}
	scale, err := fit.Scale(naturalWidth, naturalHeight)
	if err != nil {
		return nil, fmt.Errorf("editor: %w", err)
	}

	cw, ch := geometry.EffectiveContainer(containerWidth, containerHeight, fitOpts)
	s := &Session{
		cfg:             cfg,
		logger:          logger,
		naturalWidth:    naturalWidth,
		naturalHeight:   naturalHeight,
		containerWidth:  cw,
		containerHeight: ch,
		fit:             fit,
		scale:           scale,
	}
	s.quad, s.seedSrc = s.seedQuad(seed)
	return s, nil
}

// seedQuad applies the seeding priority: detector corners, then the caller
// rectangle, then the centered default.
func (s *Session) seedQuad(seed Seed) (geometry.Quadrilateral, detection.Source) {
	if seed.Detection != nil {
		if natural, ok := seed.Detection.Corners(); ok {
			display, err := geometry.QuadToDisplay(natural, s.scale, s.fit)
			if err == nil && display.Valid(s.cfg.MinQuadArea) {
				return display, detection.SourceDetector
			}
			s.logger.Debug("detector corners rejected, falling back",
				"confidence", seed.Detection.Confidence, "err", err)
		}
	}
	if seed.Rect != nil && seed.Rect.IsFinite() && seed.Rect.Area() > 0 {
		natural := geometry.RectQuad(*seed.Rect)
		display, err := geometry.QuadToDisplay(natural, s.scale, s.fit)
		if err == nil && display.Valid(s.cfg.MinQuadArea) {
			return display, detection.SourceGeneric
		}
	}
	return geometry.DefaultQuad(s.fit, s.cfg.DefaultFraction), detection.SourceFallback
}

// Quad returns the current display-space quadrilateral.
func (s *Session) Quad() geometry.Quadrilateral { return s.quad }

// Fit returns the current fit of the image in its container.
func (s *Session) Fit() geometry.FitResult { return s.fit }

// Scale returns the current display/natural scale factors.
func (s *Session) Scale() geometry.ScaleFactors { return s.scale }

// SeedSource reports how the quadrilateral was initially seeded.
func (s *Session) SeedSource() detection.Source { return s.seedSrc }

// Valid reports whether the current quadrilateral passes validation. An
// invalid quad blocks the accept action while editing continues.
func (s *Session) Valid() bool { return s.quad.Valid(s.cfg.MinQuadArea) }

// OnChange registers a callback fired after every accepted corner move and
// re-projection, so the host can redraw the overlay and handles.
func (s *Session) OnChange(fn func(geometry.Quadrilateral)) { s.onChange = fn }

func (s *Session) notifyChange() {
	if s.onChange != nil {
		s.onChange(s.quad)
	}
}

// Resize recomputes the fit for a new container size and re-projects the
// existing quadrilateral through natural space into the new display space,
// so in-progress edits survive layout and orientation changes.
func (s *Session) Resize(containerWidth, containerHeight float64, fitOpts geometry.FitOptions) error {
	if s.isDismissed() {
		return ErrDismissed
	}
	natural, err := geometry.QuadToNatural(s.quad, s.scale, s.fit, s.naturalWidth, s.naturalHeight)
	if err != nil {
		return fmt.Errorf("editor resize: %w", err)
	}
	fit, err := geometry.Fit(s.naturalWidth, s.naturalHeight, containerWidth, containerHeight, fitOpts)
	if err != nil {
		return fmt.Errorf("editor resize: %w", err)
	}
	scale, err := fit.Scale(s.naturalWidth, s.naturalHeight)
	if err != nil {
		return fmt.Errorf("editor resize: %w", err)
	}
	display, err := geometry.QuadToDisplay(natural, scale, fit)
	if err != nil {
		return fmt.Errorf("editor resize: %w", err)
	}

	s.containerWidth, s.containerHeight = geometry.EffectiveContainer(containerWidth, containerHeight, fitOpts)
	s.fit = fit
	s.scale = scale
	s.quad = display
	s.drag = dragState{}
	s.notifyChange()
	return nil
}

// Accept converts the final quadrilateral to natural space and dispatches
// the crop. Edits are blocked while the call is in flight. If the session is
// dismissed before the result arrives, the result is discarded and
// ErrDismissed is returned.
func (s *Session) Accept(ctx context.Context, img image.Image, d *dispatch.Dispatcher) (dispatch.Result, error) {
	s.mu.Lock()
	if s.dismissed {
		s.mu.Unlock()
		return dispatch.Result{}, ErrDismissed
	}
	if s.processing {
		s.mu.Unlock()
		return dispatch.Result{}, ErrProcessing
	}
	if !s.quad.Valid(s.cfg.MinQuadArea) {
		s.mu.Unlock()
		return dispatch.Result{}, fmt.Errorf("editor accept: %w", dispatch.ErrInvalidGeometry)
	}
	s.processing = true
	s.mu.Unlock()

	res, err := d.Dispatch(ctx, img, s.quad, s.fit, s.scale)

	s.mu.Lock()
	s.processing = false
	dismissed := s.dismissed
	s.mu.Unlock()

	if dismissed {
		// Result arrived after dismissal; drop it without touching state.
		return dispatch.Result{}, ErrDismissed
	}
	return res, err
}

// Dismiss cancels the session. Any correction still in flight is discarded
// on arrival.
func (s *Session) Dismiss() {
	s.mu.Lock()
	s.dismissed = true
	s.mu.Unlock()
}

// Dismissed reports whether the session was cancelled.
func (s *Session) Dismissed() bool { return s.isDismissed() }

func (s *Session) isDismissed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dismissed
}

func (s *Session) isProcessing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing
}
