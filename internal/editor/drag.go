package editor

import (
	"github.com/framelift/quadcrop/internal/geometry"
)

// dragState is the two-state machine behind corner manipulation: idle, or
// dragging exactly one corner. A second pointer going down while a drag is
// active is ignored until the first completes.
type dragState struct {
	active bool
	corner geometry.Corner
	last   geometry.Point
}

// PointerDown begins a drag if pos hits a corner handle. It works the same
// for mouse and touch input; the caller delivers positions in display space.
// Returns true when a drag started.
func (s *Session) PointerDown(pos geometry.Point) bool {
	if s.isDismissed() || s.isProcessing() || s.drag.active {
		return false
	}
	if !pos.IsFinite() {
		return false
	}
	corner, ok := s.hitCorner(pos)
	if !ok {
		return false
	}
	s.drag = dragState{active: true, corner: corner, last: pos}
	s.logger.Debug("drag started", "corner", corner.String())
	return true
}

// PointerMove applies the movement delta since the last event to the
// dragged corner only; the other three corners are untouched so the shape
// may become trapezoidal. The moved corner is clamped to the displayed image
// rectangle. Returns true when the quad changed.
func (s *Session) PointerMove(pos geometry.Point) bool {
	if !s.drag.active || !pos.IsFinite() {
		return false
	}
	dx := pos.X - s.drag.last.X
	dy := pos.Y - s.drag.last.Y
	s.drag.last = pos
	if dx == 0 && dy == 0 {
		return false
	}

	current := s.quad.Corner(s.drag.corner)
	moved := geometry.ClampToDisplay(geometry.Point{X: current.X + dx, Y: current.Y + dy}, s.fit)
	if moved == current {
		return false
	}
	s.quad = s.quad.WithCorner(s.drag.corner, moved)
	s.notifyChange()
	return true
}

// PointerUp ends the active drag.
func (s *Session) PointerUp() {
	if !s.drag.active {
		return
	}
	s.logger.Debug("drag finished", "corner", s.drag.corner.String())
	s.drag = dragState{}
}

// PointerCancel aborts the active drag, keeping the corner where the last
// accepted move left it.
func (s *Session) PointerCancel() {
	s.drag = dragState{}
}

// Dragging reports the corner currently being dragged, if any.
func (s *Session) Dragging() (geometry.Corner, bool) {
	return s.drag.corner, s.drag.active
}

// hitCorner finds the nearest corner handle within the hit radius.
func (s *Session) hitCorner(pos geometry.Point) (geometry.Corner, bool) {
	best := geometry.TopLeft
	bestDist := s.cfg.HandleRadius + 1
	for _, c := range geometry.Corners {
		d := pos.Dist(s.quad.Corner(c))
		if d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best, bestDist <= s.cfg.HandleRadius
}
