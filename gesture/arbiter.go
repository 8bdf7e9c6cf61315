package gesture

import (
	"fmt"
	"sync"

	"github.com/mobile-next/spectrogesture/utils"
)

// Mode is the interaction mode of the arbiter.
type Mode int

const (
	ModeIdle Mode = iota
	ModePanning
	ModeSelecting
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModePanning:
		return "panning"
	case ModeSelecting:
		return "selecting"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// GestureState is everything the arbiter mutates while handling events.
type GestureState struct {
	Mode Mode
	// Rect is only meaningful while HasRect is set.
	Rect    SelectionRect
	HasRect bool
	// Corner is the corner dragged by the current touch. It is only chosen on
	// a down in ModeSelecting; a firing long-press leaves it alone.
	Corner Corner
	// DownX and DownY are the coordinates of the latest down; a fired
	// long-press centres the rectangle on them.
	DownX float32
	DownY float32

	Pointers  *PointerTracker
	LongPress *LongPressTimer
}

// State is a read-only copy of the arbiter's state.
type State struct {
	Mode             Mode
	Rect             SelectionRect
	HasRect          bool
	Corner           Corner
	ActivePointer    TouchPointer
	LongPressPending bool
}

// Arbiter turns a raw touch stream into pan and selection intents on a Surface.
// All entry points, including the long-press callback, are serialized by one
// mutex, so it may be fed from any goroutine.
type Arbiter struct {
	mu      sync.Mutex
	config  Config
	surface Surface
	state   GestureState
	closed  bool
}

// NewArbiter validates cfg and returns an arbiter in ModeIdle. A nil scheduler
// means wall-clock time.
func NewArbiter(cfg Config, surface Surface, scheduler Scheduler) (*Arbiter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if surface == nil {
		return nil, fmt.Errorf("surface is required")
	}

	return &Arbiter{
		config:  cfg,
		surface: surface,
		state: GestureState{
			Mode:      ModeIdle,
			Corner:    CornerNone,
			Pointers:  NewPointerTracker(),
			LongPress: NewLongPressTimer(scheduler, cfg.LongPressTimeout),
		},
	}, nil
}

func (a *Arbiter) Config() Config {
	return a.config
}

// HandleEvent applies one touch event. Events that reference unknown pointers
// or are otherwise malformed are ignored.
func (a *Arbiter) HandleEvent(ev Event) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}

	a.step(&a.state, ev)
}

func (a *Arbiter) step(s *GestureState, ev Event) {
	switch ev.Kind {
	case EventDown:
		a.onDown(s, ev)
	case EventMove:
		a.onMove(s, ev)
	case EventUp, EventCancel:
		a.cancelLongPress(s, ev.Kind.String())
		s.Pointers.Reset()
		if s.Mode == ModePanning {
			s.Mode = ModeIdle
		}
	case EventPointerDown:
		a.cancelLongPress(s, ev.Kind.String())
	case EventPointerUp:
		a.cancelLongPress(s, ev.Kind.String())
		if s.Pointers.HandOff(ev.ActionIndex, ev.Pointers) {
			utils.Verbose("Active pointer handed off to %d", s.Pointers.Active().ID)
		}
	default:
		utils.Verbose("Ignoring touch event of unknown kind %v", ev.Kind)
	}
}

func (a *Arbiter) onDown(s *GestureState, ev Event) {
	p, ok := ev.actionPointer()
	if !ok {
		utils.Verbose("Ignoring down event with action index %d and %d pointers", ev.ActionIndex, len(ev.Pointers))
		return
	}

	a.surface.PauseScrolling()

	s.DownX, s.DownY = p.X, p.Y
	if s.Mode == ModePanning {
		s.Mode = ModeIdle
	}

	s.LongPress.Arm(a.fireLongPress)
	utils.Verbose("Long-press timer started at (%.1f,%.1f)", p.X, p.Y)

	s.Pointers.Down(p.ID, p.X, p.Y)

	if s.Mode == ModeSelecting {
		s.Corner = s.Rect.HitTestCorner(p.X, p.Y, a.config.CornerRadius)
		utils.Verbose("Dragging corner: %s", s.Corner)
	}
}

func (a *Arbiter) onMove(s *GestureState, ev Event) {
	if !s.Pointers.HasActive() {
		return
	}

	p, ok := ev.find(s.Pointers.Active().ID)
	if !ok {
		return
	}

	dx, dy, ok := s.Pointers.Move(p.ID, p.X, p.Y)
	if !ok {
		return
	}

	// the long-press stays armed while resizing; holding past the timeout
	// re-centres the rectangle on the down point
	if s.Mode == ModeSelecting {
		s.Rect.DragCorner(s.Corner, dx, dy)
		a.drawRect(s)
		return
	}

	if absf(dx) > a.config.PanThreshold {
		a.cancelLongPress(s, "pan")
		s.Mode = ModePanning
		a.surface.QuickSlide(int(dx))
	}
}

// fireLongPress runs on the scheduler's goroutine. The token check drops a
// callback that lost a race with Cancel or a newer Arm.
func (a *Arbiter) fireLongPress(tok Token) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := &a.state
	if a.closed || !s.LongPress.Consume(tok) {
		utils.Verbose("Dropping stale long-press callback %d", tok)
		return
	}

	utils.Verbose("Long press detected.")
	s.Rect = NewSelectionRect(s.DownX, s.DownY, a.config.SelectWidth, a.config.SelectHeight)
	s.HasRect = true
	s.Mode = ModeSelecting
	a.drawRect(s)
}

func (a *Arbiter) cancelLongPress(s *GestureState, reason string) {
	if s.LongPress.Cancel() {
		utils.Verbose("Long-press timer cancelled (%s).", reason)
	}
}

func (a *Arbiter) drawRect(s *GestureState) {
	r := s.Rect
	a.surface.DrawSelectRect(r.Left, r.Right, r.Top, r.Bottom)
}

// DeactivateSelection leaves selection mode and resumes scrolling. The
// recognizer never does this on its own; the host calls it when the user is
// done with the selection.
func (a *Arbiter) DeactivateSelection() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}

	s := &a.state
	a.cancelLongPress(s, "selection ended")
	s.Mode = ModeIdle
	s.Corner = CornerNone
	s.HasRect = false
	a.surface.ResumeScrolling()
}

// SetSurfaceSize forwards a layout change to the surface.
func (a *Arbiter) SetSurfaceSize(width, height int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	a.surface.SetSurfaceSize(width, height)
}

func (a *Arbiter) Snapshot() State {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := &a.state
	return State{
		Mode:             s.Mode,
		Rect:             s.Rect,
		HasRect:          s.HasRect,
		Corner:           s.Corner,
		ActivePointer:    s.Pointers.Active(),
		LongPressPending: s.LongPress.Pending(),
	}
}

func (a *Arbiter) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.Mode
}

// Close cancels any pending long-press. Later calls are ignored.
func (a *Arbiter) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	a.closed = true
	a.state.LongPress.Cancel()
}
