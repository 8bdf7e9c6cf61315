package commands

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/mobile-next/spectrogesture/gesture"
	"github.com/mobile-next/spectrogesture/surface"
	"github.com/mobile-next/spectrogesture/types"
	"github.com/mobile-next/spectrogesture/utils"
)

// ErrUnknownAction is returned for a script action type replay cannot perform.
var ErrUnknownAction = errors.New("unknown pointer action")

// moveStep is the interval at which timed pointerMove actions are sampled,
// roughly one display frame.
const moveStep = 16 * time.Millisecond

// ReplayRequest represents the parameters for replaying a gesture script
type ReplayRequest struct {
	Script types.GestureScript `json:"script"`
}

// ReplayResult is what a replayed script produced
type ReplayResult struct {
	Intents   []types.Intent     `json:"intents"`
	State     types.GestureState `json:"state"`
	Events    int                `json:"events"`
	ElapsedMs int64              `json:"elapsedMs"`
}

// ReplayCommand replays a gesture script against a fresh recognizer on a
// virtual clock
func ReplayCommand(req ReplayRequest) *CommandResponse {
	result, err := Replay(req.Script, BaseConfig())
	if err != nil {
		return NewErrorResponse(fmt.Errorf("failed to replay gesture: %w", err))
	}

	return NewSuccessResponse(result)
}

// Replay runs script through a new arbiter. Actions of all pointer sources
// are taken one tick at a time; pauses and timed moves advance the virtual
// clock, so long-press timing is exact and independent of wall time.
func Replay(script types.GestureScript, base gesture.Config) (*ReplayResult, error) {
	if err := validateScript(script); err != nil {
		return nil, err
	}

	cfg := ApplyConfig(base, script.Config)
	recorder := surface.NewRecorder()
	clock := gesture.NewVirtualClock()

	arbiter, err := gesture.NewArbiter(cfg, recorder, clock)
	if err != nil {
		return nil, err
	}
	defer arbiter.Close()

	if script.Surface != nil {
		arbiter.SetSurfaceSize(script.Surface.Width, script.Surface.Height)
	}

	p := &player{
		arbiter: arbiter,
		clock:   clock,
		slots:   make([]slot, len(script.Actions)),
	}

	ticks := 0
	for _, source := range script.Actions {
		if len(source.Actions) > ticks {
			ticks = len(source.Actions)
		}
	}

	for tick := 0; tick < ticks; tick++ {
		if err := p.playTick(script.Actions, tick); err != nil {
			return nil, fmt.Errorf("tick %d: %w", tick, err)
		}
	}

	if script.EndSelection {
		arbiter.DeactivateSelection()
	}

	utils.Verbose("Replayed %d ticks, %d events over %v", ticks, p.events, clock.Now())

	return &ReplayResult{
		Intents:   recorder.Drain(),
		State:     StateToWire(arbiter.Snapshot()),
		Events:    p.events,
		ElapsedMs: clock.Now().Milliseconds(),
	}, nil
}

func validateScript(script types.GestureScript) error {
	if len(script.Actions) == 0 {
		return fmt.Errorf("script has no pointer sources")
	}

	for i, source := range script.Actions {
		if source.Type != "" && source.Type != "pointer" {
			return fmt.Errorf("source %d (%s): unsupported source type %q", i, source.ID, source.Type)
		}
		for j, a := range source.Actions {
			switch a.Type {
			case types.ActionPointerDown, types.ActionPointerUp, types.ActionPointerMove,
				types.ActionPointerCancel, types.ActionPause:
			default:
				return fmt.Errorf("source %d (%s) action %d: %w: %q", i, source.ID, j, ErrUnknownAction, a.Type)
			}
			if a.Duration < 0 {
				return fmt.Errorf("source %d (%s) action %d: negative duration", i, source.ID, j)
			}
		}
	}
	return nil
}

// slot is the replay state of one pointer source.
type slot struct {
	down bool
	id   gesture.PointerID
	x, y float32
}

type player struct {
	arbiter *gesture.Arbiter
	clock   *gesture.VirtualClock
	slots   []slot
	events  int
}

type timedMove struct {
	src          int
	fromX, fromY float32
	toX, toY     float32
	duration     time.Duration
}

func (p *player) playTick(sources []types.PointerSource, tick int) error {
	var pause time.Duration
	var moves []timedMove
	instantMove := false

	for src, source := range sources {
		if tick >= len(source.Actions) {
			continue
		}

		a := source.Actions[tick]
		d := time.Duration(a.Duration) * time.Millisecond

		switch a.Type {
		case types.ActionPause:
			if d > pause {
				pause = d
			}
		case types.ActionPointerMove:
			s := &p.slots[src]
			if d > 0 && s.down {
				moves = append(moves, timedMove{src: src, fromX: s.x, fromY: s.y, toX: a.X, toY: a.Y, duration: d})
			} else {
				s.x, s.y = a.X, a.Y
				instantMove = instantMove || s.down
			}
		case types.ActionPointerDown:
			if a.X != 0 || a.Y != 0 {
				p.slots[src].x, p.slots[src].y = a.X, a.Y
			}
			if err := p.down(src); err != nil {
				return fmt.Errorf("source %s: %w", source.ID, err)
			}
		case types.ActionPointerUp:
			if err := p.up(src); err != nil {
				return fmt.Errorf("source %s: %w", source.ID, err)
			}
		case types.ActionPointerCancel:
			p.cancel()
		}
	}

	if instantMove {
		p.emitMove()
	}

	elapsed := p.playMoves(moves)
	if pause > elapsed {
		p.clock.Advance(pause - elapsed)
	}
	return nil
}

// playMoves interpolates timed moves in moveStep increments and returns the
// virtual time they took.
func (p *player) playMoves(moves []timedMove) time.Duration {
	var longest time.Duration
	for _, m := range moves {
		if m.duration > longest {
			longest = m.duration
		}
	}

	var elapsed time.Duration
	for elapsed < longest {
		step := moveStep
		if elapsed+step > longest {
			step = longest - elapsed
		}
		p.clock.Advance(step)
		elapsed += step

		for _, m := range moves {
			frac := float32(1)
			if elapsed < m.duration {
				frac = float32(elapsed) / float32(m.duration)
			}
			s := &p.slots[m.src]
			s.x = m.fromX + (m.toX-m.fromX)*frac
			s.y = m.fromY + (m.toY-m.fromY)*frac
		}
		p.emitMove()
	}
	return elapsed
}

// pointers returns the contacts that are down, ordered by pointer id as a
// platform would order pointer indices.
func (p *player) pointers() []gesture.Pointer {
	var out []gesture.Pointer
	for _, s := range p.slots {
		if s.down {
			out = append(out, gesture.Pointer{ID: s.id, X: s.x, Y: s.y})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (p *player) freeID() gesture.PointerID {
	used := map[gesture.PointerID]bool{}
	for _, s := range p.slots {
		if s.down {
			used[s.id] = true
		}
	}
	id := gesture.PointerID(0)
	for used[id] {
		id++
	}
	return id
}

func indexOf(pointers []gesture.Pointer, id gesture.PointerID) int {
	for i, ptr := range pointers {
		if ptr.ID == id {
			return i
		}
	}
	return -1
}

func (p *player) down(src int) error {
	s := &p.slots[src]
	if s.down {
		return fmt.Errorf("pointer is already down")
	}

	s.id = p.freeID()
	s.down = true

	pointers := p.pointers()
	kind := gesture.EventPointerDown
	if len(pointers) == 1 {
		kind = gesture.EventDown
	}
	p.emit(gesture.Event{Kind: kind, ActionIndex: indexOf(pointers, s.id), Pointers: pointers})
	return nil
}

func (p *player) up(src int) error {
	s := &p.slots[src]
	if !s.down {
		return fmt.Errorf("pointer is not down")
	}

	pointers := p.pointers()
	kind := gesture.EventPointerUp
	if len(pointers) == 1 {
		kind = gesture.EventUp
	}
	p.emit(gesture.Event{Kind: kind, ActionIndex: indexOf(pointers, s.id), Pointers: pointers})

	s.down = false
	return nil
}

// cancel aborts the whole gesture, lifting every pointer.
func (p *player) cancel() {
	pointers := p.pointers()
	if len(pointers) == 0 {
		return
	}

	p.emit(gesture.Event{Kind: gesture.EventCancel, Pointers: pointers})
	for i := range p.slots {
		p.slots[i].down = false
	}
}

func (p *player) emitMove() {
	pointers := p.pointers()
	if len(pointers) == 0 {
		return
	}
	p.emit(gesture.Event{Kind: gesture.EventMove, Pointers: pointers})
}

func (p *player) emit(ev gesture.Event) {
	p.events++
	p.arbiter.HandleEvent(ev)
}
