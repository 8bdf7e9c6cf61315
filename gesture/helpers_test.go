package gesture

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// callRecorder is a Surface that logs every call as a string.
type callRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *callRecorder) add(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *callRecorder) PauseScrolling() { r.add("pause") }
func (r *callRecorder) ResumeScrolling() { r.add("resume") }
func (r *callRecorder) QuickSlide(delta int) { r.add("slide %d", delta) }
func (r *callRecorder) SetSurfaceSize(w, h int) { r.add("size %dx%d", w, h) }
func (r *callRecorder) DrawSelectRect(l, rt, t, b float32) {
	r.add("rect %g %g %g %g", l, rt, t, b)
}

func (r *callRecorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *callRecorder) count(prefix string) int {
	n := 0
	for _, c := range r.Calls() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func newTestArbiter(t *testing.T) (*Arbiter, *callRecorder, *VirtualClock) {
	t.Helper()
	surface := &callRecorder{}
	clock := NewVirtualClock()
	a, err := NewArbiter(DefaultConfig(), surface, clock)
	require.NoError(t, err)
	return a, surface, clock
}

func down(id PointerID, x, y float32) Event {
	return Event{Kind: EventDown, Pointers: []Pointer{{ID: id, X: x, Y: y}}}
}

func move(pointers ...Pointer) Event {
	return Event{Kind: EventMove, Pointers: pointers}
}

func up(id PointerID, x, y float32) Event {
	return Event{Kind: EventUp, Pointers: []Pointer{{ID: id, X: x, Y: y}}}
}

func pt(id PointerID, x, y float32) Pointer {
	return Pointer{ID: id, X: x, Y: y}
}

// enterSelection long-presses at (x, y) and releases.
func enterSelection(t *testing.T, a *Arbiter, clock *VirtualClock, x, y float32) {
	t.Helper()
	a.HandleEvent(down(0, x, y))
	clock.Advance(DefaultLongPressTimeout)
	a.HandleEvent(up(0, x, y))
	require.Equal(t, ModeSelecting, a.Mode())
}

