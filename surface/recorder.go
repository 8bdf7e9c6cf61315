package surface

import (
	"sync"

	"github.com/mobile-next/spectrogesture/types"
)

// Recorder is a gesture surface that keeps every intent it receives so that
// callers without a real display (the server, script replay) can report them.
type Recorder struct {
	mu        sync.Mutex
	intents   []types.Intent
	listeners map[int]func(types.Intent)
	nextID    int
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// Subscribe registers fn to be called for every intent as it is recorded and
// returns a function that removes it. fn runs while the recognizer holds its
// lock and must not block or call back into it.
func (r *Recorder) Subscribe(fn func(types.Intent)) (unsubscribe func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.listeners == nil {
		r.listeners = make(map[int]func(types.Intent))
	}
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.listeners, id)
	}
}

func (r *Recorder) record(intent types.Intent) {
	r.mu.Lock()
	r.intents = append(r.intents, intent)
	listeners := make([]func(types.Intent), 0, len(r.listeners))
	for _, fn := range r.listeners {
		listeners = append(listeners, fn)
	}
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(intent)
	}
}

// Drain returns the intents recorded since the previous Drain and forgets them.
func (r *Recorder) Drain() []types.Intent {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.intents
	r.intents = nil
	if out == nil {
		out = []types.Intent{}
	}
	return out
}

// Len returns the number of intents waiting to be drained.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.intents)
}

func (r *Recorder) PauseScrolling() {
	r.record(types.Intent{Type: types.IntentPauseScrolling})
}

func (r *Recorder) ResumeScrolling() {
	r.record(types.Intent{Type: types.IntentResumeScrolling})
}

func (r *Recorder) QuickSlide(deltaPixels int) {
	r.record(types.Intent{Type: types.IntentQuickSlide, Delta: deltaPixels})
}

func (r *Recorder) SetSurfaceSize(width, height int) {
	r.record(types.Intent{Type: types.IntentSurfaceSize, Width: width, Height: height})
}

func (r *Recorder) DrawSelectRect(left, right, top, bottom float32) {
	r.record(types.Intent{
		Type: types.IntentDrawSelectRect,
		Rect: &types.SelectRect{Left: left, Right: right, Top: top, Bottom: bottom},
	})
}
