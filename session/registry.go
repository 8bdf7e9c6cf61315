package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mobile-next/spectrogesture/gesture"
	"github.com/mobile-next/spectrogesture/surface"
	"github.com/mobile-next/spectrogesture/utils"
)

// DefaultCapacity is the number of live sessions kept before the least
// recently used one is closed.
const DefaultCapacity = 64

var ErrNotFound = errors.New("session not found")

// Session is one gesture recognizer bound to a recording surface.
type Session struct {
	ID        string
	Arbiter   *gesture.Arbiter
	Recorder  *surface.Recorder
	CreatedAt time.Time
}

// Registry tracks live sessions. Sessions are closed when evicted, removed or
// when CleanupAll runs at shutdown.
type Registry struct {
	mu        sync.Mutex
	cache     *lru.Cache[string, *Session]
	scheduler gesture.Scheduler
}

// NewRegistry creates a registry holding up to capacity sessions. A nil
// scheduler means wall-clock timers.
func NewRegistry(capacity int, scheduler gesture.Scheduler) (*Registry, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	cache, err := lru.NewWithEvict[string, *Session](capacity, func(id string, s *Session) {
		utils.Verbose("Closing session %s", id)
		s.Arbiter.Close()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}

	return &Registry{
		cache:     cache,
		scheduler: scheduler,
	}, nil
}

// Create starts a new session with the given recognizer config.
func (r *Registry) Create(cfg gesture.Config) (*Session, error) {
	recorder := surface.NewRecorder()
	arbiter, err := gesture.NewArbiter(cfg, recorder, r.scheduler)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:        uuid.NewString(),
		Arbiter:   arbiter,
		Recorder:  recorder,
		CreatedAt: time.Now(),
	}

	r.mu.Lock()
	r.cache.Add(s.ID, s)
	r.mu.Unlock()

	utils.Verbose("Created session %s", s.ID)
	return s, nil
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// Close removes and closes one session.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.cache.Remove(id) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// CleanupAll closes every session.
func (r *Registry) CleanupAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cache.Len() == 0 {
		return
	}
	r.cache.Purge()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.Len()
}
