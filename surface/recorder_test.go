package surface

import (
	"testing"
	"time"

	"github.com/mobile-next/spectrogesture/gesture"
	"github.com/mobile-next/spectrogesture/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ gesture.Surface = (*Recorder)(nil)
var _ gesture.Surface = Tee(nil)

func TestRecorder_DrainReturnsAndClears(t *testing.T) {
	r := NewRecorder()

	r.PauseScrolling()
	r.QuickSlide(-15)
	r.SetSurfaceSize(800, 600)
	r.DrawSelectRect(1, 2, 3, 4)
	r.ResumeScrolling()

	assert.Equal(t, 5, r.Len())
	assert.Equal(t, []types.Intent{
		{Type: types.IntentPauseScrolling},
		{Type: types.IntentQuickSlide, Delta: -15},
		{Type: types.IntentSurfaceSize, Width: 800, Height: 600},
		{Type: types.IntentDrawSelectRect, Rect: &types.SelectRect{Left: 1, Right: 2, Top: 3, Bottom: 4}},
		{Type: types.IntentResumeScrolling},
	}, r.Drain())

	assert.Equal(t, 0, r.Len())
	assert.Equal(t, []types.Intent{}, r.Drain(), "empty drain is a non-nil slice for JSON")
}

func TestRecorder_ListenerSeesIntents(t *testing.T) {
	r := NewRecorder()
	var seen, other []string
	unsubscribe := r.Subscribe(func(i types.Intent) {
		seen = append(seen, i.Type)
	})
	r.Subscribe(func(i types.Intent) {
		other = append(other, i.Type)
	})

	r.PauseScrolling()
	r.QuickSlide(3)
	unsubscribe()
	unsubscribe()
	r.ResumeScrolling()

	assert.Equal(t, []string{types.IntentPauseScrolling, types.IntentQuickSlide}, seen)
	assert.Equal(t, []string{types.IntentPauseScrolling, types.IntentQuickSlide, types.IntentResumeScrolling}, other)
	assert.Equal(t, 3, r.Len(), "listeners do not consume intents")
}

func TestTee_FansOut(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	tee := Tee{a, b}

	tee.PauseScrolling()
	tee.QuickSlide(11)
	tee.SetSurfaceSize(1, 2)
	tee.DrawSelectRect(0, 0, 0, 0)
	tee.ResumeScrolling()

	assert.Equal(t, a.Drain(), b.Drain())
}

func TestRecorder_DrivenByArbiter(t *testing.T) {
	r := NewRecorder()
	clock := gesture.NewVirtualClock()
	arbiter, err := gesture.NewArbiter(gesture.DefaultConfig(), r, clock)
	require.NoError(t, err)

	arbiter.HandleEvent(gesture.Event{Kind: gesture.EventDown, Pointers: []gesture.Pointer{{ID: 0, X: 100, Y: 100}}})
	clock.Advance(time.Second)

	intents := r.Drain()
	require.Len(t, intents, 2)
	assert.Equal(t, types.IntentPauseScrolling, intents[0].Type)
	assert.Equal(t, &types.SelectRect{Left: 0, Right: 200, Top: 0, Bottom: 200}, intents[1].Rect)
}
