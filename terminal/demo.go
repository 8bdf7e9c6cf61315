package terminal

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mobile-next/spectrogesture/gesture"
	"github.com/mobile-next/spectrogesture/surface"
	"github.com/mobile-next/spectrogesture/types"
	"github.com/mobile-next/spectrogesture/utils"
)

// scrollInterval is how often a new column arrives while auto-scroll runs.
const scrollInterval = 120 * time.Millisecond

// interrupt payloads
type (
	tick    struct{}
	refresh struct{}
)

// Demo feeds mouse input from a terminal to an arbiter driving a View. The
// left button acts as a single touch pointer.
type Demo struct {
	screen   tcell.Screen
	view     *View
	recorder *surface.Recorder
	arbiter  *gesture.Arbiter
	pressed  bool
}

// NewDemo builds a demo on screen. With record set, every intent is also
// kept for Intents.
func NewDemo(screen tcell.Screen, cfg gesture.Config, scheduler gesture.Scheduler, record bool) (*Demo, error) {
	view := NewView()
	targets := surface.Tee{view}

	var recorder *surface.Recorder
	if record {
		recorder = surface.NewRecorder()
		targets = append(targets, recorder)
	}

	arbiter, err := gesture.NewArbiter(cfg, targets, scheduler)
	if err != nil {
		return nil, err
	}

	// the long-press fires off the event loop, so wake it to redraw
	view.OnChange(func() {
		_ = screen.PostEvent(tcell.NewEventInterrupt(refresh{}))
	})

	d := &Demo{screen: screen, view: view, recorder: recorder, arbiter: arbiter}
	d.resize(screen.Size())
	return d, nil
}

func (d *Demo) View() *View {
	return d.view
}

func (d *Demo) Arbiter() *gesture.Arbiter {
	return d.arbiter
}

// Intents returns every intent emitted since the previous call. It is always
// empty for a demo that does not record.
func (d *Demo) Intents() []types.Intent {
	if d.recorder == nil {
		return []types.Intent{}
	}
	return d.recorder.Drain()
}

// HandleEvent processes one terminal event and redraws. It reports whether
// the user asked to quit.
func (d *Demo) HandleEvent(ev tcell.Event) (quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return true
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return true
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'd':
			d.arbiter.DeactivateSelection()
		}
	case *tcell.EventMouse:
		d.handleMouse(ev)
	case *tcell.EventResize:
		d.screen.Sync()
		d.resize(ev.Size())
	case *tcell.EventInterrupt:
		if _, ok := ev.Data().(tick); ok {
			d.view.Advance()
		}
	}

	d.draw()
	return false
}

func (d *Demo) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	px, py := cellToPixel(x, y)
	pointers := []gesture.Pointer{{ID: 0, X: px, Y: py}}

	down := ev.Buttons()&tcell.Button1 != 0
	switch {
	case down && !d.pressed:
		d.pressed = true
		d.arbiter.HandleEvent(gesture.Event{Kind: gesture.EventDown, Pointers: pointers})
	case down:
		d.arbiter.HandleEvent(gesture.Event{Kind: gesture.EventMove, Pointers: pointers})
	case d.pressed:
		d.pressed = false
		d.arbiter.HandleEvent(gesture.Event{Kind: gesture.EventUp, Pointers: pointers})
	}
}

// cellToPixel returns the pixel at the centre of a cell.
func cellToPixel(x, y int) (float32, float32) {
	return float32(x*CellWidth + CellWidth/2), float32(y*CellHeight + CellHeight/2)
}

// resize reports the plot area, which excludes the status row.
func (d *Demo) resize(cols, rows int) {
	if rows > 0 {
		rows--
	}
	d.arbiter.SetSurfaceSize(cols*CellWidth, rows*CellHeight)
}

func (d *Demo) draw() {
	d.view.Render(d.screen, statusLine(d.arbiter.Mode(), d.view.State()))
	d.screen.Show()
}

func (d *Demo) Close() {
	d.arbiter.Close()
}

// Run takes over the terminal until the user quits. When recordPath is set,
// the intents of the session are written there as JSON on exit.
func Run(cfg gesture.Config, recordPath string) (err error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()

	screen.EnableMouse()
	screen.HideCursor()

	// log lines would tear the screen
	utils.SetOutput(io.Discard)
	defer utils.SetOutput(os.Stderr)

	demo, err := NewDemo(screen, cfg, nil, recordPath != "")
	if err != nil {
		return err
	}
	defer demo.Close()

	if recordPath != "" {
		defer func() {
			if writeErr := writeIntents(recordPath, demo.Intents()); writeErr != nil && err == nil {
				err = writeErr
			}
		}()
	}

	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(scrollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				_ = screen.PostEvent(tcell.NewEventInterrupt(tick{}))
			case <-done:
				return
			}
		}
	}()

	demo.draw()
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return nil
		}
		if demo.HandleEvent(ev) {
			return nil
		}
	}
}

func writeIntents(path string, intents []types.Intent) error {
	data, err := json.MarshalIndent(intents, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode intents: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write intents to %s: %w", path, err)
	}
	return nil
}
