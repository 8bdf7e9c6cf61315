package terminal

import (
	"fmt"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mobile-next/spectrogesture/gesture"
)

// Pixel size of one terminal cell. Touch coordinates and the selection
// rectangle are in pixels, the way a real surface would report them.
const (
	CellWidth  = 8
	CellHeight = 16
)

// shades maps intensity to a glyph, darkest first.
var shades = []rune{' ', '·', '░', '▒', '▓', '█'}

// View is a scrolling spectrogram drawn in a terminal. It implements
// gesture.Surface; the columns are synthetic.
type View struct {
	mu sync.Mutex

	scrolling bool
	head      int // index of the newest column
	offsetPx  int // how far the view is slid back from the newest column

	rect    gesture.SelectionRect
	hasRect bool

	width, height int // surface size in pixels

	// onChange is called after every intent, possibly from a timer goroutine.
	onChange func()
}

func NewView() *View {
	return &View{scrolling: true}
}

// OnChange sets the callback run after the view state changes.
func (v *View) OnChange(fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onChange = fn
}

func (v *View) changed() {
	v.mu.Lock()
	fn := v.onChange
	v.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (v *View) PauseScrolling() {
	v.mu.Lock()
	v.scrolling = false
	v.mu.Unlock()
	v.changed()
}

func (v *View) ResumeScrolling() {
	v.mu.Lock()
	v.scrolling = true
	v.offsetPx = 0
	v.hasRect = false
	v.mu.Unlock()
	v.changed()
}

// QuickSlide moves the view by deltaPixels; dragging right reveals older columns.
func (v *View) QuickSlide(deltaPixels int) {
	v.mu.Lock()
	v.offsetPx += deltaPixels
	if v.offsetPx < 0 {
		v.offsetPx = 0
	}
	if limit := v.head * CellWidth; v.offsetPx > limit {
		v.offsetPx = limit
	}
	v.mu.Unlock()
	v.changed()
}

func (v *View) SetSurfaceSize(width, height int) {
	v.mu.Lock()
	v.width, v.height = width, height
	v.mu.Unlock()
	v.changed()
}

func (v *View) DrawSelectRect(left, right, top, bottom float32) {
	v.mu.Lock()
	v.rect = gesture.SelectionRect{Left: left, Right: right, Top: top, Bottom: bottom}
	v.hasRect = true
	v.mu.Unlock()
	v.changed()
}

// Advance appends a column while auto-scroll is running.
func (v *View) Advance() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.scrolling {
		return false
	}
	v.head++
	return true
}

// ViewState is a copy of what the view shows.
type ViewState struct {
	Scrolling bool
	Head      int
	OffsetPx  int
	Rect      gesture.SelectionRect
	HasRect   bool
	Width     int
	Height    int
}

func (v *View) State() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()

	return ViewState{
		Scrolling: v.scrolling,
		Head:      v.head,
		OffsetPx:  v.offsetPx,
		Rect:      v.rect,
		HasRect:   v.hasRect,
		Width:     v.width,
		Height:    v.height,
	}
}

// intensity is the synthetic magnitude of frequency bin row at column col, in [0,1].
func intensity(col, row, rows int) float64 {
	if col < 0 {
		return 0
	}
	c, r := float64(col), float64(rows-row)
	v := 0.5 + 0.35*math.Sin(c*0.13+r*0.45)*math.Cos(c*0.031) + 0.15*math.Sin(c*0.7+r*r*0.05)
	return math.Max(0, math.Min(1, v))
}

func shade(x float64) rune {
	i := int(x * float64(len(shades)-1))
	return shades[i]
}

// Render draws the spectrogram into the top rows of screen and a status line
// into the last row.
func (v *View) Render(screen tcell.Screen, status string) {
	st := v.State()
	cols, rows := screen.Size()
	if cols <= 0 || rows <= 0 {
		return
	}
	plotRows := rows - 1

	base := tcell.StyleDefault
	for x := 0; x < cols; x++ {
		col := st.Head - st.OffsetPx/CellWidth - (cols - 1 - x)
		for y := 0; y < plotRows; y++ {
			level := intensity(col, y, plotRows)
			style := base.Foreground(tcell.PaletteColor(232 + int(level*23)))
			screen.SetContent(x, y, shade(level), nil, style)
		}
	}

	if st.HasRect {
		drawBox(screen, st.Rect, cols, plotRows)
	}

	for x := 0; x < cols; x++ {
		screen.SetContent(x, rows-1, ' ', nil, base.Reverse(true))
	}
	for i, r := range []rune(status) {
		if i >= cols {
			break
		}
		screen.SetContent(i, rows-1, r, nil, base.Reverse(true))
	}
}

// drawBox outlines a pixel rectangle in cells. Inverted rectangles are
// normalised for drawing only.
func drawBox(screen tcell.Screen, r gesture.SelectionRect, cols, rows int) {
	left, right := r.Left, r.Right
	if left > right {
		left, right = right, left
	}
	top, bottom := r.Top, r.Bottom
	if top > bottom {
		top, bottom = bottom, top
	}

	x0, x1 := toCell(left, CellWidth), toCell(right, CellWidth)
	y0, y1 := toCell(top, CellHeight), toCell(bottom, CellHeight)
	style := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)

	put := func(x, y int, ch rune) {
		if x >= 0 && x < cols && y >= 0 && y < rows {
			screen.SetContent(x, y, ch, nil, style)
		}
	}

	for x := x0; x <= x1; x++ {
		put(x, y0, '─')
		put(x, y1, '─')
	}
	for y := y0; y <= y1; y++ {
		put(x0, y, '│')
		put(x1, y, '│')
	}
	put(x0, y0, '┌')
	put(x1, y0, '┐')
	put(x0, y1, '└')
	put(x1, y1, '┘')
}

func toCell(px float32, size int) int {
	return int(math.Floor(float64(px) / float64(size)))
}

func statusLine(mode gesture.Mode, st ViewState) string {
	scroll := "live"
	if !st.Scrolling {
		scroll = "paused"
	}
	return fmt.Sprintf(" %s | %s | slide %dpx | %dx%dpx | drag: pan  hold: select  d: done  q: quit",
		mode, scroll, st.OffsetPx, st.Width, st.Height)
}
