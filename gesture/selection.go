package gesture

import "fmt"

// Corner names a corner of the selection rectangle.
type Corner int

const (
	CornerNone Corner = iota
	CornerTopLeft
	CornerTopRight
	CornerBottomLeft
	CornerBottomRight
)

var cornerNames = map[Corner]string{
	CornerNone:        "none",
	CornerTopLeft:     "top_left",
	CornerTopRight:    "top_right",
	CornerBottomLeft:  "bottom_left",
	CornerBottomRight: "bottom_right",
}

func (c Corner) String() string {
	if name, ok := cornerNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Corner(%d)", int(c))
}

// hitTestOrder is the evaluation order of HitTestCorner. A later match
// overrides an earlier one.
var hitTestOrder = []Corner{CornerTopLeft, CornerTopRight, CornerBottomLeft, CornerBottomRight}

// SelectionRect is the region of interest. Edges are not kept ordered: a drag
// can move left past right or top past bottom.
type SelectionRect struct {
	Left   float32
	Right  float32
	Top    float32
	Bottom float32
}

// NewSelectionRect returns a width x height rectangle centred on (cx, cy).
func NewSelectionRect(cx, cy, width, height float32) SelectionRect {
	return SelectionRect{
		Left:   cx - width/2,
		Right:  cx + width/2,
		Top:    cy - height/2,
		Bottom: cy + height/2,
	}
}

// Inverted reports whether a drag has crossed opposite edges.
func (r SelectionRect) Inverted() bool {
	return r.Left > r.Right || r.Top > r.Bottom
}

func (r SelectionRect) cornerPoint(c Corner) (x, y float32) {
	switch c {
	case CornerTopLeft:
		return r.Left, r.Top
	case CornerTopRight:
		return r.Right, r.Top
	case CornerBottomLeft:
		return r.Left, r.Bottom
	case CornerBottomRight:
		return r.Right, r.Bottom
	}
	return 0, 0
}

// HitTestCorner returns the corner whose square of half-size radius contains
// (x, y). Corners are checked top-left, top-right, bottom-left, bottom-right
// and the last match wins, so overlapping hit areas resolve toward
// bottom-right.
func (r SelectionRect) HitTestCorner(x, y, radius float32) Corner {
	hit := CornerNone
	for _, c := range hitTestOrder {
		cx, cy := r.cornerPoint(c)
		if absf(x-cx) <= radius && absf(y-cy) <= radius {
			hit = c
		}
	}
	return hit
}

// DragCorner moves the edges meeting at c by (dx, dy). CornerNone is a no-op.
func (r *SelectionRect) DragCorner(c Corner, dx, dy float32) {
	switch c {
	case CornerTopLeft:
		r.Left += dx
		r.Top += dy
	case CornerTopRight:
		r.Right += dx
		r.Top += dy
	case CornerBottomLeft:
		r.Left += dx
		r.Bottom += dy
	case CornerBottomRight:
		r.Right += dx
		r.Bottom += dy
	}
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
