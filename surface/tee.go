package surface

import "github.com/mobile-next/spectrogesture/gesture"

// Tee forwards every call to each surface in order.
type Tee []gesture.Surface

func (t Tee) PauseScrolling() {
	for _, s := range t {
		s.PauseScrolling()
	}
}

func (t Tee) ResumeScrolling() {
	for _, s := range t {
		s.ResumeScrolling()
	}
}

func (t Tee) QuickSlide(deltaPixels int) {
	for _, s := range t {
		s.QuickSlide(deltaPixels)
	}
}

func (t Tee) SetSurfaceSize(width, height int) {
	for _, s := range t {
		s.SetSurfaceSize(width, height)
	}
}

func (t Tee) DrawSelectRect(left, right, top, bottom float32) {
	for _, s := range t {
		s.DrawSelectRect(left, right, top, bottom)
	}
}
