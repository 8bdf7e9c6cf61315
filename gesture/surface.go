package gesture

// Surface is the rendering backend the arbiter drives. Calls are made while the
// arbiter holds its lock, so implementations must not call back into it.
type Surface interface {
	// PauseScrolling stops the autonomous scroll animation.
	PauseScrolling()
	// ResumeScrolling restarts it once the host has left selection mode.
	ResumeScrolling()
	// QuickSlide scrolls the display horizontally by deltaPixels.
	QuickSlide(deltaPixels int)
	SetSurfaceSize(width, height int)
	DrawSelectRect(left, right, top, bottom float32)
}
