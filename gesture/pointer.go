package gesture

// TouchPointer is the active contact and the last position it was seen at.
type TouchPointer struct {
	ID    PointerID
	LastX float32
	LastY float32
}

// PointerTracker follows the single active pointer through a multi-touch
// stream. Contacts other than the active one are ignored.
type PointerTracker struct {
	active TouchPointer
}

func NewPointerTracker() *PointerTracker {
	t := &PointerTracker{}
	t.Reset()
	return t
}

func (t *PointerTracker) Active() TouchPointer {
	return t.active
}

func (t *PointerTracker) HasActive() bool {
	return t.active.ID != InvalidPointerID
}

// Down makes id the active pointer, baselined at (x, y).
func (t *PointerTracker) Down(id PointerID, x, y float32) TouchPointer {
	t.active = TouchPointer{ID: id, LastX: x, LastY: y}
	return t.active
}

// Move returns the displacement of the active pointer since its last recorded
// position and records (x, y) as the new baseline. ok is false, and nothing
// changes, when id is not the active pointer.
func (t *PointerTracker) Move(id PointerID, x, y float32) (dx, dy float32, ok bool) {
	if !t.HasActive() || id != t.active.ID {
		return 0, 0, false
	}

	dx = x - t.active.LastX
	dy = y - t.active.LastY
	t.active.LastX = x
	t.active.LastY = y
	return dx, dy, true
}

// HandOff handles one contact lifting while others stay down. pointers is the
// event's pointer list, still including the lifted contact at liftedIndex. If
// the lifted contact was active, the contact at the fallback index becomes
// active and is re-baselined so the next move does not jump. It reports
// whether a successor was promoted.
func (t *PointerTracker) HandOff(liftedIndex int, pointers []Pointer) bool {
	if liftedIndex < 0 || liftedIndex >= len(pointers) {
		return false
	}
	if !t.HasActive() || pointers[liftedIndex].ID != t.active.ID {
		return false
	}

	next := fallbackIndex(liftedIndex)
	if next >= len(pointers) {
		t.Reset()
		return false
	}

	successor := pointers[next]
	t.active = TouchPointer{ID: successor.ID, LastX: successor.X, LastY: successor.Y}
	return true
}

// Reset forgets the active pointer.
func (t *PointerTracker) Reset() {
	t.active = TouchPointer{ID: InvalidPointerID}
}

// fallbackIndex picks slot 0, or slot 1 when slot 0 is the one lifting. This
// is not necessarily the next remaining contact in a three-finger gesture.
func fallbackIndex(liftedIndex int) int {
	if liftedIndex == 0 {
		return 1
	}
	return 0
}
