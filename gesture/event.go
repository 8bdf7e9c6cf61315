package gesture

import "fmt"

// PointerID identifies one touch contact for the lifetime of its gesture.
type PointerID int

// InvalidPointerID marks "no active pointer".
const InvalidPointerID PointerID = -1

// EventKind is the masked action of a touch event.
type EventKind int

const (
	EventDown EventKind = iota
	EventMove
	EventUp
	EventCancel
	EventPointerDown
	EventPointerUp
)

var eventKindNames = map[EventKind]string{
	EventDown:        "down",
	EventMove:        "move",
	EventUp:          "up",
	EventCancel:      "cancel",
	EventPointerDown: "pointer_down",
	EventPointerUp:   "pointer_up",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// ParseEventKind converts a wire name such as "pointer_up" into an EventKind.
func ParseEventKind(name string) (EventKind, error) {
	for kind, n := range eventKindNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown touch action: %q", name)
}

// Pointer is the position of one contact inside an event.
type Pointer struct {
	ID PointerID
	X  float32
	Y  float32
}

// Event is one touch event. Pointers lists every contact that is down, in
// pointer-index order; for down and up kinds ActionIndex names the contact
// that changed (it is still present in Pointers for up kinds).
type Event struct {
	Kind        EventKind
	ActionIndex int
	Pointers    []Pointer
}

func (e Event) actionPointer() (Pointer, bool) {
	if e.ActionIndex < 0 || e.ActionIndex >= len(e.Pointers) {
		return Pointer{}, false
	}
	return e.Pointers[e.ActionIndex], true
}

func (e Event) find(id PointerID) (Pointer, bool) {
	for _, p := range e.Pointers {
		if p.ID == id {
			return p, true
		}
	}
	return Pointer{}, false
}
