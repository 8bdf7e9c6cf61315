package types

// Pointer action types accepted in a gesture script. They follow the W3C
// WebDriver pointer actions vocabulary.
const (
	ActionPointerDown   = "pointerDown"
	ActionPointerMove   = "pointerMove"
	ActionPointerUp     = "pointerUp"
	ActionPointerCancel = "pointerCancel"
	ActionPause         = "pause"
)

type PointerAction struct {
	Type string `json:"type" plist:"type"`
	// Duration is in milliseconds; used by pause and pointerMove.
	Duration int     `json:"duration,omitempty" plist:"duration,omitempty"`
	X        float32 `json:"x,omitempty" plist:"x,omitempty"`
	Y        float32 `json:"y,omitempty" plist:"y,omitempty"`
}

// PointerSource is one finger and its action list. Actions of all sources are
// consumed in lock step, one per tick.
type PointerSource struct {
	Type    string          `json:"type" plist:"type"`
	ID      string          `json:"id" plist:"id"`
	Actions []PointerAction `json:"actions" plist:"actions"`
}

type SurfaceSize struct {
	Width  int `json:"width" plist:"width"`
	Height int `json:"height" plist:"height"`
}

type GestureScript struct {
	Config  *GestureConfig  `json:"config,omitempty" plist:"config,omitempty"`
	Surface *SurfaceSize    `json:"surface,omitempty" plist:"surface,omitempty"`
	Actions []PointerSource `json:"actions" plist:"actions"`
	// EndSelection leaves selection mode after the last tick, as a host
	// "done" control would.
	EndSelection bool `json:"endSelection,omitempty" plist:"endSelection,omitempty"`
}
