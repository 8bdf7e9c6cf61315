package types

// Intent types emitted by the recognizer toward the rendering surface.
const (
	IntentPauseScrolling  = "pause_scrolling"
	IntentResumeScrolling = "resume_scrolling"
	IntentQuickSlide      = "quick_slide"
	IntentSurfaceSize     = "surface_size"
	IntentDrawSelectRect  = "draw_select_rect"
)

type TouchPointer struct {
	ID int     `json:"id" plist:"id"`
	X  float32 `json:"x" plist:"x"`
	Y  float32 `json:"y" plist:"y"`
}

type SelectRect struct {
	Left   float32 `json:"left"`
	Right  float32 `json:"right"`
	Top    float32 `json:"top"`
	Bottom float32 `json:"bottom"`
}

type Intent struct {
	Type   string      `json:"type"`
	Delta  int         `json:"delta"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Rect   *SelectRect `json:"rect,omitempty"`
}

type GestureState struct {
	Mode             string        `json:"mode"`
	Rect             *SelectRect   `json:"rect,omitempty"`
	Corner           string        `json:"corner"`
	ActivePointer    *TouchPointer `json:"activePointer,omitempty"`
	LongPressPending bool          `json:"longPressPending"`
}

// GestureConfig is the wire form of the recognizer tunables. Zero fields keep
// the value they override.
type GestureConfig struct {
	LongPressTimeoutMs int     `json:"longPressTimeoutMs,omitempty" plist:"longPressTimeoutMs,omitempty"`
	PanThreshold       float32 `json:"panThreshold,omitempty" plist:"panThreshold,omitempty"`
	SelectWidth        float32 `json:"selectWidth,omitempty" plist:"selectWidth,omitempty"`
	SelectHeight       float32 `json:"selectHeight,omitempty" plist:"selectHeight,omitempty"`
	CornerRadius       float32 `json:"cornerRadius,omitempty" plist:"cornerRadius,omitempty"`
}
