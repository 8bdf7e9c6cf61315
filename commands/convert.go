package commands

import (
	"time"

	"github.com/mobile-next/spectrogesture/gesture"
	"github.com/mobile-next/spectrogesture/types"
)

// ApplyConfig overlays the non-zero fields of wire onto base.
func ApplyConfig(base gesture.Config, wire *types.GestureConfig) gesture.Config {
	if wire == nil {
		return base
	}

	cfg := base
	if wire.LongPressTimeoutMs > 0 {
		cfg.LongPressTimeout = time.Duration(wire.LongPressTimeoutMs) * time.Millisecond
	}
	if wire.PanThreshold != 0 {
		cfg.PanThreshold = wire.PanThreshold
	}
	if wire.SelectWidth != 0 {
		cfg.SelectWidth = wire.SelectWidth
	}
	if wire.SelectHeight != 0 {
		cfg.SelectHeight = wire.SelectHeight
	}
	if wire.CornerRadius != 0 {
		cfg.CornerRadius = wire.CornerRadius
	}
	return cfg
}

func ConfigToWire(cfg gesture.Config) types.GestureConfig {
	return types.GestureConfig{
		LongPressTimeoutMs: int(cfg.LongPressTimeout / time.Millisecond),
		PanThreshold:       cfg.PanThreshold,
		SelectWidth:        cfg.SelectWidth,
		SelectHeight:       cfg.SelectHeight,
		CornerRadius:       cfg.CornerRadius,
	}
}

func StateToWire(st gesture.State) types.GestureState {
	out := types.GestureState{
		Mode:             st.Mode.String(),
		Corner:           st.Corner.String(),
		LongPressPending: st.LongPressPending,
	}

	if st.HasRect {
		out.Rect = &types.SelectRect{
			Left:   st.Rect.Left,
			Right:  st.Rect.Right,
			Top:    st.Rect.Top,
			Bottom: st.Rect.Bottom,
		}
	}

	if st.ActivePointer.ID != gesture.InvalidPointerID {
		out.ActivePointer = &types.TouchPointer{
			ID: int(st.ActivePointer.ID),
			X:  st.ActivePointer.LastX,
			Y:  st.ActivePointer.LastY,
		}
	}

	return out
}

func pointersFromWire(in []types.TouchPointer) []gesture.Pointer {
	out := make([]gesture.Pointer, len(in))
	for i, p := range in {
		out[i] = gesture.Pointer{ID: gesture.PointerID(p.ID), X: p.X, Y: p.Y}
	}
	return out
}
