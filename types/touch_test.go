package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntentJSON_KeepsZeroValues(t *testing.T) {
	tests := []struct {
		name   string
		intent Intent
		want   string
	}{
		{
			name:   "collapsed surface",
			intent: Intent{Type: IntentSurfaceSize},
			want:   `{"type":"surface_size","delta":0,"width":0,"height":0}`,
		},
		{
			name:   "zero slide",
			intent: Intent{Type: IntentQuickSlide},
			want:   `{"type":"quick_slide","delta":0,"width":0,"height":0}`,
		},
		{
			name:   "rect",
			intent: Intent{Type: IntentDrawSelectRect, Rect: &SelectRect{Left: 1, Right: 2, Top: 3, Bottom: 4}},
			want:   `{"type":"draw_select_rect","delta":0,"width":0,"height":0,"rect":{"left":1,"right":2,"top":3,"bottom":4}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.intent)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}
