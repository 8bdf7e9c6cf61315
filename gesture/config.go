package gesture

import (
	"errors"
	"fmt"
	"time"
)

const (
	DefaultLongPressTimeout = 1000 * time.Millisecond
	DefaultPanThreshold     = 10
	DefaultSelectWidth      = 200
	DefaultSelectHeight     = 200
	DefaultCornerRadius     = 30
)

// ErrInvalidConfig is wrapped by every Config.Validate failure.
var ErrInvalidConfig = errors.New("invalid gesture config")

// Config holds the tunables of the recognizer. Distances are in surface pixels.
type Config struct {
	LongPressTimeout time.Duration
	// PanThreshold is the horizontal displacement a single move must exceed
	// before it counts as a pan.
	PanThreshold float32
	SelectWidth  float32
	SelectHeight float32
	// CornerRadius is the half-size of the square hit area around each corner.
	CornerRadius float32
}

func DefaultConfig() Config {
	return Config{
		LongPressTimeout: DefaultLongPressTimeout,
		PanThreshold:     DefaultPanThreshold,
		SelectWidth:      DefaultSelectWidth,
		SelectHeight:     DefaultSelectHeight,
		CornerRadius:     DefaultCornerRadius,
	}
}

func (c Config) Validate() error {
	switch {
	case c.LongPressTimeout <= 0:
		return fmt.Errorf("%w: long press timeout must be positive, got %v", ErrInvalidConfig, c.LongPressTimeout)
	case c.PanThreshold < 0:
		return fmt.Errorf("%w: pan threshold must not be negative, got %v", ErrInvalidConfig, c.PanThreshold)
	case c.SelectWidth <= 0 || c.SelectHeight <= 0:
		return fmt.Errorf("%w: selection size must be positive, got %vx%v", ErrInvalidConfig, c.SelectWidth, c.SelectHeight)
	case c.CornerRadius < 0:
		return fmt.Errorf("%w: corner radius must not be negative, got %v", ErrInvalidConfig, c.CornerRadius)
	}
	return nil
}
