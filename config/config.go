package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mobile-next/spectrogesture/gesture"
	"github.com/mobile-next/spectrogesture/utils"
	"gopkg.in/ini.v1"
)

const (
	sectionName = "gesture"

	keyLongPressTimeout = "long_press_timeout"
	keyPanThreshold     = "pan_threshold"
	keySelectWidth      = "select_width"
	keySelectHeight     = "select_height"
	keyCornerRadius     = "corner_radius"
)

// DefaultPath returns ~/.spectrogesture/config.ini.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".spectrogesture", "config.ini"), nil
}

// Load reads the [gesture] section of an ini file. Keys that are absent keep
// their default value.
func Load(path string) (gesture.Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return gesture.Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := gesture.DefaultConfig()
	section := file.Section(sectionName)

	if key := section.Key(keyLongPressTimeout); key.String() != "" {
		cfg.LongPressTimeout, err = parseDuration(key.String())
		if err != nil {
			return gesture.Config{}, fmt.Errorf("%s: %s: %w", path, keyLongPressTimeout, err)
		}
	}

	floats := []struct {
		name string
		dst  *float32
	}{
		{keyPanThreshold, &cfg.PanThreshold},
		{keySelectWidth, &cfg.SelectWidth},
		{keySelectHeight, &cfg.SelectHeight},
		{keyCornerRadius, &cfg.CornerRadius},
	}
	for _, f := range floats {
		key := section.Key(f.name)
		if key.String() == "" {
			continue
		}
		v, err := key.Float64()
		if err != nil {
			return gesture.Config{}, fmt.Errorf("%s: %s: %w", path, f.name, err)
		}
		*f.dst = float32(v)
	}

	if err := cfg.Validate(); err != nil {
		return gesture.Config{}, fmt.Errorf("%s: %w", path, err)
	}

	utils.Verbose("Loaded gesture config from %s: %+v", path, cfg)
	return cfg, nil
}

// LoadOrDefault loads path if it is set. An empty path falls back to the
// default location, and a missing default file yields DefaultConfig.
func LoadOrDefault(path string) (gesture.Config, error) {
	if path != "" {
		return Load(path)
	}

	defaultPath, err := DefaultPath()
	if err != nil {
		return gesture.DefaultConfig(), nil
	}

	if _, err := os.Stat(defaultPath); errors.Is(err, os.ErrNotExist) {
		return gesture.DefaultConfig(), nil
	}

	return Load(defaultPath)
}

// Save writes cfg as an ini file, creating parent directories.
func Save(path string, cfg gesture.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	file := ini.Empty()
	section, err := file.NewSection(sectionName)
	if err != nil {
		return err
	}

	values := []struct {
		name  string
		value string
	}{
		{keyLongPressTimeout, cfg.LongPressTimeout.String()},
		{keyPanThreshold, formatFloat(cfg.PanThreshold)},
		{keySelectWidth, formatFloat(cfg.SelectWidth)},
		{keySelectHeight, formatFloat(cfg.SelectHeight)},
		{keyCornerRadius, formatFloat(cfg.CornerRadius)},
	}
	for _, v := range values {
		if _, err := section.NewKey(v.name, v.value); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := file.SaveTo(path); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// parseDuration accepts Go duration strings ("1s", "750ms") or a bare number
// of milliseconds.
func parseDuration(s string) (time.Duration, error) {
	if ms, err := strconv.Atoi(s); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(s)
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}
