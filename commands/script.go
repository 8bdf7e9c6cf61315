package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mobile-next/spectrogesture/types"
	"howett.net/plist"
)

// LoadScript reads a gesture script from a .json or .plist file.
func LoadScript(path string) (*types.GestureScript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	format := "json"
	if strings.EqualFold(filepath.Ext(path), ".plist") {
		format = "plist"
	}

	return ParseScript(data, format)
}

// ParseScript decodes a gesture script. format is "json" or "plist"; plist
// input may be XML, binary or OpenStep.
func ParseScript(data []byte, format string) (*types.GestureScript, error) {
	var script types.GestureScript

	switch format {
	case "json":
		if err := json.Unmarshal(data, &script); err != nil {
			return nil, fmt.Errorf("failed to parse gesture script: %w", err)
		}
	case "plist":
		if _, err := plist.Unmarshal(data, &script); err != nil {
			return nil, fmt.Errorf("failed to parse gesture script plist: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported script format: %s", format)
	}

	return &script, nil
}
