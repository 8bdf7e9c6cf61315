package commands

import (
	"sync"

	"github.com/mobile-next/spectrogesture/gesture"
)

var (
	baseConfigMu sync.RWMutex
	baseConfig   = gesture.DefaultConfig()
)

// SetBaseConfig sets the recognizer config new sessions and replays start from.
func SetBaseConfig(cfg gesture.Config) {
	baseConfigMu.Lock()
	defer baseConfigMu.Unlock()
	baseConfig = cfg
}

func BaseConfig() gesture.Config {
	baseConfigMu.RLock()
	defer baseConfigMu.RUnlock()
	return baseConfig
}

// ConfigCommand returns the effective base config
func ConfigCommand() *CommandResponse {
	return NewSuccessResponse(ConfigToWire(BaseConfig()))
}
