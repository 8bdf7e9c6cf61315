package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mobile-next/spectrogesture/commands"
	"github.com/mobile-next/spectrogesture/config"
	"github.com/mobile-next/spectrogesture/gesture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		configPath = ""
		configInitForce = false
		replayEndSelection = false
		commands.SetBaseConfig(gesture.DefaultConfig())
	})
	return rootCmd.Execute()
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.ini")

	require.NoError(t, run(t, "config", "init", "--config", path))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, gesture.DefaultConfig(), cfg)

	assert.Error(t, run(t, "config", "init", "--config", path), "refuses to overwrite")
	assert.NoError(t, run(t, "config", "init", "--config", path, "--force"))
}

func TestConfigFlagFeedsBaseConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte("[gesture]\npan_threshold = 42\n"), 0o600))

	require.NoError(t, run(t, "config", "show", "--config", path))
	assert.Equal(t, float32(42), commands.BaseConfig().PanThreshold)
}

func TestInvalidConfigFailsCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte("[gesture]\nselect_width = -1\n"), 0o600))

	assert.Error(t, run(t, "config", "show", "--config", path))
	// init is still allowed so the broken file can be replaced
	assert.NoError(t, run(t, "config", "init", "--config", path, "--force"))
}

func TestReplayCommandLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pan.json")
	script := `{"actions":[{"type":"pointer","id":"f","actions":[
		{"type":"pointerDown","x":100,"y":100},
		{"type":"pointerMove","x":200,"y":100,"duration":50},
		{"type":"pointerUp"}]}]}`
	require.NoError(t, os.WriteFile(path, []byte(script), 0o600))

	assert.NoError(t, run(t, "replay", path, "--end-selection"))
	assert.Error(t, run(t, "replay", filepath.Join(t.TempDir(), "missing.json")))
}
