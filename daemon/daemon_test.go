package daemon

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mobile-next/spectrogesture/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerURL(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{"12000", "http://localhost:12000"},
		{":12000", "http://localhost:12000"},
		{"127.0.0.1:13000", "http://127.0.0.1:13000"},
		{"localhost:12000", "http://localhost:12000"},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.want, ServerURL(tt.addr))
		})
	}
}

func TestIsChild(t *testing.T) {
	t.Setenv(DaemonEnvVar, "")
	assert.False(t, IsChild())

	t.Setenv(DaemonEnvVar, "1")
	assert.True(t, IsChild())
}

func TestChildContext(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "server.log")

	ctx, err := childContext(logFile)
	require.NoError(t, err)

	assert.Equal(t, logFile, ctx.LogFileName)
	assert.Contains(t, ctx.Env, DaemonEnvVar+"=1")
	assert.Equal(t, os.Args, ctx.Args)
	assert.DirExists(t, filepath.Dir(logFile))
}

func TestChildContext_WithoutLogFile(t *testing.T) {
	ctx, err := childContext("")
	require.NoError(t, err)
	assert.Empty(t, ctx.LogFileName)
}

func TestKillServer(t *testing.T) {
	stopped := make(chan struct{}, 1)
	ts := httptest.NewServer(server.NewHandler(server.Options{
		Token:      "tok",
		OnShutdown: func() { stopped <- struct{}{} },
	}))
	defer ts.Close()

	addr := ts.Listener.Addr().String()

	err := KillServer(addr, "bad")
	require.Error(t, err)
	assert.Empty(t, stopped)

	require.NoError(t, KillServer(addr, "tok"))
	assert.Len(t, stopped, 1)
}

func TestKillServer_NotRunning(t *testing.T) {
	ts := httptest.NewServer(nil)
	addr := ts.Listener.Addr().String()
	ts.Close()

	err := KillServer(addr, "")
	assert.Error(t, err)
}
