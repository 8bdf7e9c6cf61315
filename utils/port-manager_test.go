package utils

import (
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPortAvailable(t *testing.T) {
	// Test available port (dynamic allocation)
	assert.True(t, IsPortAvailable("127.0.0.1", 0), "Port 0 should always be available (OS picks free port)")
}

func TestIsPortAvailable_PortInUse(t *testing.T) {
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err, "Failed to create test listener")
	defer listener.Close()

	port := listener.Addr().(*net.TCPAddr).Port
	assert.False(t, IsPortAvailable("127.0.0.1", port), "Port %d should be in use", port)
}

func TestCheckListenAddr(t *testing.T) {
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()
	busy := listener.Addr().(*net.TCPAddr).Port

	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		{"free port", "127.0.0.1:0", false},
		{"localhost alias", "localhost:0", false},
		{"missing port", "127.0.0.1", true},
		{"non numeric port", "127.0.0.1:abc", true},
		{"port out of range", "127.0.0.1:70000", true},
		{"busy port", fmt.Sprintf("127.0.0.1:%d", busy), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckListenAddr(tt.addr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
