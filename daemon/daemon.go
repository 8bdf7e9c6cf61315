package daemon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mobile-next/spectrogesture/server"
	"github.com/sevlyar/go-daemon"
)

const (
	// DaemonEnvVar is the environment variable that marks a daemon child process
	DaemonEnvVar = "SPECTROGESTURE_DAEMON_CHILD"

	// shutdownRequestID is the JSON-RPC request ID for shutdown commands
	shutdownRequestID = 1

	killTimeout = 10 * time.Second
)

// Daemonize re-runs the current command line as a detached child with the
// child marker set. The child's stderr, where the server logs, goes to
// logFile; an empty logFile discards it. The parent gets the child's process,
// the child itself gets nil.
func Daemonize(logFile string) (*os.Process, error) {
	ctx, err := childContext(logFile)
	if err != nil {
		return nil, err
	}

	child, err := ctx.Reborn()
	if err != nil {
		return nil, fmt.Errorf("failed to daemonize: %w", err)
	}
	return child, nil
}

func childContext(logFile string) (*daemon.Context, error) {
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0750); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	return &daemon.Context{
		LogFileName: logFile,
		LogFilePerm: 0640,
		WorkDir:     "/",
		Umask:       027,
		Args:        os.Args,
		Env:         append(os.Environ(), DaemonEnvVar+"=1"),
	}, nil
}

// LogPath is where a daemonized server writes its log, next to the config.
func LogPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".spectrogesture", "server.log"), nil
}

// IsChild reports whether this process was started by Daemonize.
func IsChild() bool {
	return os.Getenv(DaemonEnvVar) == "1"
}

// ServerURL turns a listen address ("12000", ":12000", "host:12000") into the
// base URL a client on this machine would use.
func ServerURL(addr string) string {
	// if no colon, assume it's a bare port number
	if !strings.Contains(addr, ":") {
		if _, err := strconv.Atoi(addr); err == nil {
			addr = ":" + addr
		}
	}

	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}

	return "http://" + addr
}

// KillServer connects to the server and sends a shutdown command via JSON-RPC.
// token is sent as a bearer token when not empty.
func KillServer(addr, token string) error {
	baseURL := ServerURL(addr)

	reqBody := server.JSONRPCRequest{
		JSONRPC: "2.0",
		Method:  server.ShutdownMethod,
		ID:      shutdownRequestID,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	client := &http.Client{Timeout: killTimeout}
	req, err := http.NewRequest(http.MethodPost, baseURL+"/rpc", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		if strings.Contains(err.Error(), "connection refused") {
			return fmt.Errorf("server is not running on %s", baseURL)
		}
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned error: %s", resp.Status)
	}

	var rpcResp server.JSONRPCResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("failed to parse shutdown response: %w", err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("server refused shutdown: %v", rpcResp.Error)
	}

	return nil
}
