package server

import (
	"encoding/json"
	"fmt"

	"github.com/mobile-next/spectrogesture/commands"
)

// HandlerFunc is the signature for JSON-RPC method handlers
type HandlerFunc func(params json.RawMessage) (interface{}, error)

// paramsError marks a request whose params could not be decoded or were missing.
type paramsError struct {
	msg string
}

func (e *paramsError) Error() string {
	return e.msg
}

// GetMethodRegistry returns a map of method names to handler functions
// This is used by both the HTTP server and the WebSocket endpoint
func GetMethodRegistry() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"session_create": handleSessionCreate,
		"session_close":  handleSessionClose,
		"session_state":  handleSessionState,
		"touch":          handleTouch,
		"surface_size":   handleSurfaceSize,
		"selection_end":  handleSelectionEnd,
		"intents":        handleIntents,
		"replay":         handleReplay,
		"config":         handleConfig,
	}
}

// Execute dispatches a method call using the registry
// This is the main entry point for embedded clients
func Execute(method string, params json.RawMessage) (interface{}, error) {
	registry := GetMethodRegistry()

	handler, exists := registry[method]
	if !exists {
		return nil, fmt.Errorf("method not found: %s", method)
	}

	return handler(params)
}

// decodeParams unmarshals params into v; fields lists what the method expects.
func decodeParams(params json.RawMessage, v interface{}, fields string) error {
	if len(params) == 0 {
		return &paramsError{msg: fmt.Sprintf("'params' is required with fields: %s", fields)}
	}

	if err := json.Unmarshal(params, v); err != nil {
		return &paramsError{msg: fmt.Sprintf("invalid parameters: %v. Expected fields: %s", err, fields)}
	}

	return nil
}

func result(response *commands.CommandResponse) (interface{}, error) {
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}
	return response.Data, nil
}

func handleSessionCreate(params json.RawMessage) (interface{}, error) {
	var req commands.SessionCreateRequest
	if len(params) > 0 {
		if err := decodeParams(params, &req, "config"); err != nil {
			return nil, err
		}
	}

	return result(commands.SessionCreateCommand(req))
}

func handleSessionClose(params json.RawMessage) (interface{}, error) {
	var req commands.SessionRequest
	if err := decodeParams(params, &req, "sessionId"); err != nil {
		return nil, err
	}

	if _, err := result(commands.SessionCloseCommand(req)); err != nil {
		return nil, err
	}
	return okResponse, nil
}

func handleSessionState(params json.RawMessage) (interface{}, error) {
	var req commands.SessionRequest
	if err := decodeParams(params, &req, "sessionId"); err != nil {
		return nil, err
	}

	return result(commands.SessionStateCommand(req))
}

func handleTouch(params json.RawMessage) (interface{}, error) {
	var req commands.TouchRequest
	if err := decodeParams(params, &req, "sessionId, action, actionIndex, pointers"); err != nil {
		return nil, err
	}

	return result(commands.TouchCommand(req))
}

func handleSurfaceSize(params json.RawMessage) (interface{}, error) {
	var req commands.SurfaceSizeRequest
	if err := decodeParams(params, &req, "sessionId, width, height"); err != nil {
		return nil, err
	}

	return result(commands.SurfaceSizeCommand(req))
}

func handleSelectionEnd(params json.RawMessage) (interface{}, error) {
	var req commands.SessionRequest
	if err := decodeParams(params, &req, "sessionId"); err != nil {
		return nil, err
	}

	return result(commands.SelectionEndCommand(req))
}

func handleIntents(params json.RawMessage) (interface{}, error) {
	var req commands.SessionRequest
	if err := decodeParams(params, &req, "sessionId"); err != nil {
		return nil, err
	}

	return result(commands.IntentsCommand(req))
}

func handleReplay(params json.RawMessage) (interface{}, error) {
	var req commands.ReplayRequest
	if err := decodeParams(params, &req, "script"); err != nil {
		return nil, err
	}

	return result(commands.ReplayCommand(req))
}

func handleConfig(params json.RawMessage) (interface{}, error) {
	return result(commands.ConfigCommand())
}
