package commands

import (
	"fmt"

	"github.com/mobile-next/spectrogesture/gesture"
	"github.com/mobile-next/spectrogesture/types"
)

// SessionCreateRequest represents the parameters for creating a gesture session
type SessionCreateRequest struct {
	Config *types.GestureConfig `json:"config,omitempty"`
}

// SessionCreateResponse is returned when a session is created
type SessionCreateResponse struct {
	SessionID string              `json:"sessionId"`
	Config    types.GestureConfig `json:"config"`
}

// SessionRequest represents the parameters of commands that only name a session
type SessionRequest struct {
	SessionID string `json:"sessionId"`
}

// TouchRequest represents the parameters for a touch event
type TouchRequest struct {
	SessionID   string               `json:"sessionId"`
	Action      string               `json:"action"`
	ActionIndex int                  `json:"actionIndex"`
	Pointers    []types.TouchPointer `json:"pointers"`
}

// SurfaceSizeRequest represents the parameters for a surface size change
type SurfaceSizeRequest struct {
	SessionID string `json:"sessionId"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// IntentsResponse carries the intents emitted since the last call and the
// recognizer state after them
type IntentsResponse struct {
	Intents []types.Intent     `json:"intents"`
	State   types.GestureState `json:"state"`
}

// SessionCreateCommand starts a new gesture session
func SessionCreateCommand(req SessionCreateRequest) *CommandResponse {
	if sessionRegistry == nil {
		return NewErrorResponse(fmt.Errorf("session registry is not initialized"))
	}

	cfg := ApplyConfig(BaseConfig(), req.Config)
	s, err := sessionRegistry.Create(cfg)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("failed to create session: %w", err))
	}

	return NewSuccessResponse(SessionCreateResponse{
		SessionID: s.ID,
		Config:    ConfigToWire(cfg),
	})
}

// SessionCloseCommand stops a gesture session
func SessionCloseCommand(req SessionRequest) *CommandResponse {
	if _, err := findSession(req.SessionID); err != nil {
		return NewErrorResponse(fmt.Errorf("error finding session: %w", err))
	}

	if err := sessionRegistry.Close(req.SessionID); err != nil {
		return NewErrorResponse(fmt.Errorf("failed to close session %s: %w", req.SessionID, err))
	}

	return NewSuccessResponse(map[string]interface{}{
		"message": fmt.Sprintf("Closed session %s", req.SessionID),
	})
}

// SessionStateCommand returns the recognizer state without draining intents
func SessionStateCommand(req SessionRequest) *CommandResponse {
	s, err := findSession(req.SessionID)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error finding session: %w", err))
	}

	return NewSuccessResponse(StateToWire(s.Arbiter.Snapshot()))
}

// IntentsCommand drains the intents recorded by a session, including those
// emitted by a long-press that fired between requests
func IntentsCommand(req SessionRequest) *CommandResponse {
	s, err := findSession(req.SessionID)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error finding session: %w", err))
	}

	return NewSuccessResponse(IntentsResponse{
		Intents: s.Recorder.Drain(),
		State:   StateToWire(s.Arbiter.Snapshot()),
	})
}

// TouchCommand feeds one touch event to a session
func TouchCommand(req TouchRequest) *CommandResponse {
	kind, err := gesture.ParseEventKind(req.Action)
	if err != nil {
		return NewErrorResponse(err)
	}

	if len(req.Pointers) == 0 && kind != gesture.EventCancel {
		return NewErrorResponse(fmt.Errorf("at least one pointer is required for action %s", req.Action))
	}

	if req.ActionIndex < 0 || (len(req.Pointers) > 0 && req.ActionIndex >= len(req.Pointers)) {
		return NewErrorResponse(fmt.Errorf("actionIndex %d out of range for %d pointers", req.ActionIndex, len(req.Pointers)))
	}

	s, err := findSession(req.SessionID)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error finding session: %w", err))
	}

	s.Arbiter.HandleEvent(gesture.Event{
		Kind:        kind,
		ActionIndex: req.ActionIndex,
		Pointers:    pointersFromWire(req.Pointers),
	})

	return NewSuccessResponse(IntentsResponse{
		Intents: s.Recorder.Drain(),
		State:   StateToWire(s.Arbiter.Snapshot()),
	})
}

// SurfaceSizeCommand reports a layout change of the surface
func SurfaceSizeCommand(req SurfaceSizeRequest) *CommandResponse {
	if req.Width < 0 || req.Height < 0 {
		return NewErrorResponse(fmt.Errorf("width and height must be non-negative, got width=%d, height=%d", req.Width, req.Height))
	}

	s, err := findSession(req.SessionID)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error finding session: %w", err))
	}

	s.Arbiter.SetSurfaceSize(req.Width, req.Height)

	return NewSuccessResponse(IntentsResponse{
		Intents: s.Recorder.Drain(),
		State:   StateToWire(s.Arbiter.Snapshot()),
	})
}

// SelectionEndCommand leaves selection mode and resumes scrolling
func SelectionEndCommand(req SessionRequest) *CommandResponse {
	s, err := findSession(req.SessionID)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error finding session: %w", err))
	}

	s.Arbiter.DeactivateSelection()

	return NewSuccessResponse(IntentsResponse{
		Intents: s.Recorder.Drain(),
		State:   StateToWire(s.Arbiter.Snapshot()),
	})
}

// IntentNotification is pushed to subscribers for every intent a session emits
type IntentNotification struct {
	SessionID string       `json:"sessionId"`
	Intent    types.Intent `json:"intent"`
}

// SubscribeIntents calls fn for every intent the session emits from now on,
// including those drawn by a long-press timer. fn must not block. The returned
// function cancels the subscription.
func SubscribeIntents(sessionID string, fn func(IntentNotification)) (func(), error) {
	s, err := findSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("error finding session: %w", err)
	}

	return s.Recorder.Subscribe(func(intent types.Intent) {
		fn(IntentNotification{SessionID: sessionID, Intent: intent})
	}), nil
}
