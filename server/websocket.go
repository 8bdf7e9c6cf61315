package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/mobile-next/spectrogesture/commands"
	"github.com/mobile-next/spectrogesture/utils"
)

const (
	subscribeMethod    = "session_subscribe"
	unsubscribeMethod  = "session_unsubscribe"
	intentNotification = "intent"

	// notificationBuffer is how many intents may queue for a slow client
	// before new ones are dropped.
	notificationBuffer = 256
)

type wsHandler struct {
	rpc        *rpcHandler
	enableCORS bool
}

// NewWebSocketHandler returns a handler serving JSON-RPC over WebSocket
// without server.shutdown support.
func NewWebSocketHandler(enableCORS bool) http.Handler {
	return &wsHandler{rpc: &rpcHandler{}, enableCORS: enableCORS}
}

type wsConnection struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	notifications chan JSONRPCNotification
	done          chan struct{}

	subsMu        sync.Mutex
	subscriptions map[string]func()
}

func newUpgrader(enableCORS bool) *websocket.Upgrader {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	if enableCORS {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	} else {
		upgrader.CheckOrigin = isSameOrigin
	}

	return &upgrader
}

func (h *wsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := newUpgrader(h.enableCORS).Upgrade(w, r, nil)
	if err != nil {
		utils.Error("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	wsConn := &wsConnection{
		conn:          conn,
		notifications: make(chan JSONRPCNotification, notificationBuffer),
		done:          make(chan struct{}),
		subscriptions: make(map[string]func()),
	}
	defer wsConn.close()

	go wsConn.pumpNotifications()

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			// connection closed or error
			utils.Verbose("WebSocket connection closed: %v", err)
			break
		}

		if messageType != websocket.TextMessage {
			_ = wsConn.sendError(nil, ErrCodeInvalidRequest, "Invalid Request", "only text messages accepted for requests")
			continue
		}

		h.handleMessage(wsConn, message)
	}
}

func isSameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	return originURL.Host == r.Host
}

func (h *wsHandler) handleMessage(wsConn *wsConnection, message []byte) {
	var req JSONRPCRequest
	if err := json.Unmarshal(message, &req); err != nil {
		_ = wsConn.sendError(nil, ErrCodeParseError, "Parse error", "expecting jsonrpc payload")
		return
	}

	switch req.Method {
	case subscribeMethod, unsubscribeMethod:
		if req.JSONRPC != "2.0" || req.ID == nil {
			break
		}
		_ = wsConn.sendJSON(wsConn.handleSubscription(req))
		return
	}

	_ = wsConn.sendJSON(h.rpc.call(req))
}

func (wsc *wsConnection) handleSubscription(req JSONRPCRequest) JSONRPCResponse {
	var params commands.SessionRequest
	if err := decodeParams(req.Params, &params, "sessionId"); err != nil {
		return errorResponse(req.ID, ErrCodeInvalidParams, "Invalid params", err.Error())
	}

	wsc.subsMu.Lock()
	defer wsc.subsMu.Unlock()

	if req.Method == unsubscribeMethod {
		if cancel, ok := wsc.subscriptions[params.SessionID]; ok {
			cancel()
			delete(wsc.subscriptions, params.SessionID)
		}
		return JSONRPCResponse{JSONRPC: "2.0", Result: okResponse, ID: req.ID}
	}

	if _, ok := wsc.subscriptions[params.SessionID]; !ok {
		cancel, err := commands.SubscribeIntents(params.SessionID, wsc.enqueue)
		if err != nil {
			return errorResponse(req.ID, ErrCodeServerError, "Server error", err.Error())
		}
		wsc.subscriptions[params.SessionID] = cancel
		utils.Verbose("WebSocket subscribed to session %s", params.SessionID)
	}

	return JSONRPCResponse{
		JSONRPC: "2.0",
		Result:  map[string]interface{}{"subscribed": params.SessionID},
		ID:      req.ID,
	}
}

// enqueue runs under the recognizer's lock, so it never blocks on the socket.
func (wsc *wsConnection) enqueue(n commands.IntentNotification) {
	notification := JSONRPCNotification{JSONRPC: "2.0", Method: intentNotification, Params: n}

	select {
	case wsc.notifications <- notification:
	case <-wsc.done:
	default:
		utils.Verbose("Dropping %s notification for session %s, client is not keeping up", n.Intent.Type, n.SessionID)
	}
}

func (wsc *wsConnection) pumpNotifications() {
	for {
		select {
		case n := <-wsc.notifications:
			if err := wsc.sendJSON(n); err != nil {
				utils.Verbose("Failed to push notification: %v", err)
			}
		case <-wsc.done:
			return
		}
	}
}

func (wsc *wsConnection) close() {
	wsc.subsMu.Lock()
	for id, cancel := range wsc.subscriptions {
		cancel()
		delete(wsc.subscriptions, id)
	}
	wsc.subsMu.Unlock()

	close(wsc.done)
}

func (wsc *wsConnection) sendError(id interface{}, code int, message string, data interface{}) error {
	return wsc.sendJSON(errorResponse(id, code, message, data))
}

func (wsc *wsConnection) sendJSON(v interface{}) error {
	wsc.writeMu.Lock()
	defer wsc.writeMu.Unlock()
	return wsc.conn.WriteJSON(v)
}
