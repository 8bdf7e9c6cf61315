package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mobile-next/spectrogesture/commands"
	"github.com/mobile-next/spectrogesture/gesture"
	"github.com/mobile-next/spectrogesture/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(enableCORS bool) (*httptest.Server, string) {
	handler := NewWebSocketHandler(enableCORS)
	server := httptest.NewServer(handler)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	return server, wsURL
}

func connectWebSocket(t *testing.T, url string) *websocket.Conn {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err, "should connect to WebSocket")
	return conn
}

func sendJSONRPCRequest(t *testing.T, conn *websocket.Conn, req JSONRPCRequest) {
	err := conn.WriteJSON(req)
	require.NoError(t, err, "should send request")
}

func readJSONRPCResponse(t *testing.T, conn *websocket.Conn) JSONRPCResponse {
	var resp JSONRPCResponse
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	err := conn.ReadJSON(&resp)
	require.NoError(t, err, "should read response")
	return resp
}

// wsMessage is either a response or a notification.
type wsMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	Result  json.RawMessage `json:"result"`
	Error   interface{}     `json:"error"`
	ID      interface{}     `json:"id"`
}

func readMessage(t *testing.T, conn *websocket.Conn) wsMessage {
	t.Helper()
	var msg wsMessage
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

// readUntilResponse reads messages until the response with id arrives and
// returns it with every notification seen on the way.
func readUntilResponse(t *testing.T, conn *websocket.Conn, id float64) (wsMessage, []commands.IntentNotification) {
	t.Helper()
	var notes []commands.IntentNotification
	for {
		msg := readMessage(t, conn)
		if msg.Method == intentNotification {
			var n commands.IntentNotification
			require.NoError(t, json.Unmarshal(msg.Params, &n))
			notes = append(notes, n)
			continue
		}
		require.Equal(t, id, msg.ID)
		return msg, notes
	}
}

func readNotification(t *testing.T, conn *websocket.Conn) commands.IntentNotification {
	t.Helper()
	msg := readMessage(t, conn)
	require.Equal(t, intentNotification, msg.Method)
	assert.Nil(t, msg.ID)

	var n commands.IntentNotification
	require.NoError(t, json.Unmarshal(msg.Params, &n))
	return n
}

func TestWebSocket_ValidRequest(t *testing.T) {
	server, wsURL := setupTestServer(false)
	defer server.Close()

	conn := connectWebSocket(t, wsURL)
	defer conn.Close()

	req := JSONRPCRequest{
		JSONRPC: "2.0",
		Method:  "config",
		ID:      1,
	}

	sendJSONRPCRequest(t, conn, req)
	resp := readJSONRPCResponse(t, conn)

	assert.Equal(t, "2.0", resp.JSONRPC)
	assert.Equal(t, 1, int(resp.ID.(float64)))
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Result)
}

func TestWebSocket_InvalidRequests(t *testing.T) {
	server, wsURL := setupTestServer(false)
	defer server.Close()

	conn := connectWebSocket(t, wsURL)
	defer conn.Close()

	tests := []struct {
		name    string
		message string
		code    int
	}{
		{"parse error", `{"jsonrpc":`, ErrCodeParseError},
		{"wrong version", `{"jsonrpc":"1.0","method":"config","id":1}`, ErrCodeInvalidRequest},
		{"missing id", `{"jsonrpc":"2.0","method":"config"}`, ErrCodeInvalidRequest},
		{"missing method", `{"jsonrpc":"2.0","id":1}`, ErrCodeInvalidRequest},
		{"unknown method", `{"jsonrpc":"2.0","method":"screencapture","id":1}`, ErrCodeMethodNotFound},
		{"subscribe without params", `{"jsonrpc":"2.0","method":"session_subscribe","id":1}`, ErrCodeInvalidParams},
		{"subscribe wrong version", `{"jsonrpc":"1.0","method":"session_subscribe","id":1}`, ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(tt.message)))
			resp := readJSONRPCResponse(t, conn)
			assert.Equal(t, tt.code, errorCode(t, resp))
		})
	}
}

func TestWebSocket_BinaryMessageRejected(t *testing.T) {
	server, wsURL := setupTestServer(false)
	defer server.Close()

	conn := connectWebSocket(t, wsURL)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte(`{"jsonrpc":"2.0","method":"config","id":1}`)))
	resp := readJSONRPCResponse(t, conn)
	assert.Equal(t, ErrCodeInvalidRequest, errorCode(t, resp))
	assert.Nil(t, resp.ID)
}

func TestWebSocket_ShutdownNotAvailable(t *testing.T) {
	server, wsURL := setupTestServer(false)
	defer server.Close()

	conn := connectWebSocket(t, wsURL)
	defer conn.Close()

	sendJSONRPCRequest(t, conn, JSONRPCRequest{JSONRPC: "2.0", Method: ShutdownMethod, ID: 7})
	resp := readJSONRPCResponse(t, conn)
	assert.Equal(t, ErrCodeServerError, errorCode(t, resp))
}

func TestWebSocket_OriginCheck(t *testing.T) {
	header := http.Header{}
	header.Set("Origin", "http://elsewhere.example")

	server, wsURL := setupTestServer(false)
	defer server.Close()

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	corsServer, corsURL := setupTestServer(true)
	defer corsServer.Close()

	conn, _, err := websocket.DefaultDialer.Dial(corsURL, header)
	require.NoError(t, err)
	conn.Close()
}

func TestWebSocket_SubscribePushesTimerIntents(t *testing.T) {
	clock := withRegistry(t)

	server, wsURL := setupTestServer(false)
	defer server.Close()

	conn := connectWebSocket(t, wsURL)
	defer conn.Close()

	sendJSONRPCRequest(t, conn, JSONRPCRequest{JSONRPC: "2.0", Method: "session_create", ID: 1})
	msg, _ := readUntilResponse(t, conn, 1)
	var created commands.SessionCreateResponse
	require.NoError(t, json.Unmarshal(msg.Result, &created))

	params, _ := json.Marshal(commands.SessionRequest{SessionID: created.SessionID})
	sendJSONRPCRequest(t, conn, JSONRPCRequest{JSONRPC: "2.0", Method: subscribeMethod, Params: params, ID: 2})
	msg, _ = readUntilResponse(t, conn, 2)
	assert.Nil(t, msg.Error)
	assert.Contains(t, string(msg.Result), created.SessionID)

	touch, _ := json.Marshal(commands.TouchRequest{
		SessionID: created.SessionID,
		Action:    "down",
		Pointers:  []types.TouchPointer{{ID: 0, X: 400, Y: 400}},
	})
	sendJSONRPCRequest(t, conn, JSONRPCRequest{JSONRPC: "2.0", Method: "touch", Params: touch, ID: 3})
	_, notes := readUntilResponse(t, conn, 3)
	if len(notes) == 0 {
		notes = append(notes, readNotification(t, conn))
	}
	require.Len(t, notes, 1)
	assert.Equal(t, types.IntentPauseScrolling, notes[0].Intent.Type)

	// the long-press fires between requests and is pushed without polling
	clock.Advance(gesture.DefaultLongPressTimeout)
	n := readNotification(t, conn)
	assert.Equal(t, created.SessionID, n.SessionID)
	assert.Equal(t, types.IntentDrawSelectRect, n.Intent.Type)
	assert.Equal(t, &types.SelectRect{Left: 300, Right: 500, Top: 300, Bottom: 500}, n.Intent.Rect)

	sendJSONRPCRequest(t, conn, JSONRPCRequest{JSONRPC: "2.0", Method: unsubscribeMethod, Params: params, ID: 4})
	msg, _ = readUntilResponse(t, conn, 4)
	assert.Nil(t, msg.Error)

	sendJSONRPCRequest(t, conn, JSONRPCRequest{JSONRPC: "2.0", Method: "selection_end", Params: params, ID: 5})
	_, notes = readUntilResponse(t, conn, 5)
	assert.Empty(t, notes)
}

func TestWebSocket_SubscribeUnknownSession(t *testing.T) {
	withRegistry(t)

	server, wsURL := setupTestServer(false)
	defer server.Close()

	conn := connectWebSocket(t, wsURL)
	defer conn.Close()

	params, _ := json.Marshal(commands.SessionRequest{SessionID: "missing"})
	sendJSONRPCRequest(t, conn, JSONRPCRequest{JSONRPC: "2.0", Method: subscribeMethod, Params: params, ID: 1})
	resp := readJSONRPCResponse(t, conn)
	assert.Equal(t, ErrCodeServerError, errorCode(t, resp))
}
