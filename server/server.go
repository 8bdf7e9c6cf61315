package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mobile-next/spectrogesture/utils"
)

const (
	// Parse error: Invalid JSON was received by the server
	ErrCodeParseError = -32700

	// Invalid Request: The JSON sent is not a valid Request object
	ErrCodeInvalidRequest = -32600

	// Method not found: The method does not exist / is not available
	ErrCodeMethodNotFound = -32601

	// Server error: Internal JSON-RPC error
	ErrCodeServerError = -32000

	// Invalid params: Invalid method parameters
	ErrCodeInvalidParams = -32602

	// Internal error: Internal JSON-RPC error
	ErrCodeInternalError = -32603
)

// Server timeouts
const (
	ReadTimeout     = 10 * time.Second
	WriteTimeout    = 10 * time.Second
	IdleTimeout     = 120 * time.Second
	ShutdownTimeout = 5 * time.Second
)

// ShutdownMethod stops the server that receives it
const ShutdownMethod = "server.shutdown"

// Version is reported by the banner endpoint
var Version = "dev"

var okResponse = map[string]interface{}{"status": "ok"}

type JSONRPCRequest struct {
	// these fields are all omitempty, so we can report back to client if they are missing
	JSONRPC string          `json:"jsonrpc,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      interface{}     `json:"id,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC response
type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   interface{} `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// JSONRPCNotification is a server-initiated message without an id
type JSONRPCNotification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

// Options configures the HTTP handler
type Options struct {
	EnableCORS bool
	// Token, when set, must be presented as a bearer token (or as the
	// "token" query parameter on /ws) by every client
	Token string
	// OnShutdown is called when a client sends server.shutdown
	OnShutdown func()
}

// corsMiddleware handles CORS preflight requests and adds CORS headers to responses.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// authMiddleware rejects requests that do not carry the expected token.
func authMiddleware(token string, next http.Handler) http.Handler {
	expected := []byte(token)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		presented := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if presented == "" {
			presented = r.URL.Query().Get("token")
		}

		if subtle.ConstantTimeCompare([]byte(presented), expected) != 1 {
			utils.Verbose("Rejected unauthenticated request to %s", r.URL.Path)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NewHandler builds the HTTP handler serving the banner, /rpc and /ws.
func NewHandler(opts Options) http.Handler {
	mux := http.NewServeMux()

	rpc := &rpcHandler{onShutdown: opts.OnShutdown}
	mux.HandleFunc("/", sendBanner)
	mux.Handle("/rpc", rpc)
	mux.Handle("/ws", &wsHandler{rpc: rpc, enableCORS: opts.EnableCORS})

	var handler http.Handler = mux
	if opts.Token != "" {
		handler = authMiddleware(opts.Token, handler)
	}
	if opts.EnableCORS {
		handler = corsMiddleware(handler)
	}
	return handler
}

// normalizeAddr turns a bare port into a listen address.
func normalizeAddr(addr string) (string, error) {
	// if host is missing, default to all interfaces
	if !strings.Contains(addr, ":") {
		port, err := strconv.Atoi(addr)
		if err != nil {
			return "", fmt.Errorf("invalid port: %v", err)
		}

		addr = fmt.Sprintf(":%d", port)
	}
	return addr, nil
}

// StartServer serves until a client sends server.shutdown or the listener fails.
func StartServer(addr string, enableCORS bool, token string) error {
	addr, err := normalizeAddr(addr)
	if err != nil {
		return err
	}

	shutdown := make(chan struct{}, 1)
	handler := NewHandler(Options{
		EnableCORS: enableCORS,
		Token:      token,
		OnShutdown: func() {
			select {
			case shutdown <- struct{}{}:
			default:
			}
		},
	})

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}

	go func() {
		<-shutdown
		utils.Info("Shutdown requested, stopping server")
		ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			utils.Error("Server shutdown failed: %v", err)
		}
	}()

	utils.Info("Starting server on http://%s...", server.Addr)
	if token != "" {
		utils.Info("Bearer token authentication enabled")
	}

	err = server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

type rpcHandler struct {
	onShutdown func()
}

func (h *rpcHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONRPCError(w, nil, ErrCodeParseError, "Parse error", "expecting jsonrpc payload")
		return
	}

	resp := h.call(req)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// call validates and executes one request. It is shared by /rpc and /ws.
func (h *rpcHandler) call(req JSONRPCRequest) JSONRPCResponse {
	if req.JSONRPC != "2.0" {
		return errorResponse(req.ID, ErrCodeInvalidRequest, "Invalid Request", "'jsonrpc' must be '2.0'")
	}

	if req.ID == nil {
		return errorResponse(nil, ErrCodeInvalidRequest, "Invalid Request", "'id' field is required")
	}

	if req.Method == "" {
		return errorResponse(req.ID, ErrCodeInvalidRequest, "Invalid Request", "'method' is required")
	}

	utils.Info("Request ID: %v, Method: %s, Params: %s", req.ID, req.Method, string(req.Params))

	if req.Method == ShutdownMethod {
		if h.onShutdown == nil {
			return errorResponse(req.ID, ErrCodeServerError, "Server error", "shutdown is not available")
		}
		h.onShutdown()
		return JSONRPCResponse{JSONRPC: "2.0", Result: okResponse, ID: req.ID}
	}

	handler, exists := GetMethodRegistry()[req.Method]
	if !exists {
		return errorResponse(req.ID, ErrCodeMethodNotFound, "Method not found", fmt.Sprintf("Method '%s' not found", req.Method))
	}

	result, err := handler(req.Params)
	if err != nil {
		utils.Error("Error executing method %s: %v", req.Method, err)

		var pe *paramsError
		if errors.As(err, &pe) {
			return errorResponse(req.ID, ErrCodeInvalidParams, "Invalid params", err.Error())
		}
		return errorResponse(req.ID, ErrCodeServerError, "Server error", err.Error())
	}

	return JSONRPCResponse{JSONRPC: "2.0", Result: result, ID: req.ID}
}

func errorResponse(id interface{}, code int, message string, data interface{}) JSONRPCResponse {
	return JSONRPCResponse{
		JSONRPC: "2.0",
		Error: map[string]interface{}{
			"code":    code,
			"message": message,
			"data":    data,
		},
		ID: id,
	}
}

func sendJSONRPCError(w http.ResponseWriter, id interface{}, code int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(errorResponse(id, code, message, data))
}

func sendBanner(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"name":    "spectrogesture",
		"version": Version,
	})
}
