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

	"github.com/middleclick/middleclick/emitter"
	"github.com/middleclick/middleclick/utils"
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

// ClickNotification is the JSON-RPC method name of pushed click notifications
const ClickNotification = "click"

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

// JSONRPCNotification is a server initiated message without an id
type JSONRPCNotification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// Options configures the HTTP handler
type Options struct {
	EnableCORS bool
	// Token, when set, must be presented as a bearer token (or the token
	// query parameter on /ws) by every client
	Token string
	// Clicks feeds click notifications to WebSocket clients
	Clicks *emitter.Broadcaster
	// Shutdown is called by the server.shutdown method
	Shutdown func()
}

type rpcHandler struct {
	opts    Options
	methods map[string]HandlerFunc
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
// The banner stays public so clients can probe for a running server.
func authMiddleware(token string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		presented := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if presented == "" {
			presented = r.URL.Query().Get("token")
		}

		if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NewHandler returns the HTTP handler serving the banner on /, JSON-RPC on
// /rpc and JSON-RPC plus click notifications on /ws
func NewHandler(opts Options) http.Handler {
	h := &rpcHandler{
		opts:    opts,
		methods: GetMethodRegistry(),
	}
	if opts.Shutdown != nil {
		h.methods[ShutdownMethod] = func(_ context.Context, _ json.RawMessage) (interface{}, error) {
			utils.Info("Shutdown requested")
			opts.Shutdown()
			return okResponse, nil
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", sendBanner)
	mux.HandleFunc("/rpc", h.handleJSONRPC)
	mux.HandleFunc("/ws", h.handleWebSocket)

	var handler http.Handler = mux
	if opts.Token != "" {
		handler = authMiddleware(opts.Token, handler)
	}
	if opts.EnableCORS {
		handler = corsMiddleware(handler)
	}
	return handler
}

// NormalizeAddr turns a bare port into a listen address
func NormalizeAddr(addr string) (string, error) {
	// if host is missing, default to localhost
	if !strings.Contains(addr, ":") {
		// convert addr to integer
		port, err := strconv.Atoi(addr)
		if err != nil {
			return "", fmt.Errorf("invalid port: %v", err)
		}

		addr = fmt.Sprintf(":%d", port)
	}
	return addr, nil
}

// StartServer serves until server.shutdown is called or ctx is cancelled
func StartServer(ctx context.Context, addr string, opts Options) error {
	addr, err := NormalizeAddr(addr)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         addr,
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}

	stop := make(chan struct{}, 1)
	requested := opts.Shutdown
	opts.Shutdown = func() {
		if requested != nil {
			requested()
		}
		select {
		case stop <- struct{}{}:
		default:
		}
	}
	server.Handler = NewHandler(opts)

	go func() {
		select {
		case <-ctx.Done():
		case <-stop:
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			utils.Warn("Server shutdown failed: %v", err)
		}
	}()

	utils.Info("Starting server on http://%s...", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	utils.Info("Server stopped")
	return nil
}

func (h *rpcHandler) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONRPCError(w, nil, ErrCodeParseError, "Parse error", "expecting jsonrpc payload")
		return
	}

	if code, message, data := validateJSONRPCRequest(req); code != 0 {
		sendJSONRPCError(w, req.ID, code, message, data)
		return
	}

	utils.Verbose("Request ID: %v, Method: %s, Params: %s", req.ID, req.Method, string(req.Params))

	handler, exists := h.methods[req.Method]
	if !exists {
		sendJSONRPCError(w, req.ID, ErrCodeMethodNotFound, "Method not found", fmt.Sprintf("Method '%s' not found", req.Method))
		return
	}

	result, err := handler(r.Context(), req.Params)
	if err != nil {
		utils.Verbose("Error executing method %s: %v", req.Method, err)
		sendJSONRPCError(w, req.ID, ErrCodeServerError, "Server error", err.Error())
		return
	}

	sendJSONRPCResponse(w, req.ID, result)
}

// validateJSONRPCRequest returns a zero code when the envelope is well formed
func validateJSONRPCRequest(req JSONRPCRequest) (int, string, string) {
	if req.JSONRPC != "2.0" {
		return ErrCodeInvalidRequest, "Invalid Request", "'jsonrpc' must be '2.0'"
	}
	if req.ID == nil {
		return ErrCodeInvalidRequest, "Invalid Request", "'id' field is required"
	}
	if req.Method == "" {
		return ErrCodeInvalidRequest, "Invalid Request", "'method' is required"
	}
	return 0, "", ""
}

func sendJSONRPCResponse(w http.ResponseWriter, id interface{}, result interface{}) {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Result:  result,
		ID:      id,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

func sendJSONRPCError(w http.ResponseWriter, id interface{}, code int, message string, data interface{}) {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Error: map[string]interface{}{
			"code":    code,
			"message": message,
			"data":    data,
		},
		ID: id,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

func sendBanner(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(okResponse)
}
