package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/middleclick/middleclick/utils"
)

type wsConnection struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
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

func (h *rpcHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := newUpgrader(h.opts.EnableCORS).Upgrade(w, r, nil)
	if err != nil {
		utils.Verbose("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// the http.Server read/write timeouts would otherwise close idle subscribers
	_ = conn.NetConn().SetDeadline(time.Time{})

	wsConn := &wsConnection{conn: conn}

	if h.opts.Clicks != nil {
		clicks, unsubscribe := h.opts.Clicks.Subscribe()
		defer unsubscribe()

		go func() {
			for click := range clicks {
				if err := wsConn.sendNotification(ClickNotification, click); err != nil {
					utils.Verbose("Failed to push click notification: %v", err)
					return
				}
			}
		}()
	}

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

		h.handleWSMessage(r, wsConn, message)
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

func (h *rpcHandler) handleWSMessage(r *http.Request, wsConn *wsConnection, message []byte) {
	var req JSONRPCRequest
	if err := json.Unmarshal(message, &req); err != nil {
		_ = wsConn.sendError(nil, ErrCodeParseError, "Parse error", "expecting jsonrpc payload")
		return
	}

	if code, msg, data := validateJSONRPCRequest(req); code != 0 {
		_ = wsConn.sendError(req.ID, code, msg, data)
		return
	}

	utils.Verbose("WebSocket Request ID: %v, Method: %s, Params: %s", req.ID, req.Method, string(req.Params))

	handler, exists := h.methods[req.Method]
	if !exists {
		_ = wsConn.sendError(req.ID, ErrCodeMethodNotFound, "Method not found", req.Method+" not found")
		return
	}

	result, err := handler(r.Context(), req.Params)
	if err != nil {
		utils.Verbose("Error executing method %s: %v", req.Method, err)
		_ = wsConn.sendError(req.ID, ErrCodeServerError, "Server error", err.Error())
		return
	}

	_ = wsConn.sendResponse(req.ID, result)
}

func (wsc *wsConnection) sendResponse(id interface{}, result interface{}) error {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Result:  result,
		ID:      id,
	}
	return wsc.sendJSON(response)
}

func (wsc *wsConnection) sendError(id interface{}, code int, message string, data interface{}) error {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Error: map[string]interface{}{
			"code":    code,
			"message": message,
			"data":    data,
		},
		ID: id,
	}
	return wsc.sendJSON(response)
}

func (wsc *wsConnection) sendNotification(method string, params interface{}) error {
	return wsc.sendJSON(JSONRPCNotification{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
	})
}

func (wsc *wsConnection) sendJSON(v interface{}) error {
	wsc.writeMu.Lock()
	defer wsc.writeMu.Unlock()
	return wsc.conn.WriteJSON(v)
}
