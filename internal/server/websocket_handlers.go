package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MeKo-Tech/unfish/internal/converter"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development
		// In production, you should check against allowed origins
		return true
	},
}

// WebSocketConvertRequest represents a conversion request via WebSocket.
// Image carries the encoded source image (base64 in JSON).
type WebSocketConvertRequest struct {
	Image   []byte                 `json:"image"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// WebSocketConnWriter is an interface for writing WebSocket messages.
type WebSocketConnWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// WebSocketConvertResponse represents a conversion response via WebSocket.
// On completion, Image carries the PNG-encoded result.
type WebSocketConvertResponse struct {
	Type      string  `json:"type"`
	Status    string  `json:"status"` // "processing", "completed", "error"
	Progress  float64 `json:"progress,omitempty"`
	Image     []byte  `json:"image,omitempty"`
	Width     int     `json:"width,omitempty"`
	Height    int     `json:"height,omitempty"`
	Error     string  `json:"error,omitempty"`
	ErrorType string  `json:"error_type,omitempty"`
	RequestID string  `json:"request_id,omitempty"`
}

// convertWebSocketHandler handles WebSocket connections for conversions.
func (s *Server) convertWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)

	s.handleWebSocketConnection(conn)
}

// handleWebSocketConnection processes messages from a WebSocket connection.
func (s *Server) handleWebSocketConnection(conn *websocket.Conn) {
	// Set read deadline to prevent hanging connections
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Send ping messages to keep connection alive
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		}
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			break
		}

		websocketMessagesTotal.WithLabelValues("received").Inc()

		if messageType == websocket.TextMessage {
			s.handleWebSocketMessage(conn, data)
		}
	}
}

// handleWebSocketMessage processes a WebSocket conversion request.
func (s *Server) handleWebSocketMessage(conn *websocket.Conn, data []byte) {
	var req WebSocketConvertRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendWebSocketError(conn, "invalid_request", fmt.Sprintf("Failed to parse request: %v", err))
		return
	}

	// Generate a request ID for tracking
	requestID := strconv.FormatInt(time.Now().UnixNano(), 10)

	s.sendWebSocketResponse(conn, WebSocketConvertResponse{
		Type:      "convert_response",
		Status:    "processing",
		Progress:  0.0,
		RequestID: requestID,
	})

	s.processWebSocketConversion(conn, req, requestID)
}

// processWebSocketConversion runs one conversion request over WebSocket.
func (s *Server) processWebSocketConversion(conn *websocket.Conn, req WebSocketConvertRequest, requestID string) {
	if len(req.Image) == 0 {
		s.sendWebSocketError(conn, "invalid_request", "No image data provided")
		return
	}

	img, _, err := image.Decode(bytes.NewReader(req.Image))
	if err != nil {
		s.sendWebSocketError(conn, "processing_error", fmt.Sprintf("Failed to decode image: %v", err))
		return
	}

	conv, err := s.converterForOptions(req.Options)
	if err != nil {
		s.sendWebSocketError(conn, "invalid_request", fmt.Sprintf("Invalid parameters: %v", err))
		return
	}

	s.sendWebSocketResponse(conn, WebSocketConvertResponse{
		Type:      "convert_response",
		Status:    "processing",
		Progress:  0.5,
		RequestID: requestID,
	})

	ctx := context.Background()
	if s.timeoutSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.timeoutSec)*time.Second)
		defer cancel()
	}

	start := time.Now()
	res, err := conv.ConvertImage(ctx, img)
	duration := time.Since(start)

	if err != nil {
		conversionsTotal.WithLabelValues("websocket", "error").Inc()
		s.sendWebSocketError(conn, "processing_error", fmt.Sprintf("Conversion failed: %v", err))
		return
	}

	conversionsTotal.WithLabelValues("websocket", "success").Inc()
	conversionDuration.WithLabelValues("websocket").Observe(duration.Seconds())
	conversionMapSize.WithLabelValues("websocket").Observe(float64(res.MapSize))

	var buf bytes.Buffer
	if err := png.Encode(&buf, res.Output); err != nil {
		s.sendWebSocketError(conn, "processing_error", fmt.Sprintf("Failed to encode result: %v", err))
		return
	}

	bounds := res.Output.Bounds()
	s.sendWebSocketResponse(conn, WebSocketConvertResponse{
		Type:      "convert_response",
		Status:    "completed",
		Progress:  1.0,
		Image:     buf.Bytes(),
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		RequestID: requestID,
	})
}

// converterForOptions builds a converter from the server defaults overridden
// by WebSocket request options.
func (s *Server) converterForOptions(options map[string]interface{}) (*converter.Converter, error) {
	opts := s.converter.Options()
	b := converter.NewBuilder().
		WithFOV(opts.FOV).
		WithPerspectiveFOV(opts.PerspectiveFOV).
		WithCameraType(string(opts.CameraType)).
		WithFormat(string(opts.Format)).
		WithOutputShape(opts.OutputWidth, opts.OutputHeight).
		WithInterpolation(string(opts.Interpolation))

	if options == nil {
		return b.Build()
	}

	if val, ok := options["fov"].(float64); ok {
		b = b.WithFOV(val)
	}
	if val, ok := options["perspective_fov"].(float64); ok {
		b = b.WithPerspectiveFOV(val)
	}
	if val, ok := options["camera_type"].(string); ok {
		b = b.WithCameraType(val)
	}
	if val, ok := options["format"].(string); ok {
		b = b.WithFormat(val)
	}
	if val, ok := options["interpolation"].(string); ok {
		b = b.WithInterpolation(val)
	}
	width, wok := options["width"].(float64)
	height, hok := options["height"].(float64)
	if wok && hok {
		b = b.WithOutputShape(int(width), int(height))
	}

	return b.Build()
}

// sendWebSocketResponse sends a response message over WebSocket.
func (s *Server) sendWebSocketResponse(conn WebSocketConnWriter, response WebSocketConvertResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("Failed to marshal WebSocket response", "error", err)
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("Failed to send WebSocket message", "error", err)
		return
	}

	websocketMessagesTotal.WithLabelValues("sent").Inc()
}

// sendWebSocketError sends an error message over WebSocket.
func (s *Server) sendWebSocketError(conn WebSocketConnWriter, errorType, message string) {
	response := WebSocketConvertResponse{
		Type:      "error",
		Status:    "error",
		Error:     message,
		ErrorType: errorType,
	}

	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("Failed to marshal WebSocket error response", "error", err)
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("Failed to send WebSocket error message", "error", err)
		return
	}

	websocketMessagesTotal.WithLabelValues("sent").Inc()
}
