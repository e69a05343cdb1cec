// Package sync broadcasts avatar state to connected frontends over
// WebSocket and routes their input back into the pipeline.
package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ananyak/mindmate/internal/emotion"
	"github.com/ananyak/mindmate/internal/expression"
)

// OutboundMessage is the envelope for every server-to-client message.
type OutboundMessage struct {
	Type      string `json:"type"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// InboundMessage is the envelope for client-to-server messages.
// Type is one of "message" (free text), "emotion" (manual selection),
// "activity" (click, pause, break) or "logs" (log history request).
type InboundMessage struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Emotion string `json:"emotion,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

// Server is the avatar-state broadcast endpoint.
type Server struct {
	addr     string
	logger   zerolog.Logger
	upgrader websocket.Upgrader

	mu         sync.RWMutex
	conns      map[string]*websocket.Conn
	onText     func(clientID, text string)
	onEmotion  func(clientID string, e emotion.Emotion)
	onActivity func(clientID, kind string)
	onLogs     func(clientID string, limit int)

	server   *http.Server
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewServer creates a broadcast server listening on addr.
func NewServer(addr string, logger zerolog.Logger) *Server {
	return &Server{
		addr:   addr,
		logger: logger.With().Str("component", "sync").Logger(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns:  make(map[string]*websocket.Conn),
		stopCh: make(chan struct{}),
	}
}

// SetTextHandler registers the handler for free-text client messages.
func (s *Server) SetTextHandler(fn func(clientID, text string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onText = fn
}

// SetEmotionHandler registers the handler for manual emotion selections.
func (s *Server) SetEmotionHandler(fn func(clientID string, e emotion.Emotion)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEmotion = fn
}

// SetActivityHandler registers the handler for activity signals
// (click, pause, break).
func (s *Server) SetActivityHandler(fn func(clientID, kind string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onActivity = fn
}

// SetLogsHandler registers the handler for log history requests.
func (s *Server) SetLogsHandler(fn func(clientID string, limit int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLogs = fn
}

// Start begins serving. It returns immediately; the server shuts down
// when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.wsHandler)
	s.server = &http.Server{Addr: s.addr, Handler: mux}

	go func() {
		s.logger.Info().Str("addr", s.addr).Msg("Sync server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("Sync server error")
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop shuts the server down and closes all client connections.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		if s.server != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			s.server.Shutdown(shutdownCtx)
		}
		s.mu.Lock()
		for id, conn := range s.conns {
			conn.Close()
			delete(s.conns, id)
		}
		s.mu.Unlock()
	})
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conns)
}

// BroadcastFrame sends an avatar frame to every connected client.
func (s *Server) BroadcastFrame(frame expression.Frame) {
	s.Broadcast("frame", frame)
}

// SendTo sends a typed message to a single client. Unknown clients are
// a no-op.
func (s *Server) SendTo(clientID, msgType string, data any) error {
	msg := OutboundMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	conn, ok := s.conns[clientID]
	if !ok {
		return nil
	}
	return conn.WriteMessage(websocket.TextMessage, payload)
}

// Broadcast sends a typed message to every connected client.
func (s *Server) Broadcast(msgType string, data any) {
	msg := OutboundMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Warn().Err(err).Str("type", msgType).Msg("Failed to marshal broadcast")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, conn := range s.conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			s.logger.Debug().Err(err).Str("client", id).Msg("Dropping client after write error")
			conn.Close()
			delete(s.conns, id)
		}
	}
}

func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		clientID = uuid.NewString()
	}

	s.mu.Lock()
	s.conns[clientID] = conn
	s.mu.Unlock()
	s.logger.Info().Str("client", clientID).Msg("Client connected")

	defer func() {
		s.mu.Lock()
		delete(s.conns, clientID)
		s.mu.Unlock()
		conn.Close()
		s.logger.Info().Str("client", clientID).Msg("Client disconnected")
	}()

	for {
		select {
		case <-s.stopCh:
			return
		default:
		}

		var msg InboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug().Err(err).Str("client", clientID).Msg("Read error")
			}
			return
		}
		s.dispatch(clientID, msg)
	}
}

func (s *Server) dispatch(clientID string, msg InboundMessage) {
	s.mu.RLock()
	onText, onEmotion, onActivity, onLogs := s.onText, s.onEmotion, s.onActivity, s.onLogs
	s.mu.RUnlock()

	switch msg.Type {
	case "message":
		if onText != nil && msg.Text != "" {
			onText(clientID, msg.Text)
		}
	case "emotion":
		e := emotion.Emotion(msg.Emotion)
		if !e.Valid() {
			s.logger.Warn().Str("emotion", msg.Emotion).Msg("Ignoring unknown emotion")
			return
		}
		if onEmotion != nil {
			onEmotion(clientID, e)
		}
	case "activity":
		if onActivity != nil && msg.Kind != "" {
			onActivity(clientID, msg.Kind)
		}
	case "logs":
		if onLogs != nil {
			onLogs(clientID, msg.Limit)
		}
	default:
		s.logger.Debug().Str("type", msg.Type).Msg("Unknown message type")
	}
}
