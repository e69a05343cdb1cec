package camera

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ananyak/mindmate/internal/emotion"
)

// WSScoresMessage is pushed by the inference backend with per-class
// emotion scores for the current frame.
type WSScoresMessage struct {
	Type         string             `json:"type"`
	Scores       map[string]float64 `json:"scores"`
	FaceDetected bool               `json:"face_detected"`
	Timestamp    string             `json:"timestamp"`
}

// WSErrorMessage reports backend errors.
type WSErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// StreamClient keeps a WebSocket open to the facial-emotion inference
// backend and caches the latest score vector. It implements Detector:
// each poll returns the freshest scores, or ErrNoDetection when nothing
// recent arrived.
type StreamClient struct {
	baseURL  string
	logger   zerolog.Logger
	maxStale time.Duration

	mu        sync.RWMutex
	conn      *websocket.Conn
	connected bool
	cancel    context.CancelFunc

	latest     emotion.Scores
	receivedAt time.Time
}

// NewStreamClient creates a client for the given backend base URL.
// Scores older than maxStale count as no detection.
func NewStreamClient(baseURL string, maxStale time.Duration, logger zerolog.Logger) *StreamClient {
	if maxStale <= 0 {
		maxStale = DefaultPollInterval
	}
	return &StreamClient{
		baseURL:  baseURL,
		maxStale: maxStale,
		logger:   logger.With().Str("component", "camera-stream").Logger(),
	}
}

// Connect starts the connection loop in the background.
func (c *StreamClient) Connect(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	go c.connectLoop(ctx)
	return nil
}

// Disconnect closes the WebSocket connection.
func (c *StreamClient) Disconnect() {
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connected = false
	c.mu.Unlock()
}

// IsConnected returns connection status.
func (c *StreamClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Detect returns the latest backend scores if fresh enough.
func (c *StreamClient) Detect(ctx context.Context) (emotion.Scores, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.latest == nil || time.Since(c.receivedAt) > c.maxStale {
		return nil, ErrNoDetection
	}
	scores := make(emotion.Scores, len(c.latest))
	for k, v := range c.latest {
		scores[k] = v
	}
	return scores, nil
}

// connectLoop maintains the WebSocket connection with reconnection.
func (c *StreamClient) connectLoop(ctx context.Context) {
	backoff := 3 * time.Second
	maxBackoff := 60 * time.Second
	consecutiveFailures := 0

	for {
		select {
		case <-ctx.Done():
			return
		default:
			if err := c.connectWS(ctx); err != nil {
				consecutiveFailures++
				c.mu.Lock()
				c.connected = false
				c.mu.Unlock()

				if consecutiveFailures >= 3 {
					if consecutiveFailures == 3 {
						c.logger.Warn().
							Err(err).
							Int("failures", consecutiveFailures).
							Msg("Inference WebSocket not available, will retry less frequently")
					} else {
						c.logger.Debug().
							Int("failures", consecutiveFailures).
							Msg("Inference WebSocket still unavailable")
					}
					backoff = maxBackoff
				} else {
					c.logger.Warn().Err(err).Msg("WebSocket connection failed, reconnecting...")
				}

				select {
				case <-ctx.Done():
					return
				case <-time.After(backoff):
				}

				if backoff < maxBackoff {
					backoff = backoff * 2
					if backoff > maxBackoff {
						backoff = maxBackoff
					}
				}
			} else {
				backoff = 3 * time.Second
				consecutiveFailures = 0
			}
		}
	}
}

func (c *StreamClient) connectWS(ctx context.Context) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}

	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = "/api/v1/emotion/stream/ws"

	c.logger.Info().Str("url", u.String()).Msg("Connecting to inference WebSocket")

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	c.logger.Info().Msg("Connected to inference WebSocket")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			var msg json.RawMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return fmt.Errorf("read: %w", err)
			}
			c.handleMessage(msg)
		}
	}
}

func (c *StreamClient) handleMessage(raw json.RawMessage) {
	var typeMsg struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &typeMsg); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to parse message type")
		return
	}

	switch typeMsg.Type {
	case "scores":
		var msg WSScoresMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to parse scores message")
			return
		}
		if !msg.FaceDetected {
			return
		}
		scores := make(emotion.Scores, len(msg.Scores))
		for label, score := range msg.Scores {
			scores[emotion.Emotion(label)] = score
		}
		c.mu.Lock()
		c.latest = scores
		c.receivedAt = time.Now()
		c.mu.Unlock()

	case "error":
		var msg WSErrorMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to parse error message")
			return
		}
		c.logger.Warn().Str("message", msg.Message).Msg("Backend error")

	default:
		c.logger.Debug().Str("type", typeMsg.Type).Msg("Unknown message type")
	}
}
