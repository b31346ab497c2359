package ws

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/aiface/internal/domain"
	"github.com/saturnino-fabrica-de-software/aiface/internal/service"
)

// Analyzer analyses a single image, as POST /analyze does.
type Analyzer interface {
	Analyze(ctx context.Context, image []byte) (*domain.AnalysisOutcome, error)
}

// Client is one websocket session. Frames are analysed in arrival order and
// each frame gets exactly one reply.
type Client struct {
	id       uuid.UUID
	hub      *Hub
	conn     *websocket.Conn
	analyzer Analyzer
	logger   *slog.Logger
	timeout  time.Duration
	send     chan []byte
	written  chan struct{}
	once     sync.Once
}

func (c *Client) ID() uuid.UUID {
	return c.id
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		messageType, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn("websocket read failed",
					slog.String("session_id", c.id.String()),
					slog.Any("error", err),
				)
			}
			return
		}

		c.send <- c.handleFrame(messageType, payload)
	}
}

// WritePump sends queued replies until the send queue is closed, then closes
// written.
func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
		close(c.written)
	}()

	// keep draining after a failed write so ReadPump never blocks on send
	broken := false
	for message := range c.send {
		if broken {
			continue
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			broken = true
			_ = c.conn.Close()
		}
	}
}

func (c *Client) handleFrame(messageType int, payload []byte) []byte {
	if messageType != websocket.BinaryMessage {
		return encodeError(errTextFrame)
	}
	if len(payload) == 0 {
		return encodeError(domain.ErrNoFileUploaded)
	}

	ctx := service.WithRequestID(context.Background(), c.id.String())
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	outcome, err := c.analyzer.Analyze(ctx, payload)
	if err != nil {
		return encodeError(err)
	}
	return encodeOutcome(outcome)
}

func (c *Client) closeSend() {
	c.once.Do(func() { close(c.send) })
}
