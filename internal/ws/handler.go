package ws

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const sendBuffer = 16

type Config struct {
	MaxFrameSize   int64
	RequestTimeout time.Duration
}

func Handler(hub *Hub, analyzer Analyzer, logger *slog.Logger, cfg Config) fiber.Handler {
	if cfg.MaxFrameSize <= 0 {
		cfg.MaxFrameSize = 10 * 1024 * 1024
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}

	return websocket.New(func(c *websocket.Conn) {
		c.SetReadLimit(cfg.MaxFrameSize)

		client := &Client{
			id:       uuid.New(),
			hub:      hub,
			conn:     c,
			analyzer: analyzer,
			logger:   logger,
			timeout:  cfg.RequestTimeout,
			send:     make(chan []byte, sendBuffer),
			written:  make(chan struct{}),
		}

		if !hub.Register(client) {
			_ = c.Close()
			return
		}

		logger.Info("websocket session opened", slog.String("session_id", client.id.String()))
		defer logger.Info("websocket session closed", slog.String("session_id", client.id.String()))

		go client.WritePump()
		client.ReadPump()

		// the conn goes back to a pool once this returns
		<-client.written
	})
}

func UpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}
