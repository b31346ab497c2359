package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	jsoniter "github.com/json-iterator/go"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/aiface/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/aiface/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/aiface/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/aiface/internal/metrics"
	"github.com/saturnino-fabrica-de-software/aiface/internal/ws"
)

// multipart overhead on top of the largest accepted image
const bodyLimitSlack = 1024 * 1024

type Dependencies struct {
	FaceService  handler.FaceService
	ProviderName string
	Metrics      *metrics.Metrics

	Host           string
	MaxImageSize   int64
	RequestTimeout time.Duration
	// zero RateLimitRPS leaves the face routes unlimited
	RateLimitRPS   float64
	RateLimitBurst int
}

type Router struct {
	app         *fiber.App
	logger      *slog.Logger
	deps        *Dependencies
	rateLimiter *middleware.RateLimiter
	wsHub       *ws.Hub
	cancelHub   context.CancelFunc
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	if deps.MaxImageSize <= 0 {
		deps.MaxImageSize = 10 * 1024 * 1024
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(logger, deps.Metrics),
		AppName:               "AI Face API",
		BodyLimit:             int(deps.MaxImageSize) + bodyLimitSlack,
		JSONEncoder:           jsoniter.Marshal,
		JSONDecoder:           jsoniter.Unmarshal,
		DisableStartupMessage: true,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	sw := docs.NewSwagger(r.deps.Host)
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	healthHandler := handler.NewHealthHandler(r.deps.ProviderName)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	if r.deps.Metrics != nil {
		r.app.Get("/metrics", adaptor.HTTPHandler(r.deps.Metrics.Handler()))
	}

	var limited fiber.Handler = func(c *fiber.Ctx) error { return c.Next() }
	if r.deps.RateLimitRPS > 0 {
		limiterCfg := middleware.DefaultRateLimiterConfig()
		limiterCfg.RPS = r.deps.RateLimitRPS
		if r.deps.RateLimitBurst > 0 {
			limiterCfg.Burst = r.deps.RateLimitBurst
		}
		r.rateLimiter = middleware.NewRateLimiter(limiterCfg)
		limited = r.rateLimiter.Handler()
	}

	faceHandler := handler.NewFaceHandler(r.deps.FaceService, r.logger, handler.Config{
		MaxImageSize:   r.deps.MaxImageSize,
		RequestTimeout: r.deps.RequestTimeout,
	})
	r.app.Post("/analyze", limited, faceHandler.Analyze)
	r.app.Post("/verify-face", limited, faceHandler.VerifyFace)

	r.wsHub = ws.NewHub()
	hubCtx, hubCancel := context.WithCancel(context.Background())
	r.cancelHub = hubCancel
	go r.wsHub.Run(hubCtx)

	r.app.Get("/ws/analyze", ws.UpgradeMiddleware(), ws.Handler(r.wsHub, r.deps.FaceService, r.logger, ws.Config{
		MaxFrameSize:   r.deps.MaxImageSize,
		RequestTimeout: r.deps.RequestTimeout,
	}))
}

func (r *Router) App() *fiber.App {
	return r.app
}

// Sessions reports the number of open websocket sessions.
func (r *Router) Sessions() int {
	if r.wsHub == nil {
		return 0
	}
	return r.wsHub.Sessions()
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	// closes open websocket sessions
	if r.cancelHub != nil {
		r.cancelHub()
	}

	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}

	return r.app.Shutdown()
}
