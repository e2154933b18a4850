package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/domain"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/state"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/stream"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/ws"
)

type Dependencies struct {
	Emotion     handler.EmotionService
	Recommender handler.Recommender
	Streamer    *stream.Streamer
	State       *state.Cell

	// names reported by /ready
	DetectorNames []string
	GeneratorName string
}

type Config struct {
	MaxUploadBytes  int
	RateLimitMax    int
	RateLimitWindow time.Duration
	// RecommendationLimit caps generator calls per client and window; 0 uses the global limit
	RecommendationLimit int
	StaticDir           string
	DocsHost            string
}

type Router struct {
	app          *fiber.App
	logger       *slog.Logger
	deps         *Dependencies
	cfg          Config
	rateLimiter  *middleware.RateLimiter
	wsHub        *ws.Hub
	cancelHub    context.CancelFunc
	cancelStream context.CancelFunc
}

func NewRouter(logger *slog.Logger, deps *Dependencies, cfg Config) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "MoodMirror API",
		BodyLimit:    bodyLimit(cfg.MaxUploadBytes),
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
		cfg:    cfg,
	}
}

// bodyLimit leaves room for multipart framing around the image itself
func bodyLimit(maxUpload int) int {
	if maxUpload <= 0 {
		return fiber.DefaultBodyLimit
	}
	return maxUpload + 64*1024
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

	// Swagger documentation
	host := r.cfg.DocsHost
	if host == "" {
		host = "localhost:3000"
	}
	sw := docs.NewSwagger(host)
	swagger.SwaggerHandler(r.app, sw.MustToJson())
	r.app.Get("/docs", func(c *fiber.Ctx) error {
		return c.Redirect("/swagger/", fiber.StatusFound)
	})

	healthHandler := handler.NewHealthHandler(r.deps.DetectorNames, r.deps.GeneratorName)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	api := r.app.Group("/api")

	// Rate limiting (per client IP)
	limiterCfg := middleware.RateLimiterConfig{
		Max:    r.cfg.RateLimitMax,
		Window: r.cfg.RateLimitWindow,
	}
	if r.cfg.RecommendationLimit > 0 {
		limiterCfg.PerEndpoint = map[string]middleware.EndpointRateLimit{
			"/api/recommendation": {Requests: r.cfg.RecommendationLimit, Window: r.cfg.RateLimitWindow},
		}
	}
	r.rateLimiter = middleware.NewRateLimiter(limiterCfg)

	emotionHandler := handler.NewEmotionHandler(r.deps.Emotion, r.cfg.MaxUploadBytes, r.logger)
	api.Post("/upload", r.rateLimiter.Handler(), emotionHandler.Upload)
	api.Post("/emotion", r.rateLimiter.Handler(), emotionHandler.Observe)
	api.Get("/emotion", r.rateLimiter.Handler(), emotionHandler.Current)

	recommendationHandler := handler.NewRecommendationHandler(r.deps.Recommender, r.logger)
	api.Post("/recommendation", r.rateLimiter.Handler(), recommendationHandler.Recommend)
	api.Get("/recommendation", r.rateLimiter.Handler(), recommendationHandler.Recommend)

	// Long-lived streams are not rate limited
	if r.deps.Streamer != nil {
		streamCtx, streamCancel := context.WithCancel(context.Background())
		r.cancelStream = streamCancel
		streamHandler := handler.NewStreamHandler(streamCtx, r.deps.Streamer, r.logger)
		api.Get("/video_feed", streamHandler.VideoFeed)
	}

	// WebSocket push of emotion changes
	r.wsHub = ws.NewHub(r.logger)
	hubCtx, hubCancel := context.WithCancel(context.Background())
	r.cancelHub = hubCancel
	go r.wsHub.Run(hubCtx)
	var current ws.SnapshotReader
	if r.deps.State != nil {
		r.deps.State.Subscribe(r.wsHub.Listener())
		current = r.deps.State
	}
	api.Get("/ws", ws.UpgradeMiddleware(), ws.Handler(r.wsHub, current))

	// Web client
	if r.cfg.StaticDir != "" {
		r.app.Static("/", r.cfg.StaticDir)
	}

	r.app.Use(func(c *fiber.Ctx) error {
		return domain.ErrNotFound
	})
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Hub() *ws.Hub {
	return r.wsHub
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	// Stop open video streams
	if r.cancelStream != nil {
		r.cancelStream()
	}

	// Stop WebSocket hub
	if r.cancelHub != nil {
		r.cancelHub()
	}

	// Stop rate limiter cleanup goroutine
	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}

	return r.app.Shutdown()
}
