package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/api"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/camera"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/config"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/detector"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/face"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/mqtt"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/recommend"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/service"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/state"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/stream"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/webhook"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting MoodMirror API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("detector", cfg.DetectorProvider),
		slog.String("llm", cfg.LLMProvider),
	)

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Emotion detection strategy chain
	providers, err := face.NewEmotionProviders(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create emotion providers: %w", err)
	}
	detectorNames := make([]string, 0, len(providers))
	for _, p := range providers {
		detectorNames = append(detectorNames, p.Name())
	}
	adapter := detector.NewAdapter(logger, providers,
		detector.WithTimeout(cfg.DetectorTimeout),
		detector.WithJPEGQuality(cfg.JPEGQuality),
	)

	// Text generation (optional)
	generator, err := recommend.NewGenerator(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create text generator: %w", err)
	}
	generatorName := ""
	if generator != nil {
		generatorName = generator.Name()
	} else {
		logger.Warn("no API key for text generation, recommendations are disabled",
			slog.String("llm", cfg.LLMProvider),
		)
	}

	// Current emotion, shared by every handler
	emotionState := state.NewCell()

	// MQTT mirror of the current emotion (optional)
	if publisher := mqtt.NewPublisher(mqtt.Config{
		Broker:   cfg.MQTTBroker,
		Topic:    cfg.MQTTTopic,
		ClientID: cfg.MQTTClientID,
		Username: cfg.MQTTUsername,
		Password: cfg.MQTTPassword,
		Retain:   true,
	}, logger); publisher != nil {
		if err := publisher.Connect(); err != nil {
			// auto-reconnect keeps trying in the background
			logger.Error("mqtt connect failed", slog.Any("error", err))
		}
		emotionState.Subscribe(publisher.Listener())
		go publisher.Run(ctx)
	}

	// Signed webhook delivery of emotion changes (optional)
	if cfg.WebhookURL != "" {
		worker := webhook.NewWorker(
			webhook.NewService(webhook.Webhook{URL: cfg.WebhookURL, Secret: cfg.WebhookSecret}, cfg.WebhookTimeout),
			webhook.WorkerConfig{MaxAttempts: cfg.WebhookMaxAttempts},
			logger,
		)
		emotionState.Subscribe(worker.Listener())
		go worker.Run(ctx)
	}

	selector := recommend.NewSelector(generator, emotionState, recommend.Config{
		Policy:  recommend.Policy(cfg.FallbackPolicy),
		Timeout: cfg.LLMTimeout,
	}, logger)

	streamer := stream.NewStreamer(
		camera.DeviceOpener(cfg.CameraDevice),
		adapter,
		emotionState,
		stream.Config{SampleEvery: cfg.SampleEvery, JPEGQuality: cfg.JPEGQuality},
		logger,
	)

	// Setup router
	router := api.NewRouter(logger, &api.Dependencies{
		Emotion:       service.NewEmotionService(adapter, emotionState, logger).WithJPEGQuality(cfg.JPEGQuality),
		Recommender:   selector,
		Streamer:      streamer,
		State:         emotionState,
		DetectorNames: detectorNames,
		GeneratorName: generatorName,
	}, api.Config{
		MaxUploadBytes:      cfg.MaxUploadBytes,
		RateLimitMax:        cfg.RateLimitMax,
		RateLimitWindow:     cfg.RateLimitWindow,
		RecommendationLimit: cfg.RecommendationRateLimit,
		StaticDir:           cfg.StaticDir,
		DocsHost:            fmt.Sprintf("localhost:%d", cfg.Port),
	})
	router.Setup()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	done := make(chan error, 1)
	go func() {
		done <- router.Shutdown()
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.Error("shutdown error", slog.Any("error", err))
		}
	case <-shutdownCtx.Done():
		logger.Warn("shutdown timed out")
	}
	logger.Info("server stopped")

	return nil
}
