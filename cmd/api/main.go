package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/halcyondata/company-intel/internal/cache"
	"github.com/halcyondata/company-intel/internal/config"
	"github.com/halcyondata/company-intel/internal/extract"
	"github.com/halcyondata/company-intel/internal/handler"
	"github.com/halcyondata/company-intel/internal/heuristic"
	"github.com/halcyondata/company-intel/internal/loader"
	middlewarepkg "github.com/halcyondata/company-intel/internal/middleware"
	"github.com/halcyondata/company-intel/internal/provider"
	"github.com/halcyondata/company-intel/internal/router"
	"github.com/halcyondata/company-intel/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	store, err := cache.NewStore(cfg.CacheDir, logger)
	if err != nil {
		log.Fatalf("failed to open cache: %v", err)
	}

	httpClient := &http.Client{Timeout: 90 * time.Second}
	ollama := provider.NewOllamaProvider(httpClient, cfg.OllamaBaseURL, cfg.OllamaModel)
	local := provider.NewLocalProvider(
		provider.NewCommandEngine(cfg.LocalRunnerPath, cfg.LocalModelPath),
		cfg.LocalModelName, cfg.LocalModelPath)
	models := provider.NewRouter(logger, cfg.SoftTimeLimit, ollama, local)

	orchestrator := extract.NewOrchestrator(models, heuristic.NewExtractor(cfg.PhoneRegion), logger)
	extraction := service.NewExtractionService(
		loader.New(cfg.DataDir), store, orchestrator, logger,
		cfg.PipelineTimeout, cfg.CorpusCharLimit)

	profileHandler := handler.NewProfileHandler(extraction, models)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(logger))
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, router.Handlers{Profiles: profileHandler})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()
	logger.Info("listening", slog.String("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", slog.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}
}
