package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/halcyondata/company-intel/internal/cache"
	"github.com/halcyondata/company-intel/internal/config"
	"github.com/halcyondata/company-intel/internal/extract"
	"github.com/halcyondata/company-intel/internal/heuristic"
	"github.com/halcyondata/company-intel/internal/loader"
	"github.com/halcyondata/company-intel/internal/provider"
	"github.com/halcyondata/company-intel/internal/service"
)

// Batch mode runs the extraction pipeline over every website snapshot in
// the data directory and persists the results to the cache.
func main() {
	var (
		dataDir = flag.String("data", "", "override the snapshot directory")
		domain  = flag.String("domain", "", "process a single domain instead of all")
		force   = flag.Bool("force", false, "re-run extraction even for cached profiles")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

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

	snapshots := loader.New(cfg.DataDir)
	orchestrator := extract.NewOrchestrator(models, heuristic.NewExtractor(cfg.PhoneRegion), logger)
	extraction := service.NewExtractionService(
		snapshots, store, orchestrator, logger,
		cfg.PipelineTimeout, cfg.CorpusCharLimit)

	domains := flag.Args()
	if *domain != "" {
		domains = append(domains, *domain)
	}
	if len(domains) == 0 {
		domains, err = snapshots.Companies()
		if err != nil {
			log.Fatalf("failed to list snapshots: %v", err)
		}
	}
	if len(domains) == 0 {
		log.Fatalf("no website snapshots found under %s", cfg.DataDir)
	}

	ctx := context.Background()
	var processed, cached, failed int
	started := time.Now()
	for _, d := range domains {
		res, err := extraction.Process(ctx, d, *force)
		if err != nil {
			failed++
			logger.Error("extraction failed", slog.String("domain", d), slog.String("error", err.Error()))
			continue
		}
		if res.Cached {
			cached++
		} else {
			processed++
		}
		logger.Info("done",
			slog.String("domain", d),
			slog.String("status", res.Record.Metadata.ExtractionStatus),
			slog.String("confidence", res.Record.Metadata.ExtractionConfidence),
			slog.Bool("cached", res.Cached))
	}

	fmt.Printf("processed=%d cached=%d failed=%d elapsed=%s\n", processed, cached, failed, time.Since(started).Round(time.Millisecond))
	if failed > 0 {
		os.Exit(1)
	}
}
