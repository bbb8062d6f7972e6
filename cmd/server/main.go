package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"reportctx/internal/api"
	"reportctx/internal/chunker"
	"reportctx/internal/config"
	"reportctx/internal/docstore"
	"reportctx/internal/generate"
	"reportctx/internal/parser"
	"reportctx/internal/pipeline"
	"reportctx/internal/section"
)

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional Postgres mirror for the document cache.
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		var err error
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if _, err := pool.Exec(ctx, docstore.Schema); err != nil {
			log.Error("database schema setup failed", "error", err)
			os.Exit(1)
		}
	}

	store, err := docstore.New(cfg.CacheDir, pool, log)
	if err != nil {
		log.Error("cache setup failed", "error", err)
		os.Exit(1)
	}

	parser.PDFFallbackPdftotext = cfg.PDFFallbackPdftotext

	taxonomy, err := section.Load(cfg.TaxonomyPath)
	if err != nil {
		log.Error("taxonomy load failed", "error", err)
		os.Exit(1)
	}

	gen, err := generate.New(generate.Options{
		Backend: cfg.GeneratorBackend,
		BaseURL: cfg.OllamaURL,
		Model:   cfg.OllamaModel,
	})
	if err != nil {
		log.Error("generator setup failed", "error", err)
		os.Exit(1)
	}

	chunkCfg := chunker.Config{
		MaxChunkTokens: cfg.MaxChunkTokens,
		OverlapTokens:  cfg.OverlapTokens,
	}
	proc := pipeline.NewProcessor(store, taxonomy, gen, generate.NewStats(time.Hour), chunkCfg, cfg.MaxContextTokens, log)

	orch := pipeline.NewOrchestrator(proc, cfg.WorkerCount, cfg.MaxQueueSize, cfg.JobTTL, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		// Stop accepting HTTP traffic before closing the job queue so
		// an in-flight upload cannot submit into a stopped orchestrator.
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()

		if pool != nil {
			pool.Close()
		}
	}()

	log.Info("starting reportctx", "port", cfg.Port, "backend", cfg.GeneratorBackend)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
