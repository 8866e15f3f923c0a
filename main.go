package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"pg-recommender/config"
	"pg-recommender/geo"
	"pg-recommender/models"
	"pg-recommender/services"
	"pg-recommender/storage"
	"pg-recommender/utils"
	"pg-recommender/web"
)

const usage = `usage:
  pg-recommender                 serve the search page on HTTP_ADDR
  pg-recommender search [flags]  run one search and print the results`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	logger := utils.NewLoggerWithOptions(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args := os.Args[1:]
	cmd := "serve"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "serve":
		err = runServe(ctx, cfg, logger)
	case "search":
		err = runSearch(ctx, cfg, logger, args, os.Stdout)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("%v", err)
		stop()
		os.Exit(1)
	}
}

// app holds the collaborators shared by both commands.
type app struct {
	dataset   *models.Dataset
	engine    *services.Engine
	annotator *services.Annotator
}

func newApp(ctx context.Context, cfg *config.Config, logger *utils.Logger) (*app, error) {
	source, err := openSource(cfg)
	if err != nil {
		return nil, err
	}
	defer source.Close()

	dataset, err := services.LoadDataset(ctx, source, services.NewCleaner(logger))
	if err != nil {
		return nil, err
	}
	logger.Info("[main] Loaded %d listings from %s (%d cities)", dataset.Len(), cfg.DatasetSource, len(dataset.Cities()))

	analyzer, err := services.NewSentimentAnalyzer(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &app{
		dataset:   dataset,
		engine:    services.NewEngine(logger),
		annotator: services.NewAnnotator(analyzer, cfg.SentimentStrategy, logger, cfg.MaxConcurrency, cfg.RateLimitMs),
	}, nil
}

func openSource(cfg *config.Config) (storage.ListingSource, error) {
	if cfg.DatasetSource == "postgres" {
		src, err := storage.NewPostgresSource(cfg.DSN(), cfg.PostgresTable)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	return storage.NewCSVSource(cfg.DatasetPath), nil
}

func runServe(ctx context.Context, cfg *config.Config, logger *utils.Logger) error {
	logger.Info("=== PG Recommender starting ===")
	logger.Info("Config: source %s | sentiment %s | concurrency %d | addr %s",
		cfg.DatasetSource, cfg.SentimentStrategy, cfg.MaxConcurrency, cfg.HTTPAddr)

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	deps := web.Deps{
		Dataset:   a.dataset,
		Engine:    a.engine,
		Annotator: a.annotator,
		Logger:    logger,
	}
	if g, err := geo.NewOpenCageGeocoder(cfg, logger); err != nil {
		logger.Warn("[main] Auto-detect disabled: %v", err)
	} else {
		deps.Geocoder = g
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           web.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("[main] Listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("[main] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
