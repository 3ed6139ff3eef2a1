package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"item-appraiser/internal/api"
	"item-appraiser/internal/config"
	"item-appraiser/internal/llm"
	"item-appraiser/internal/logs"
	"item-appraiser/internal/metrics"
	"item-appraiser/internal/store"
	"item-appraiser/internal/ttl"
	"item-appraiser/internal/upstream"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Root context, cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Logger
	logger := logs.NewLogger(
		cfg.LogBuffer,
		cfg.Level(),
		logs.WithZerolog(logs.NewZerolog(os.Stdout, cfg.LogFormat)),
	)

	// Metrics
	metricsRegistry := metrics.NewRegistry()

	// Share store
	shares := store.NewStore[json.RawMessage](store.Options{
		TTL:        cfg.ShareTTL,
		MaxEntries: cfg.ShareMaxEntries,
	}, metricsRegistry)

	// TTL cleaner
	ttlCleaner := ttl.NewCleaner(
		shares,
		cfg.ShareSweepInterval,
		logger,
		metricsRegistry,
	)

	// Upstream model API
	upstreamConfig := upstream.DefaultConfig()
	upstreamConfig.Timeout = cfg.UpstreamTimeout
	upstreamConfig.Retry.MaxRetries = cfg.UpstreamRetries
	upstreamConfig.Probe.Interval = cfg.ProbeInterval

	tracker := upstream.NewTracker(upstreamConfig.Health, metricsRegistry)
	client := llm.NewClient(llm.Options{
		APIKey:  cfg.OpenAIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
		Timeout: upstreamConfig.Timeout,
		Retry:   upstreamConfig.Retry,
	}, tracker, logger, metricsRegistry)

	prober := upstream.NewProber(
		tracker,
		client.Ping,
		upstreamConfig.Probe,
		logger,
		metricsRegistry,
	)

	// API
	handler := api.NewHandler(
		shares,
		client,
		metricsRegistry,
		logger,
		cfg.MaxUploadBytes,
	)

	server := &http.Server{
		Addr:              cfg.Address,
		Handler:           api.NewRouter(handler, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		// Analyze waits on the model API, so the write deadline has to outlast it.
		WriteTimeout: cfg.UpstreamTimeout + 30*time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ttlCleaner.Start(gctx)
		return nil
	})

	if prober.Enabled() {
		g.Go(func() error {
			logger.Infof("upstream probe every %s for model %s", cfg.ProbeInterval, client.Model())
			prober.Start(gctx)
			return nil
		})
	}

	g.Go(func() error {
		logger.Infof("server started on %s (model %s)", cfg.Address, client.Model())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
