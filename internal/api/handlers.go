package api

import (
	"context"
	"encoding/json"
	"time"

	"item-appraiser/internal/health"
	"item-appraiser/internal/llm"
	"item-appraiser/internal/logs"
	"item-appraiser/internal/metrics"
	"item-appraiser/internal/store"
)

// DefaultMaxUploadBytes caps multipart bodies when no limit is configured.
const DefaultMaxUploadBytes = 10 << 20

// Completer sends one chat completion to the model API.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	shares    *store.Store[json.RawMessage]
	model     Completer
	metrics   *metrics.Registry
	analyzer  *health.Analyzer
	logger    *logs.Logger
	maxUpload int64
	now       func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(
	shares *store.Store[json.RawMessage],
	model Completer,
	metricsRegistry *metrics.Registry,
	logger *logs.Logger,
	maxUploadBytes int64,
) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handler{
		shares:    shares,
		model:     model,
		metrics:   metricsRegistry,
		analyzer:  health.NewAnalyzer(metricsRegistry, logger),
		logger:    logger,
		maxUpload: maxUploadBytes,
		now:       time.Now,
	}
}
