package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"item-appraiser/internal/appraisal"
	"item-appraiser/internal/llm"
	"item-appraiser/internal/locale"
	"item-appraiser/internal/metrics"
	"item-appraiser/internal/prompt"
)

const (
	analyzeMaxTokens   = 2000
	analyzeTemperature = 0.3
)

/* ---------------- POST /api/analyze ---------------- */

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	h.metrics.Inc(metrics.AnalyzeRequestsTotal)

	if err := parseForm(w, r, h.maxUpload); err != nil {
		formError(w, err)
		return
	}

	img, err := formImage(r, "image")
	if err != nil {
		if errors.Is(err, errNoImage) || errors.Is(err, errNotImage) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		formError(w, err)
		return
	}

	loc := locale.Resolve(
		r.FormValue("language"),
		r.FormValue("currency"),
		r.FormValue("region"),
	)

	reply, err := h.model.Complete(r.Context(), llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Text: prompt.AnalysisSystem(loc)},
			{
				Role:        llm.RoleUser,
				Text:        prompt.AnalysisUser(loc),
				ImageURL:    img.dataURL(),
				ImageDetail: llm.DetailHigh,
			},
		},
		MaxTokens:   analyzeMaxTokens,
		Temperature: analyzeTemperature,
		JSON:        true,
	})
	if err != nil {
		respondUpstreamError(w, r, err)
		return
	}

	estimate, err := appraisal.ParseEstimate(reply)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("unusable model reply")
		respondError(w, http.StatusBadGateway, "could not read the model's answer, please try again")
		return
	}

	estimate.Currency = loc.Currency.Code
	estimate.Language = loc.Language.Code
	estimate.Region = loc.Region.Code
	if len(estimate.Platforms) == 0 {
		estimate.Platforms = loc.Region.Platforms
	}

	respondOK(w, estimate)
}
