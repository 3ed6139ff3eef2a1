package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"item-appraiser/internal/export"
	"item-appraiser/internal/metrics"
)

/* ---------------- POST /api/export/excel ---------------- */

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.metrics.Inc(metrics.ExportRequestsTotal)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUpload))
	if err != nil {
		formError(w, err)
		return
	}

	records, err := export.DecodeRecords(body)
	if err != nil {
		if errors.Is(err, export.ErrNoRecords) {
			respondError(w, http.StatusBadRequest, "no items to export")
			return
		}
		respondError(w, http.StatusBadRequest, "body must be an array of item objects")
		return
	}

	// Render fully before writing headers so a failure can still be a JSON error.
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, records); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("csv export failed")
		respondError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.Filename(h.now())))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
