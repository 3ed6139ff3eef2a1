package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"item-appraiser/internal/store"
)

type shareResponse struct {
	ShareID   string    `json:"shareId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

/* ---------------- POST /api/share ---------------- */

func (h *Handler) CreateShare(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUpload))
	if err != nil {
		formError(w, err)
		return
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		respondError(w, http.StatusBadRequest, "body must be a JSON object")
		return
	}

	var name string
	raw, ok := fields["name"]
	if !ok || json.Unmarshal(raw, &name) != nil || strings.TrimSpace(name) == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	entry, err := h.shares.Put(json.RawMessage(body))
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("share rejected")
		if errors.Is(err, store.ErrCapacityExceeded) {
			respondError(w, http.StatusServiceUnavailable, "share storage is full, please try again later")
			return
		}
		respondError(w, http.StatusInternalServerError, "could not create share")
		return
	}

	respondOK(w, shareResponse{ShareID: entry.ID, ExpiresAt: entry.ExpiresAt})
}

/* ---------------- GET /api/share/{id} ---------------- */

func (h *Handler) GetShare(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusNotFound, "share not found or expired")
		return
	}

	payload, ok := h.shares.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, "share not found or expired")
		return
	}

	respondOK(w, payload)
}
