package api

import (
	"errors"
	"net/http"
	"strings"

	"item-appraiser/internal/appraisal"
	"item-appraiser/internal/llm"
	"item-appraiser/internal/locale"
	"item-appraiser/internal/metrics"
	"item-appraiser/internal/prompt"
)

const (
	chatMaxTokens   = 1000
	chatTemperature = 0.7
)

type chatResponse struct {
	Reply string `json:"reply"`
}

/* ---------------- POST /api/chat ---------------- */

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	h.metrics.Inc(metrics.ChatRequestsTotal)

	if err := parseForm(w, r, h.maxUpload); err != nil {
		formError(w, err)
		return
	}

	message := strings.TrimSpace(r.FormValue("message"))
	itemInfo := r.FormValue("itemInfo")
	if message == "" || strings.TrimSpace(itemInfo) == "" {
		respondError(w, http.StatusBadRequest, "message and itemInfo are required")
		return
	}

	item, err := appraisal.DecodeItem([]byte(itemInfo))
	if err != nil {
		respondError(w, http.StatusBadRequest, "itemInfo must be a JSON object")
		return
	}

	history, err := appraisal.DecodeHistory(r.FormValue("chatHistory"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "chatHistory must be a JSON array")
		return
	}

	language := r.FormValue("language")
	if language == "" {
		language = item.Language
	}
	loc := locale.Resolve(language, item.Currency, item.Region)

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{
		Role: llm.RoleSystem,
		Text: prompt.ChatSystem(item, loc),
	})
	for _, m := range history {
		messages = append(messages, llm.Message{Role: llm.Role(m.Role), Text: m.Content})
	}

	current := llm.Message{Role: llm.RoleUser, Text: message}
	if r.FormValue("includeImage") == "true" || prompt.WantsImage(message) {
		img, err := formImage(r, "image")
		switch {
		case err == nil:
			current.Text = prompt.RevisitText(message)
			current.ImageURL = img.dataURL()
			current.ImageDetail = llm.DetailLow
		case errors.Is(err, errNoImage):
			// text only
		case errors.Is(err, errNotImage):
			respondError(w, http.StatusBadRequest, err.Error())
			return
		default:
			formError(w, err)
			return
		}
	}
	messages = append(messages, current)

	reply, err := h.model.Complete(r.Context(), llm.Request{
		Messages:    messages,
		MaxTokens:   chatMaxTokens,
		Temperature: chatTemperature,
	})
	if err != nil {
		respondUpstreamError(w, r, err)
		return
	}

	respondOK(w, chatResponse{Reply: reply})
}
