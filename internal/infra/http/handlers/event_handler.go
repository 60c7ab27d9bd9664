package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type EventHandler struct {
	ClickUC *usecase.TrackClickUseCase
}

// Click sempre responde 204: tracking nunca quebra a página.
func (h *EventHandler) Click(w http.ResponseWriter, r *http.Request) {
	var input usecase.TrackClickInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&input); err == nil {
		h.ClickUC.Execute(r.Context(), input, requestMeta(r))
	}
	w.WriteHeader(http.StatusNoContent)
}
