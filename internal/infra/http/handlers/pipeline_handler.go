package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type PipelineHandler struct {
	CreateUC *usecase.CreatePipelineUseCase
	ListUC   *usecase.ListPipelinesUseCase
	BoardUC  *usecase.GetBoardUseCase
	DeleteUC *usecase.DeletePipelineUseCase
}

func (h *PipelineHandler) List(w http.ResponseWriter, r *http.Request) {
	pipelines, err := h.ListUC.Execute(r.Context(), middleware.PrincipalFrom(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pipelines": pipelines})
}

func (h *PipelineHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreatePipelineInput
	if !decodeJSON(w, r, &input) {
		return
	}

	p, err := h.CreateUC.Execute(r.Context(), middleware.PrincipalFrom(r.Context()), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PipelineHandler) Board(w http.ResponseWriter, r *http.Request) {
	out, err := h.BoardUC.Execute(r.Context(), middleware.PrincipalFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Delete aceita /api/pipelines/{id} ou /api/pipelines?pipelineId=.
func (h *PipelineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := firstParam(chi.URLParam(r, "id"), r.URL.Query().Get("pipelineId"), r.URL.Query().Get("id"))

	out, err := h.DeleteUC.Execute(r.Context(), middleware.PrincipalFrom(r.Context()), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	middleware.RecordPipelineDeleted()
	writeJSON(w, http.StatusOK, out)
}
