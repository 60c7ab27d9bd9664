package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type PageRenderer interface {
	RenderPage(w io.Writer, user *entity.User, page *entity.Page) error
}

type PageHandler struct {
	RenderUC *usecase.RenderPageUseCase
	UpdateUC *usecase.UpdatePageUseCase
	Renderer PageRenderer
}

// GetJSON devolve a página para o editor/front. Não conta como visita.
func (h *PageHandler) GetJSON(w http.ResponseWriter, r *http.Request) {
	out, err := h.RenderUC.Execute(r.Context(), chi.URLParam(r, "userSlug"), "", requestMeta(r), false)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Public serve o HTML da página e registra a visita.
func (h *PageHandler) Public(w http.ResponseWriter, r *http.Request) {
	source := firstParam(r.URL.Query().Get("utm_source"), r.URL.Query().Get("ref"))

	out, err := h.RenderUC.Execute(r.Context(), chi.URLParam(r, "userSlug"), source, requestMeta(r), true)
	if err != nil {
		var de *usecase.DomainError
		if errors.As(err, &de) && statusFor(de.Code) == http.StatusNotFound {
			http.NotFound(w, r)
			return
		}
		handleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.Renderer.RenderPage(&buf, out.User, out.Page); err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func (h *PageHandler) UpdateMine(w http.ResponseWriter, r *http.Request) {
	var input usecase.UpdatePageInput
	if !decodeJSON(w, r, &input) {
		return
	}

	page, err := h.UpdateUC.Execute(r.Context(), middleware.PrincipalFrom(r.Context()), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}
