package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

const maxImportBytes = 5 << 20

// LeadsHandler atende o painel autenticado (/api/leads).
type LeadsHandler struct {
	ListUC   *usecase.ListLeadsUseCase
	GetUC    *usecase.GetLeadUseCase
	CreateUC *usecase.CreateLeadUseCase
	UpdateUC *usecase.UpdateLeadUseCase
	MoveUC   *usecase.MoveLeadUseCase
	DeleteUC *usecase.DeleteLeadUseCase
	ImportUC *usecase.ImportLeadsUseCase
}

func (h *LeadsHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.ListUC.Execute(r.Context(), middleware.PrincipalFrom(r.Context()), r.URL.Query().Get("pipelineId"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leads": leads})
}

func (h *LeadsHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.GetUC.Execute(r.Context(), middleware.PrincipalFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateLeadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	lead, err := h.CreateUC.Execute(r.Context(), middleware.PrincipalFrom(r.Context()), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

// Update aceita o id no path, na query (leadId ou id) ou no corpo.
func (h *LeadsHandler) Update(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeInvalidJSON, "JSON inválido")
		return
	}

	var ids struct {
		ID     string `json:"id"`
		LeadID string `json:"leadId"`
	}
	var patch usecase.LeadPatch
	if json.Unmarshal(body, &ids) != nil || json.Unmarshal(body, &patch) != nil {
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeInvalidJSON, "JSON inválido")
		return
	}

	leadID := firstParam(
		chi.URLParam(r, "id"),
		r.URL.Query().Get("leadId"),
		r.URL.Query().Get("id"),
		ids.ID,
		ids.LeadID,
	)
	if leadID == "" {
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidation, "lead id is required")
		return
	}

	lead, err := h.UpdateUC.Execute(r.Context(), middleware.PrincipalFrom(r.Context()), leadID, patch)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadsHandler) Move(w http.ResponseWriter, r *http.Request) {
	var input usecase.MoveLeadInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if id := chi.URLParam(r, "id"); id != "" {
		input.LeadID = id
	}

	out, err := h.MoveUC.Execute(r.Context(), middleware.PrincipalFrom(r.Context()), input)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if out.From != out.To {
		middleware.RecordLeadTransition(out.From.String(), out.To.String())
	}
	writeJSON(w, http.StatusOK, out)
}

// Delete apaga definitivamente. Aceita /api/leads/{id} ou /api/leads?id=.
func (h *LeadsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	leadID := firstParam(chi.URLParam(r, "id"), r.URL.Query().Get("id"), r.URL.Query().Get("leadId"))

	if err := h.DeleteUC.Execute(r.Context(), middleware.PrincipalFrom(r.Context()), leadID); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": leadID})
}

// Import recebe o CSV cru (text/csv) ou multipart com o campo "file".
func (h *LeadsHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	var src io.Reader = r.Body
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		file, _, err := r.FormFile("file")
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidation, "file is required")
			return
		}
		defer file.Close()
		src = file
	}

	out, err := h.ImportUC.Execute(r.Context(), middleware.PrincipalFrom(r.Context()), r.URL.Query().Get("pipelineId"), src)
	if err != nil {
		handleError(w, r, err)
		return
	}

	middleware.RecordLeadsImported(out.Imported)
	writeJSON(w, http.StatusOK, out)
}

func firstParam(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
