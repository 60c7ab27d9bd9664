package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/infra/logger"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

const maxBodyBytes = 1 << 20

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// handleError traduz o erro do use case em status HTTP. Erros técnicos vão
// para o log e o cliente recebe só uma mensagem genérica.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		writeErrorResponse(w, statusFor(de.Code), de.Code, de.Message)
		return
	}

	logger.FromContext(r.Context()).Error("erro interno",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Erro interno. Tente novamente.")
}

func statusFor(code string) int {
	switch {
	case code == usecase.CodeValidation, code == usecase.CodeInvalidJSON:
		return http.StatusBadRequest
	case code == usecase.CodeUnauthorized:
		return http.StatusUnauthorized
	case code == usecase.CodeNotFound, strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// decodeJSON devolve false e já responde 400 quando o corpo não é JSON válido.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		msg := "JSON inválido"
		if errors.Is(err, io.EOF) {
			msg = "corpo da requisição vazio"
		}
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeInvalidJSON, msg)
		return false
	}
	return true
}

// getClientIP lê só o RemoteAddr. Atrás de proxy confiável o chimw.RealIP já
// o reescreveu a partir dos headers.
func getClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func requestMeta(r *http.Request) usecase.RequestMeta {
	return usecase.RequestMeta{IP: getClientIP(r), UserAgent: r.UserAgent()}
}
