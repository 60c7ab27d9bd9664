package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(usecase.CodeValidation))
	assert.Equal(t, http.StatusBadRequest, statusFor(usecase.CodeInvalidJSON))
	assert.Equal(t, http.StatusUnauthorized, statusFor(usecase.CodeUnauthorized))
	assert.Equal(t, http.StatusNotFound, statusFor(usecase.CodeLeadNotFound))
	assert.Equal(t, http.StatusNotFound, statusFor(usecase.CodePipelineNotFound))
	assert.Equal(t, http.StatusNotFound, statusFor(usecase.CodeUserNotFound))
	assert.Equal(t, http.StatusInternalServerError, statusFor(usecase.CodeDatabase))
}

func TestHandleErrorHidesTechnicalDetails(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	handleError(w, r, &usecase.TechnicalError{Code: usecase.CodeDatabase, Message: "falha", Err: errors.New("pq: senha incorreta")})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.NotContains(t, w.Body.String(), "senha")
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.1:5555"
	assert.Equal(t, "192.0.2.1", getClientIP(r))

	// Headers do cliente não contam; só o RealIP (proxy confiável) mexe no RemoteAddr.
	r.Header.Set("X-Real-IP", "198.51.100.7")
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "192.0.2.1", getClientIP(r))

	r.RemoteAddr = "[2001:db8::1]:443"
	assert.Equal(t, "2001:db8::1", getClientIP(r))
}

func TestGetClientIP_BehindTrustedProxy(t *testing.T) {
	var got string
	h := chimw.RealIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = getClientIP(r)
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.2:5555"
	r.Header.Set("X-Real-IP", "198.51.100.7")
	h.ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, "198.51.100.7", got)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, 50*time.Millisecond)
	defer rl.Stop()

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))

	time.Sleep(60 * time.Millisecond)
	assert.True(t, rl.Allow("a"))
}

type pingErr struct{ err error }

func (p pingErr) PingContext(context.Context) error { return p.err }

type closedConn bool

func (c closedConn) IsClosed() bool { return bool(c) }

func TestHealthDegraded(t *testing.T) {
	h := NewHealthHandler(pingErr{errors.New("connection refused")}, closedConn(true), true)
	w := httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "degraded")

	h = NewHealthHandler(pingErr{}, closedConn(false), true)
	w = httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
