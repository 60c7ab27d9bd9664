package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/infra/logger"
)

// RequestLogger coloca no contexto um logger com o request id (gerado pelo
// chimw.RequestID) e loga o fim de cada requisição.
func RequestLogger(base *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			log := base
			if id := chimw.GetReqID(r.Context()); id != "" {
				log = log.With(zap.String("request_id", id))
				w.Header().Set("X-Request-ID", id)
			}

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context(), log)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_ip", r.RemoteAddr),
			}
			switch {
			case status >= 500:
				log.Error("requisição concluída", fields...)
			case status >= 400:
				log.Warn("requisição concluída", fields...)
			default:
				log.Info("requisição concluída", fields...)
			}
		})
	}
}
