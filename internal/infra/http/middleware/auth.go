package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/infra/auth"
	"github.com/xavierca1/ligue-crm/internal/infra/logger"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type principalKey struct{}

type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.UserClaims, error)
}

// Authenticate exige um Bearer válido. Sem token, a requisição termina aqui
// com 401, antes de qualquer acesso ao banco.
func Authenticate(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromContext(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Debug("requisição sem Authorization")
				unauthorized(w, "missing authorization token")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				unauthorized(w, "invalid authorization format, expected Bearer token")
				return
			}

			claims, err := validator.ValidateToken(strings.TrimSpace(parts[1]))
			if err != nil {
				log.Warn("token inválido", zap.Error(err))
				unauthorized(w, "invalid or expired token")
				return
			}

			principal := usecase.Principal{UserID: claims.UserID, Email: claims.Email}
			ctx := WithPrincipal(r.Context(), principal)
			ctx = logger.WithContext(ctx, log.With(zap.String("user_id", claims.UserID)))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithPrincipal(ctx context.Context, p usecase.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom devolve o principal vazio quando a rota não passou pelo
// Authenticate; os use cases rejeitam com 401.
func PrincipalFrom(ctx context.Context) usecase.Principal {
	p, _ := ctx.Value(principalKey{}).(usecase.Principal)
	return p
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   usecase.CodeUnauthorized,
		"message": message,
	})
}
