package tracking

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/logger"
)

const DefaultTimeout = 3 * time.Second

// Tracker grava eventos de analytics fora do caminho da requisição. Falhas
// são logadas e contadas, nunca devolvidas.
type Tracker struct {
	Repo    entity.EventRepositoryInterface
	Timeout time.Duration

	wg sync.WaitGroup
}

func NewTracker(repo entity.EventRepositoryInterface, timeout time.Duration) *Tracker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Tracker{Repo: repo, Timeout: timeout}
}

// Track não bloqueia. O contexto da requisição só contribui com o logger:
// a gravação usa um contexto próprio para sobreviver ao fim da resposta.
func (t *Tracker) Track(ctx context.Context, event *entity.Event) {
	if event == nil {
		return
	}
	log := logger.FromContext(ctx)

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				middleware.RecordTrackingFailure(string(event.Type))
				log.Error("panic ao gravar evento", zap.Any("panic", p))
			}
		}()

		writeCtx, cancel := context.WithTimeout(context.Background(), t.Timeout)
		defer cancel()

		if err := t.Repo.Create(writeCtx, event); err != nil {
			middleware.RecordTrackingFailure(string(event.Type))
			log.Warn("falha ao gravar evento de tracking",
				zap.String("type", string(event.Type)),
				zap.String("user_id", event.UserID),
				zap.Error(err))
		}
	}()
}

// Wait espera as gravações pendentes. Usado no shutdown e nos testes.
func (t *Tracker) Wait() {
	t.wg.Wait()
}
