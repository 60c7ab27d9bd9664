package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/infra/logger"
)

type EventPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// EventRetentionWorker apaga eventos de analytics mais velhos que a janela
// de retenção. Leads nunca são tocados.
type EventRetentionWorker struct {
	pruner       EventPruner
	retention    time.Duration
	tickInterval time.Duration
	now          func() time.Time
}

func NewEventRetentionWorker(pruner EventPruner, retention time.Duration) *EventRetentionWorker {
	return &EventRetentionWorker{
		pruner:       pruner,
		retention:    retention,
		tickInterval: 1 * time.Hour,
		now:          time.Now,
	}
}

func (w *EventRetentionWorker) Start(ctx context.Context) {
	log := logger.GetLogger()
	log.Info("worker de retenção de eventos iniciado", zap.Duration("retention", w.retention))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.prune(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info("worker de retenção de eventos encerrado")
			return
		case <-ticker.C:
			w.prune(ctx)
		}
	}
}

func (w *EventRetentionWorker) prune(ctx context.Context) {
	cutoff := w.now().Add(-w.retention)

	n, err := w.pruner.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		logger.GetLogger().Error("erro ao apagar eventos antigos", zap.Error(err))
		return
	}
	if n > 0 {
		logger.GetLogger().Info("eventos antigos apagados",
			zap.Int64("count", n),
			zap.Time("cutoff", cutoff))
	}
}
