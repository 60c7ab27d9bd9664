package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

// EventTracker grava eventos de analytics sem bloquear a requisição e sem
// devolver erro: falhas só são logadas.
type EventTracker interface {
	Track(ctx context.Context, e *entity.Event)
}

type LeadNotifier interface {
	PublishLeadCaptured(ctx context.Context, payload queue.LeadCapturedPayload) error
}

// RequestMeta carrega dados do visitante para atribuição.
type RequestMeta struct {
	IP        string
	UserAgent string
}
