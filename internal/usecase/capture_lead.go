package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/logger"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type CaptureLeadInput struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Email          string `json:"email,omitempty"`
	UserSlug       string `json:"userSlug"`
	IndicationSlug string `json:"indicationSlug,omitempty"`
	Source         string `json:"source,omitempty"`
	UTMSource      string `json:"utmSource,omitempty"`
	UTMMedium      string `json:"utmMedium,omitempty"`
	UTMCampaign    string `json:"utmCampaign,omitempty"`
	UTMTerm        string `json:"utmTerm,omitempty"`
	UTMContent     string `json:"utmContent,omitempty"`
}

type CaptureLeadUseCase struct {
	UserRepo       entity.UserRepositoryInterface
	IndicationRepo entity.IndicationRepositoryInterface
	LeadRepo       entity.LeadRepositoryInterface
	Tracker        EventTracker
	Notifier       LeadNotifier
}

func NewCaptureLeadUseCase(
	userRepo entity.UserRepositoryInterface,
	indicationRepo entity.IndicationRepositoryInterface,
	leadRepo entity.LeadRepositoryInterface,
	tracker EventTracker,
	notifier LeadNotifier,
) *CaptureLeadUseCase {
	return &CaptureLeadUseCase{
		UserRepo:       userRepo,
		IndicationRepo: indicationRepo,
		LeadRepo:       leadRepo,
		Tracker:        tracker,
		Notifier:       notifier,
	}
}

func (uc *CaptureLeadUseCase) Execute(ctx context.Context, input CaptureLeadInput, meta RequestMeta) (*entity.Lead, error) {
	log := logger.FromContext(ctx)

	if errs := ValidateCaptureLeadInput(input); len(errs) > 0 {
		return nil, validationError(joinValidation(errs))
	}

	user, err := uc.UserRepo.FindBySlug(ctx, strings.TrimSpace(input.UserSlug))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, notFound(CodeUserNotFound, "usuário não encontrado")
		}
		return nil, databaseError("falha ao buscar usuário", err)
	}

	lead, err := entity.NewLead(user.ID, input.Name, input.Phone)
	if err != nil {
		return nil, validationError(err.Error())
	}
	lead.Email = strings.TrimSpace(input.Email)
	lead.Attribution = entity.Attribution{
		Source:      input.Source,
		UTMSource:   input.UTMSource,
		UTMMedium:   input.UTMMedium,
		UTMCampaign: input.UTMCampaign,
		UTMTerm:     input.UTMTerm,
		UTMContent:  input.UTMContent,
	}
	lead.IndicationID = uc.resolveIndication(ctx, user.ID, input.IndicationSlug)

	if err := uc.LeadRepo.Create(ctx, lead); err != nil {
		return nil, databaseError("falha ao salvar lead", err)
	}

	log.Info("lead capturado",
		zap.String("lead_id", lead.ID),
		zap.String("user_id", user.ID),
		zap.String("source", lead.Source))

	// Evento e notificação são best-effort: o lead já existe.
	if uc.Tracker != nil {
		event := entity.NewEvent(user.ID, entity.EventLead, meta.IP, meta.UserAgent)
		event.LeadID = &lead.ID
		event.Source = firstNonEmpty(lead.UTMSource, lead.Source)
		uc.Tracker.Track(ctx, event)
	}

	if uc.Notifier != nil {
		payload := queue.LeadCapturedPayload{
			LeadID:     lead.ID,
			UserID:     user.ID,
			Name:       lead.Name,
			Phone:      lead.Phone,
			Email:      lead.Email,
			Source:     lead.Source,
			Indication: input.IndicationSlug,
		}
		if err := uc.Notifier.PublishLeadCaptured(ctx, payload); err != nil {
			log.Warn("falha ao publicar notificação de lead", zap.String("lead_id", lead.ID), zap.Error(err))
		}
	}

	return lead, nil
}

// A indicação só vale dentro do namespace do dono da página. Sem match, o
// lead segue sem indicação.
func (uc *CaptureLeadUseCase) resolveIndication(ctx context.Context, userID, slug string) *string {
	slug = strings.TrimSpace(slug)
	if slug == "" || uc.IndicationRepo == nil {
		return nil
	}

	ind, err := uc.IndicationRepo.FindBySlug(ctx, userID, slug)
	if err != nil {
		if !errors.Is(err, entity.ErrNotFound) {
			logger.FromContext(ctx).Warn("falha ao buscar indicação", zap.String("slug", slug), zap.Error(err))
		}
		return nil
	}
	if ind == nil || ind.UserID != userID {
		return nil
	}
	return &ind.ID
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
