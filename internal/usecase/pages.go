package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/logger"
)

// PublicProfile é o que a página pública pode expor do dono.
type PublicProfile struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type PublicPage struct {
	User    *entity.User  `json:"-"`
	Profile PublicProfile `json:"user"`
	Page    *entity.Page  `json:"page"`
}

type RenderPageUseCase struct {
	UserRepo entity.UserRepositoryInterface
	PageRepo entity.PageRepositoryInterface
	Tracker  EventTracker
}

func NewRenderPageUseCase(userRepo entity.UserRepositoryInterface, pageRepo entity.PageRepositoryInterface, tracker EventTracker) *RenderPageUseCase {
	return &RenderPageUseCase{UserRepo: userRepo, PageRepo: pageRepo, Tracker: tracker}
}

// Execute resolve a página pública. Com trackVisit, registra a visita para
// atribuição sem afetar a resposta.
func (uc *RenderPageUseCase) Execute(ctx context.Context, userSlug, source string, meta RequestMeta, trackVisit bool) (*PublicPage, error) {
	userSlug = strings.TrimSpace(userSlug)
	if userSlug == "" {
		return nil, validationError("userSlug is required")
	}

	user, err := uc.UserRepo.FindBySlug(ctx, userSlug)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, notFound(CodeUserNotFound, "usuário não encontrado")
		}
		return nil, databaseError("falha ao buscar usuário", err)
	}

	page, err := uc.PageRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, entity.ErrNotFound) {
			return nil, databaseError("falha ao buscar página", err)
		}
		page = &entity.Page{UserID: user.ID, Title: user.Name, Blocks: []entity.Block{}}
	}

	if trackVisit && uc.Tracker != nil {
		event := entity.NewEvent(user.ID, entity.EventVisit, meta.IP, meta.UserAgent)
		event.Source = source
		uc.Tracker.Track(ctx, event)
	}

	return &PublicPage{
		User:    user,
		Profile: PublicProfile{Name: user.Name, Slug: user.Slug},
		Page:    page,
	}, nil
}

type UpdatePageInput struct {
	Title     string            `json:"title"`
	Bio       string            `json:"bio"`
	AvatarURL string            `json:"avatarUrl"`
	Blocks    []json.RawMessage `json:"blocks"`
}

type UpdatePageUseCase struct {
	PageRepo entity.PageRepositoryInterface
}

func NewUpdatePageUseCase(pageRepo entity.PageRepositoryInterface) *UpdatePageUseCase {
	return &UpdatePageUseCase{PageRepo: pageRepo}
}

// Execute substitui a página do usuário. Cada bloco é construído pelo tipo
// declarado; campos de outro tipo ou tipos desconhecidos são rejeitados.
func (uc *UpdatePageUseCase) Execute(ctx context.Context, principal Principal, input UpdatePageInput) (*entity.Page, error) {
	if err := principal.authenticate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, validationError("title is required")
	}

	blocks, err := entity.DecodeBlocks(input.Blocks)
	if err != nil {
		return nil, validationError(err.Error())
	}

	page, err := uc.PageRepo.FindByUserID(ctx, principal.UserID)
	if err != nil {
		if !errors.Is(err, entity.ErrNotFound) {
			return nil, databaseError("falha ao buscar página", err)
		}
		page = &entity.Page{ID: uuid.New().String(), UserID: principal.UserID}
	}

	page.Title = strings.TrimSpace(input.Title)
	page.Bio = strings.TrimSpace(input.Bio)
	page.AvatarURL = strings.TrimSpace(input.AvatarURL)
	page.Blocks = blocks
	page.UpdatedAt = time.Now()

	if err := uc.PageRepo.Upsert(ctx, page); err != nil {
		return nil, databaseError("falha ao salvar página", err)
	}
	return page, nil
}

type TrackClickInput struct {
	UserSlug string `json:"userSlug"`
	BlockID  string `json:"blockId"`
	Source   string `json:"source,omitempty"`
}

type TrackClickUseCase struct {
	UserRepo entity.UserRepositoryInterface
	Tracker  EventTracker
}

func NewTrackClickUseCase(userRepo entity.UserRepositoryInterface, tracker EventTracker) *TrackClickUseCase {
	return &TrackClickUseCase{UserRepo: userRepo, Tracker: tracker}
}

// Execute é best-effort do início ao fim: nunca devolve erro.
func (uc *TrackClickUseCase) Execute(ctx context.Context, input TrackClickInput, meta RequestMeta) {
	log := logger.FromContext(ctx)
	if strings.TrimSpace(input.UserSlug) == "" || uc.Tracker == nil {
		return
	}

	user, err := uc.UserRepo.FindBySlug(ctx, strings.TrimSpace(input.UserSlug))
	if err != nil {
		if !errors.Is(err, entity.ErrNotFound) {
			log.Warn("falha ao resolver usuário do clique", zap.Error(err))
		}
		return
	}

	event := entity.NewEvent(user.ID, entity.EventClick, meta.IP, meta.UserAgent)
	event.BlockID = input.BlockID
	event.Source = input.Source
	uc.Tracker.Track(ctx, event)
}
