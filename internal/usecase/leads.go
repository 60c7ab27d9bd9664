package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

func loadOwnedLead(ctx context.Context, repo entity.LeadRepositoryInterface, principal Principal, id string) (*entity.Lead, error) {
	lead, err := repo.FindByID(ctx, principal.UserID, id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, notFound(CodeLeadNotFound, "lead não encontrado")
		}
		return nil, databaseError("falha ao buscar lead", err)
	}
	// O repositório já filtra por user_id; a checagem repete a fronteira.
	if lead.UserID != principal.UserID {
		return nil, notFound(CodeLeadNotFound, "lead não encontrado")
	}
	return lead, nil
}

func loadOwnedPipeline(ctx context.Context, repo entity.PipelineRepositoryInterface, principal Principal, id string) (*entity.Pipeline, error) {
	p, err := repo.FindByID(ctx, principal.UserID, id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, notFound(CodePipelineNotFound, "pipeline não encontrado")
		}
		return nil, databaseError("falha ao buscar pipeline", err)
	}
	if p.UserID != principal.UserID {
		return nil, notFound(CodePipelineNotFound, "pipeline não encontrado")
	}
	return p, nil
}

// LeadView é o lead com a coluna do quadro onde ele aparece.
type LeadView struct {
	*entity.Lead
	Column string `json:"column"`
}

type CreateLeadInput struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
	Status       string `json:"status,omitempty"`
	PipelineID   string `json:"pipelineId,omitempty"`
	MedicalNotes string `json:"medicalNotes,omitempty"`
	Source       string `json:"source,omitempty"`
}

type CreateLeadUseCase struct {
	LeadRepo     entity.LeadRepositoryInterface
	PipelineRepo entity.PipelineRepositoryInterface
}

func NewCreateLeadUseCase(leadRepo entity.LeadRepositoryInterface, pipelineRepo entity.PipelineRepositoryInterface) *CreateLeadUseCase {
	return &CreateLeadUseCase{LeadRepo: leadRepo, PipelineRepo: pipelineRepo}
}

func (uc *CreateLeadUseCase) Execute(ctx context.Context, principal Principal, input CreateLeadInput) (*entity.Lead, error) {
	if err := principal.authenticate(); err != nil {
		return nil, err
	}
	if errs := ValidateCreateLeadInput(input); len(errs) > 0 {
		return nil, validationError(joinValidation(errs))
	}

	lead, err := entity.NewLead(principal.UserID, input.Name, input.Phone)
	if err != nil {
		return nil, validationError(err.Error())
	}
	lead.Status, _ = entity.ParseStatus(input.Status)
	lead.Email = strings.TrimSpace(input.Email)
	lead.MedicalNotes = strings.TrimSpace(input.MedicalNotes)
	lead.Source = firstNonEmpty(strings.TrimSpace(input.Source), "manual")

	if id := strings.TrimSpace(input.PipelineID); id != "" {
		if _, err := loadOwnedPipeline(ctx, uc.PipelineRepo, principal, id); err != nil {
			return nil, err
		}
		lead.PipelineID = &id
	}

	if err := uc.LeadRepo.Create(ctx, lead); err != nil {
		return nil, databaseError("falha ao salvar lead", err)
	}
	return lead, nil
}

type ListLeadsUseCase struct {
	LeadRepo     entity.LeadRepositoryInterface
	PipelineRepo entity.PipelineRepositoryInterface
}

func NewListLeadsUseCase(leadRepo entity.LeadRepositoryInterface, pipelineRepo entity.PipelineRepositoryInterface) *ListLeadsUseCase {
	return &ListLeadsUseCase{LeadRepo: leadRepo, PipelineRepo: pipelineRepo}
}

// Execute lista os leads do usuário (sem os Removido), cada um marcado com a
// coluna do quadro do seu pipeline.
func (uc *ListLeadsUseCase) Execute(ctx context.Context, principal Principal, pipelineID string) ([]LeadView, error) {
	if err := principal.authenticate(); err != nil {
		return nil, err
	}
	pipelineID = strings.TrimSpace(pipelineID)

	boards := map[string]*entity.Board{}
	if pipelineID != "" {
		p, err := loadOwnedPipeline(ctx, uc.PipelineRepo, principal, pipelineID)
		if err != nil {
			return nil, err
		}
		boards[p.ID] = entity.NewBoard(p)
	} else {
		pipelines, err := uc.PipelineRepo.ListByUser(ctx, principal.UserID)
		if err != nil {
			return nil, databaseError("falha ao listar pipelines", err)
		}
		for _, p := range pipelines {
			boards[p.ID] = entity.NewBoard(p)
		}
	}

	leads, err := uc.LeadRepo.ListByUser(ctx, principal.UserID, entity.LeadFilter{PipelineID: pipelineID})
	if err != nil {
		return nil, databaseError("falha ao listar leads", err)
	}

	defaultBoard := entity.NewBoard(nil)
	views := make([]LeadView, 0, len(leads))
	for _, l := range leads {
		if l.Removed() {
			continue
		}
		board := defaultBoard
		if l.PipelineID != nil {
			if b, ok := boards[*l.PipelineID]; ok {
				board = b
			}
		}
		views = append(views, LeadView{Lead: l, Column: board.ColumnFor(l.Status).ID})
	}
	return views, nil
}

type GetLeadUseCase struct {
	LeadRepo entity.LeadRepositoryInterface
}

func NewGetLeadUseCase(leadRepo entity.LeadRepositoryInterface) *GetLeadUseCase {
	return &GetLeadUseCase{LeadRepo: leadRepo}
}

// Execute busca pelo id sem filtrar status: leads Removido continuam acessíveis.
func (uc *GetLeadUseCase) Execute(ctx context.Context, principal Principal, id string) (*entity.Lead, error) {
	if err := principal.authenticate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, validationError("id is required")
	}
	return loadOwnedLead(ctx, uc.LeadRepo, principal, id)
}

type DeleteLeadUseCase struct {
	LeadRepo entity.LeadRepositoryInterface
}

func NewDeleteLeadUseCase(leadRepo entity.LeadRepositoryInterface) *DeleteLeadUseCase {
	return &DeleteLeadUseCase{LeadRepo: leadRepo}
}

// Execute apaga o registro de vez. Para tirar do quadro sem apagar, use o
// status Removido.
func (uc *DeleteLeadUseCase) Execute(ctx context.Context, principal Principal, id string) error {
	if err := principal.authenticate(); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return validationError("id is required")
	}

	if _, err := loadOwnedLead(ctx, uc.LeadRepo, principal, id); err != nil {
		return err
	}
	if err := uc.LeadRepo.Delete(ctx, principal.UserID, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return notFound(CodeLeadNotFound, "lead não encontrado")
		}
		return databaseError("falha ao apagar lead", err)
	}
	return nil
}
